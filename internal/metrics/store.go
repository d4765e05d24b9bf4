package metrics

import (
	"context"
	"database/sql"
	"time"

	"github.com/jislas1039-svg/higher-self/internal/database"
	"github.com/jislas1039-svg/higher-self/internal/shared"
)

const tsLayout = "2006-01-02 15:04:05"

// GenerationMetric records metadata for a single generative call.
type GenerationMetric struct {
	Kind             string
	Model            string
	Outcome          string
	PromptTokens     int
	CompletionTokens int
	LatencyMS        int64
	Timestamp        time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	db *database.DB
}

// NewStore opens (and migrates) the metrics database at path.
func NewStore(path string) (*Store, error) {
	db, err := database.NewDB(path)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Insert saves a metric to the database.
func (s *Store) Insert(ctx context.Context, m GenerationMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.SQL.ExecContext(ctx, `
		INSERT INTO generation_metrics
		(kind, model, outcome, prompt_tokens, completion_tokens, latency_ms, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.Kind, m.Model, m.Outcome, m.PromptTokens, m.CompletionTokens, m.LatencyMS, ts.UTC().Format(tsLayout),
	)
	return err
}

// Record implements generative.Recorder.
func (s *Store) Record(meta shared.GenerationMeta) error {
	return s.Insert(context.Background(), MapMeta(meta))
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DailyUsage represents token totals for a single day.
type DailyUsage struct {
	Date            string
	TotalPrompt     int
	TotalCompletion int
	TotalExecution  int
	Failures        int
}

// GetDailyUsage retrieves usage for the last N days, newest first.
func (s *Store) GetDailyUsage(days int) ([]DailyUsage, error) {
	since := time.Now().UTC().AddDate(0, 0, -days).Format(tsLayout)
	rows, err := s.db.SQL.Query(`
		SELECT substr(timestamp, 1, 10) AS day,
		       SUM(prompt_tokens),
		       SUM(completion_tokens),
		       COUNT(*),
		       SUM(CASE WHEN outcome = 'ok' THEN 0 ELSE 1 END)
		FROM generation_metrics
		WHERE timestamp >= ?
		GROUP BY day
		ORDER BY day DESC`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var (
			u          DailyUsage
			prompt     sql.NullInt64
			completion sql.NullInt64
			failures   sql.NullInt64
		)
		if err := rows.Scan(&u.Date, &prompt, &completion, &u.TotalExecution, &failures); err != nil {
			return nil, err
		}
		u.TotalPrompt = int(prompt.Int64)
		u.TotalCompletion = int(completion.Int64)
		u.Failures = int(failures.Int64)
		results = append(results, u)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days.
func (s *Store) Cleanup(olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays).Format(tsLayout)
	res, err := s.db.SQL.Exec(`DELETE FROM generation_metrics WHERE timestamp < ?`, threshold)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// MapMeta converts shared.GenerationMeta to a GenerationMetric.
func MapMeta(meta shared.GenerationMeta) GenerationMetric {
	return GenerationMetric{
		Kind:             meta.Kind,
		Model:            meta.Usage.Model,
		Outcome:          meta.Outcome,
		PromptTokens:     meta.Usage.PromptTokens,
		CompletionTokens: meta.Usage.CompletionTokens,
		LatencyMS:        meta.Latency.Milliseconds(),
		Timestamp:        time.Now().UTC(),
	}
}

package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jislas1039-svg/higher-self/internal/shared"
)

func TestStore(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "metrics.db"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	old := GenerationMetric{Kind: "plan", Model: "m", Outcome: "ok", PromptTokens: 1, Timestamp: time.Now().AddDate(0, 0, -40)}
	if err := s.Insert(ctx, old); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := s.Record(shared.GenerationMeta{
		Kind:    "plan",
		Usage:   shared.TokenUsage{PromptTokens: 100, CompletionTokens: 50, Model: "gemini-2.5-flash"},
		Latency: 1500 * time.Millisecond,
		Outcome: "ok",
	}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := s.Record(shared.GenerationMeta{Kind: "food_analysis", Outcome: "timeout"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	usage, err := s.GetDailyUsage(7)
	if err != nil {
		t.Fatalf("GetDailyUsage failed: %v", err)
	}
	if len(usage) != 1 {
		t.Fatalf("expected 1 day of usage, got %d", len(usage))
	}
	u := usage[0]
	if u.TotalPrompt != 100 || u.TotalCompletion != 50 || u.TotalExecution != 2 || u.Failures != 1 {
		t.Errorf("unexpected usage %+v", u)
	}

	removed, err := s.Cleanup(30)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed record, got %d", removed)
	}
}

func TestGetSysHealth(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hs_plan.json"), make([]byte, 2048), 0644); err != nil {
		t.Fatal(err)
	}

	h := GetSysHealth(dir, 4096)
	if h.StorageBytes != 2048 || h.StorageSize != "2.0 KB" {
		t.Errorf("unexpected storage size %d %q", h.StorageBytes, h.StorageSize)
	}
	if h.QuotaUsedPct != 50 {
		t.Errorf("expected 50%% of quota, got %v", h.QuotaUsedPct)
	}
	if h.Goroutines < 1 {
		t.Error("expected goroutine count")
	}
}

package wellness

import (
	"time"

	"github.com/google/uuid"
)

const defaultMood = 5

type JournalEntry struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Prompt    string `json:"prompt"`
	Content   string `json:"content"`
	Mood      int    `json:"mood"`
	IsCheckIn bool   `json:"isCheckIn"`
}

// NewJournalEntry builds an entry with a time-ordered (UUIDv7) id.
func NewJournalEntry(prompt, content string, now time.Time) JournalEntry {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return JournalEntry{
		ID:      id.String(),
		Date:    now.Local().Format("1/2/2006"),
		Prompt:  prompt,
		Content: content,
		Mood:    defaultMood,
	}
}

// QuizAnswers are the five free-text answers of the calibration quiz.
type QuizAnswers struct {
	Embarrassment     string `json:"embarrassment"`
	Friendships       string `json:"friendships"`
	Love              string `json:"love"`
	FitnessMotivation string `json:"fitnessMotivation"`
	Introversion      string `json:"introversion"`
}

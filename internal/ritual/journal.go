package ritual

import (
	"strings"

	"github.com/jislas1039-svg/higher-self/internal/wellness"
)

type JournalState string

const (
	JournalIdle        JournalState = "idle"
	JournalQuiz        JournalState = "quiz"
	JournalCalibrating JournalState = "calibrating"
	JournalJournaling  JournalState = "journaling"
)

type QuizQuestion struct {
	Key      string
	Title    string
	Question string
}

var QuizQuestions = []QuizQuestion{
	{Key: "embarrassment", Title: "Public Resilience", Question: "How do you handle situations where someone tries to embarrass or mock you in public?"},
	{Key: "friendships", Title: "Friendship Dynamics", Question: "How do you navigate your friendships and the complications that arise? What values guide your choice of companions?"},
	{Key: "love", Title: "The Frequency of Love", Question: "How do you truly feel about love right now? Do you want a deep romantic connection, or is your focus elsewhere?"},
	{Key: "fitnessMotivation", Title: "The Core Driver", Question: "Beyond appearance, why are you pursuing these fitness goals? What deeper reason will keep you going?"},
	{Key: "introversion", Title: "Social Battery", Question: "Are you more introvert or extrovert, and how does that shape the way you protect and recharge your energy?"},
}

// Journal is the quiz, calibration and prompt rotation flow.
type Journal struct {
	State     JournalState
	Prompts   []string
	PromptIdx int
	QuizStep  int
	Answers   [5]string
}

func NewJournal(prompts []string) Journal {
	return Journal{State: JournalIdle, Prompts: append([]string(nil), prompts...)}
}

// CurrentPrompt is the prompt shown while journaling.
func (j Journal) CurrentPrompt() string {
	if len(j.Prompts) == 0 {
		return ""
	}
	return j.Prompts[j.PromptIdx%len(j.Prompts)]
}

// StartQuiz opens the five-question calibration.
func (j Journal) StartQuiz() (Journal, error) {
	if j.State != JournalIdle {
		return j, ErrInvalidTransition
	}
	j.State = JournalQuiz
	j.QuizStep = 0
	j.Answers = [5]string{}
	return j, nil
}

// Open goes straight to journaling with the current prompts.
func (j Journal) Open() (Journal, error) {
	if j.State != JournalIdle || len(j.Prompts) == 0 {
		return j, ErrInvalidTransition
	}
	j.State = JournalJournaling
	return j, nil
}

// Answer records the answer to the current question. Blank answers do not
// advance. The fifth answer moves to Calibrating and requests prompts.
func (j Journal) Answer(text string) (Journal, []Effect, error) {
	if j.State != JournalQuiz {
		return j, nil, ErrInvalidTransition
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return j, nil, nil
	}
	j.Answers[j.QuizStep] = text
	if j.QuizStep < len(QuizQuestions)-1 {
		j.QuizStep++
		return j, nil, nil
	}
	j.State = JournalCalibrating
	return j, []Effect{GeneratePrompts{Answers: j.quizAnswers()}}, nil
}

// PromptsReady receives the calibration result. A nil result keeps the
// previous prompts; the flow reaches Journaling either way.
func (j Journal) PromptsReady(prompts []string) (Journal, []Effect) {
	if j.State != JournalCalibrating {
		return j, nil
	}
	var effects []Effect
	if len(prompts) > 0 {
		j.Prompts = append([]string(nil), prompts...)
	} else {
		effects = append(effects, Notify{Notice: NoticeCalibrationOff})
	}
	j.PromptIdx = 0
	j.State = JournalJournaling
	return j, effects
}

// Submit saves the entry for the current prompt and rotates to the next.
func (j Journal) Submit(content string) (Journal, []Effect, error) {
	if j.State != JournalJournaling {
		return j, nil, ErrInvalidTransition
	}
	if strings.TrimSpace(content) == "" {
		return j, nil, nil
	}
	effect := SaveJournalEntry{Prompt: j.CurrentPrompt(), Content: content}
	if len(j.Prompts) > 0 {
		j.PromptIdx = (j.PromptIdx + 1) % len(j.Prompts)
	}
	j.State = JournalIdle
	return j, []Effect{effect}, nil
}

// Close leaves journaling or the quiz without saving.
func (j Journal) Close() (Journal, error) {
	if j.State == JournalCalibrating {
		return j, ErrInvalidTransition
	}
	j.State = JournalIdle
	return j, nil
}

func (j Journal) quizAnswers() wellness.QuizAnswers {
	return wellness.QuizAnswers{
		Embarrassment:     j.Answers[0],
		Friendships:       j.Answers[1],
		Love:              j.Answers[2],
		FitnessMotivation: j.Answers[3],
		Introversion:      j.Answers[4],
	}
}

package quiz

import (
	"fmt"
	"time"
)

type State string

const (
	StateLoading   State = "loading"
	StateReady     State = "ready"
	StateAnswered  State = "answered"
	StateCompleted State = "completed"
	StateError     State = "error"
)

func (s State) String() string {
	return string(s)
}

// OptionView is one option as it should be rendered. Correct and Incorrect are
// only revealed once the question has been answered.
type OptionView struct {
	Text      string `json:"text"`
	Selected  bool   `json:"selected"`
	Correct   bool   `json:"correct"`
	Incorrect bool   `json:"incorrect"`
}

// View is an immutable snapshot of a Machine.
type View struct {
	State           State         `json:"state"`
	UserID          string        `json:"user_id"`
	Question        *Question     `json:"question,omitempty"`
	Options         []OptionView  `json:"options,omitempty"`
	Selected        string        `json:"selected,omitempty"`
	SubmittedAnswer string        `json:"submitted_answer,omitempty"`
	IsCorrect       bool          `json:"is_correct"`
	AttemptedAt     time.Time     `json:"attempted_at"`
	Remaining       time.Duration `json:"remaining_ns,omitempty"`
	Error           string        `json:"error,omitempty"`
}

// Revealed reports whether correctness is visible.
func (v View) Revealed() bool {
	return v.State == StateAnswered || v.State == StateCompleted
}

// ResultLabel is the headline shown once the question is answered.
func (v View) ResultLabel() string {
	if !v.Revealed() {
		return ""
	}
	if v.IsCorrect {
		return "Correct!"
	}
	return "Incorrect"
}

// Countdown formats Remaining as HH:MM:SS.
func (v View) Countdown() string {
	return FormatCountdown(v.Remaining)
}

func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

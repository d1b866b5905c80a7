// Package quiz implements the once-per-day quiz: the question and attempt model,
// local day arithmetic and the state machine that drives a user's daily question.
package quiz

import (
	"fmt"
	"strings"
)

// OptionCount is the number of options every question must carry.
const OptionCount = 4

// Question is a multiple-choice question. It is embedded in every attempt so
// stored attempts stay stable if question generation changes.
type Question struct {
	Text        string   `json:"question" yaml:"question"`
	Options     []string `json:"options" yaml:"options"`
	Answer      string   `json:"answer" yaml:"answer"`
	Explanation string   `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// Validate reports whether the question can be served. Any violation is a
// generation failure: evaluation assumes the answer is exactly one option.
func (q Question) Validate() error {
	var problems []string
	if strings.TrimSpace(q.Text) == "" {
		problems = append(problems, "question text is empty")
	}
	if len(q.Options) != OptionCount {
		problems = append(problems, fmt.Sprintf("got %d options, want %d", len(q.Options), OptionCount))
	}

	seen := make(map[string]struct{}, len(q.Options))
	matches := 0
	for i, option := range q.Options {
		if strings.TrimSpace(option) == "" {
			problems = append(problems, fmt.Sprintf("option %d is empty", i))
			continue
		}
		if _, ok := seen[option]; ok {
			problems = append(problems, fmt.Sprintf("option %q is duplicated", option))
		}
		seen[option] = struct{}{}
		if option == q.Answer {
			matches++
		}
	}
	if matches != 1 {
		problems = append(problems, fmt.Sprintf("answer %q must appear exactly once among the options", q.Answer))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: malformed question: %s", ErrGeneration, strings.Join(problems, "; "))
	}
	return nil
}

// HasOption reports whether option is one of the question's options verbatim.
func (q Question) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

// Evaluate reports whether submitted is the correct answer. Matching is exact:
// no case folding, no trimming, no partial credit.
func Evaluate(q Question, submitted string) bool {
	return submitted != "" && submitted == q.Answer
}

func (q Question) clone() Question {
	c := q
	c.Options = append([]string(nil), q.Options...)
	return c
}

package quiz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestion_Validate(t *testing.T) {
	tests := []struct {
		name        string
		question    Question
		wantErr     bool
		wantContain string
	}{
		{
			name: "valid question",
			question: Question{
				Text:    "Q1",
				Options: []string{"A", "B", "C", "D"},
				Answer:  "B",
			},
		},
		{
			name: "valid question with explanation",
			question: Question{
				Text:        "Which keyword declares a constant in Go?",
				Options:     []string{"var", "const", "let", "final"},
				Answer:      "const",
				Explanation: "const declares compile-time constants.",
			},
		},
		{
			name: "empty text",
			question: Question{
				Options: []string{"A", "B", "C", "D"},
				Answer:  "A",
			},
			wantErr:     true,
			wantContain: "question text is empty",
		},
		{
			name: "three options",
			question: Question{
				Text:    "Q1",
				Options: []string{"A", "B", "C"},
				Answer:  "A",
			},
			wantErr:     true,
			wantContain: "got 3 options, want 4",
		},
		{
			name: "five options",
			question: Question{
				Text:    "Q1",
				Options: []string{"A", "B", "C", "D", "E"},
				Answer:  "A",
			},
			wantErr:     true,
			wantContain: "got 5 options, want 4",
		},
		{
			name: "answer not among options",
			question: Question{
				Text:    "Q1",
				Options: []string{"A", "B", "C", "D"},
				Answer:  "E",
			},
			wantErr:     true,
			wantContain: `answer "E" must appear exactly once`,
		},
		{
			name: "answer differs only by case",
			question: Question{
				Text:    "Q1",
				Options: []string{"a", "b", "c", "d"},
				Answer:  "B",
			},
			wantErr: true,
		},
		{
			name: "duplicated answer option",
			question: Question{
				Text:    "Q1",
				Options: []string{"A", "B", "B", "D"},
				Answer:  "B",
			},
			wantErr:     true,
			wantContain: `option "B" is duplicated`,
		},
		{
			name: "blank option",
			question: Question{
				Text:    "Q1",
				Options: []string{"A", " ", "C", "D"},
				Answer:  "A",
			},
			wantErr:     true,
			wantContain: "option 1 is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.question.Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrGeneration))
			if tt.wantContain != "" {
				assert.Contains(t, err.Error(), tt.wantContain)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	question := Question{
		Text:    "Q1",
		Options: []string{"A", "B", "C", "D"},
		Answer:  "B",
	}

	tests := []struct {
		name      string
		submitted string
		want      bool
	}{
		{name: "exact match", submitted: "B", want: true},
		{name: "wrong option", submitted: "C", want: false},
		{name: "different case", submitted: "b", want: false},
		{name: "surrounding whitespace", submitted: " B", want: false},
		{name: "empty", submitted: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(question, tt.submitted))
		})
	}
}

func TestEvaluate_ExactlyOneOptionIsCorrect(t *testing.T) {
	questions := []Question{
		{Text: "Q1", Options: []string{"A", "B", "C", "D"}, Answer: "A"},
		{Text: "Q2", Options: []string{"go", "Go", "GO", "gO"}, Answer: "Go"},
		{Text: "Q3", Options: []string{"1", "2", "3", "4"}, Answer: "4"},
	}

	for _, q := range questions {
		require.NoError(t, q.Validate())
		correct := 0
		for _, option := range q.Options {
			if Evaluate(q, option) {
				correct++
			}
		}
		assert.Equal(t, 1, correct, q.Text)
	}
}

func TestErrors_Is(t *testing.T) {
	cause := errors.New("boom")

	generationErr := NewGenerationError("go", cause)
	assert.True(t, errors.Is(generationErr, ErrGeneration))
	assert.True(t, errors.Is(generationErr, cause))
	assert.False(t, errors.Is(generationErr, ErrPersistence))

	persistenceErr := NewPersistenceError("u1", cause)
	assert.True(t, errors.Is(persistenceErr, ErrPersistence))
	assert.True(t, errors.Is(persistenceErr, cause))
	assert.Equal(t, "record attempt(user=u1): boom", persistenceErr.Error())
}

package assets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplateWithFallback(t *testing.T) {
	tests := []struct {
		name         string
		templatePath func(t *testing.T) string

		wantTemplateName     string
		wantTemplateContents string
	}{
		{
			name: "uses filesystem template when available",
			templatePath: func(t *testing.T) string {
				templatePath := filepath.Join(t.TempDir(), "custom.md.go.tmpl")
				content := `Custom: {{ .UserID }} {{ percentage .Summary.Accuracy }}`
				require.NoError(t, os.WriteFile(templatePath, []byte(content), 0644))
				return templatePath
			},
			wantTemplateName:     "custom.md.go.tmpl",
			wantTemplateContents: "Custom: user-1 50%",
		},
		{
			name: "uses embedded template when file doesn't exist",
			templatePath: func(t *testing.T) string {
				return "/non/existent/invalid.md.go.tmpl"
			},
			wantTemplateName: historyTemplateName,
		},
		{
			name: "uses embedded template when path is empty",
			templatePath: func(t *testing.T) string {
				return ""
			},
			wantTemplateName: historyTemplateName,
		},
		{
			name: "uses embedded template when filesystem template is invalid",
			templatePath: func(t *testing.T) string {
				templatePath := filepath.Join(t.TempDir(), "invalid.md.go.tmpl")
				require.NoError(t, os.WriteFile(templatePath, []byte(`Bad: {{ .Unclosed`), 0644))
				return templatePath
			},
			wantTemplateName: historyTemplateName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := parseTemplateWithFallback(tt.templatePath(t), historyTemplateName, fallbackHistoryTemplate)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTemplateName, tmpl.Name())

			if tt.wantTemplateContents == "" {
				return
			}
			var buf bytes.Buffer
			require.NoError(t, tmpl.Execute(&buf, HistoryTemplate{
				UserID:  "user-1",
				Summary: HistorySummary{Total: 2, Correct: 1, Accuracy: 0.5},
			}))
			assert.Equal(t, tt.wantTemplateContents, buf.String())
		})
	}
}

func TestWriteHistory(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHistory(&buf, "", HistoryTemplate{
		UserID:      "user-1",
		GeneratedAt: "2026-03-10 15:00",
		Timezone:    "UTC",
		Summary: HistorySummary{
			Total:         2,
			Correct:       1,
			Accuracy:      0.5,
			CurrentStreak: 2,
			LongestStreak: 2,
		},
		Months: []HistoryMonth{
			{Month: "2026-03", Answered: 2, Correct: 1, Accuracy: 0.5, ActiveDays: 2},
		},
		Entries: []HistoryEntry{
			{
				Date:            "2026-03-10",
				Question:        "What is the capital of France?",
				Options:         []string{"Berlin", "Paris", "Rome", "Madrid"},
				SubmittedAnswer: "Paris",
				Answer:          "Paris",
				IsCorrect:       true,
				Explanation:     "Paris has been the capital since 987.",
			},
			{
				Date:            "2026-03-09",
				Question:        "2 + 2?",
				Options:         []string{"3", "4", "5", "6"},
				SubmittedAnswer: "5",
				Answer:          "4",
			},
		},
	})
	require.NoError(t, err)

	got := buf.String()
	assert.Contains(t, got, "# Daily quiz history: user-1")
	assert.Contains(t, got, "| 2 | 1 | 50% | 2 | 2 |")
	assert.Contains(t, got, "## By month")
	assert.Contains(t, got, "| 2026-03 | 2 | 1 | 50% | 2 |")
	assert.Contains(t, got, "## 2026-03-10: Correct")
	assert.Contains(t, got, "## 2026-03-09: Incorrect")
	assert.Contains(t, got, "- Your answer: **5**")
	assert.Contains(t, got, "- Correct answer: **4**")
	assert.Contains(t, got, "Paris has been the capital since 987.")
}

package assets

import (
	_ "embed"
	"fmt"
	"io"
)

const historyTemplateName = "daily-quiz-history.md.go.tmpl"

//go:embed templates/daily-quiz-history.md.go.tmpl
var fallbackHistoryTemplate string

// HistoryTemplate is the data of a user's daily quiz history report
type HistoryTemplate struct {
	UserID      string
	GeneratedAt string
	Timezone    string
	Summary     HistorySummary
	Months      []HistoryMonth
	Entries     []HistoryEntry
}

type HistorySummary struct {
	Total         int
	Correct       int
	Accuracy      float64
	CurrentStreak int
	LongestStreak int
}

// HistoryMonth is one row of the monthly breakdown, newest first
type HistoryMonth struct {
	Month      string
	Answered   int
	Correct    int
	Accuracy   float64
	ActiveDays int
}

// HistoryEntry is one answered question, newest first
type HistoryEntry struct {
	Date            string
	Question        string
	Options         []string
	SubmittedAnswer string
	Answer          string
	IsCorrect       bool
	Explanation     string
}

func WriteHistory(output io.Writer, templatePath string, templateData HistoryTemplate) error {
	tmpl, err := parseTemplateWithFallback(templatePath, historyTemplateName, fallbackHistoryTemplate)
	if err != nil {
		return fmt.Errorf("parseTemplateWithFallback() > %w", err)
	}
	if err := tmpl.Execute(output, templateData); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}

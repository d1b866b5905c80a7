// Package report renders a user's daily quiz history as markdown and PDF.
package report

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/enrollease/enrollease/internal/assets"
	"github.com/enrollease/enrollease/internal/pdf"
	"github.com/enrollease/enrollease/internal/quiz"
	"github.com/enrollease/enrollease/internal/statistics"
)

const dateLayout = "2006-01-02"

// Lister is the read side of an attempt store.
type Lister interface {
	ListAttempts(ctx context.Context, userID string, limit int) ([]quiz.Attempt, error)
}

type Generator struct {
	lister          Lister
	outputDirectory string
	templatePath    string
	location        *time.Location
	now             func() time.Time
}

func NewGenerator(lister Lister, outputDirectory, templatePath string, location *time.Location) *Generator {
	if location == nil {
		location = time.Local
	}
	return &Generator{
		lister:          lister,
		outputDirectory: outputDirectory,
		templatePath:    templatePath,
		location:        location,
		now:             time.Now,
	}
}

// Result holds the paths that were written. PDFPath is empty unless requested.
type Result struct {
	MarkdownPath string
	PDFPath      string
	Summary      assets.HistorySummary
}

// Generate writes the history of userID, limited to the newest limit attempts
// when limit is positive.
func (g *Generator) Generate(ctx context.Context, userID string, limit int, generatePDF bool) (Result, error) {
	attempts, err := g.lister.ListAttempts(ctx, userID, limit)
	if err != nil {
		return Result{}, fmt.Errorf("lister.ListAttempts(%s) > %w", userID, err)
	}

	templateData := g.templateData(userID, attempts)

	if err := os.MkdirAll(g.outputDirectory, 0755); err != nil {
		return Result{}, fmt.Errorf("os.MkdirAll(%s) > %w", g.outputDirectory, err)
	}
	outputFilename := filepath.Join(g.outputDirectory, url.PathEscape(userID)+"-daily-quiz.md")
	output, err := os.Create(outputFilename)
	if err != nil {
		return Result{}, fmt.Errorf("os.Create(%s) > %w", outputFilename, err)
	}
	defer func() {
		_ = output.Close()
	}()

	if err := assets.WriteHistory(output, g.templatePath, templateData); err != nil {
		return Result{}, fmt.Errorf("assets.WriteHistory(%s, %s) > %w", outputFilename, g.templatePath, err)
	}
	if err := output.Close(); err != nil {
		return Result{}, fmt.Errorf("output.Close() > %w", err)
	}

	result := Result{
		MarkdownPath: outputFilename,
		Summary:      templateData.Summary,
	}
	if generatePDF {
		pdfPath, err := pdf.ConvertMarkdownToPDF(outputFilename)
		if err != nil {
			return Result{}, fmt.Errorf("pdf.ConvertMarkdownToPDF(%s) > %w", outputFilename, err)
		}
		result.PDFPath = pdfPath
	}
	return result, nil
}

// templateData expects attempts newest first.
func (g *Generator) templateData(userID string, attempts []quiz.Attempt) assets.HistoryTemplate {
	now := g.now().In(g.location)
	entries := make([]assets.HistoryEntry, 0, len(attempts))
	for _, attempt := range attempts {
		entries = append(entries, assets.HistoryEntry{
			Date:            attempt.AttemptedAt.In(g.location).Format(dateLayout),
			Question:        attempt.Question.Text,
			Options:         attempt.Question.Options,
			SubmittedAnswer: attempt.SubmittedAnswer,
			Answer:          attempt.Question.Answer,
			IsCorrect:       attempt.IsCorrect,
			Explanation:     attempt.Question.Explanation,
		})
	}
	periods := statistics.CalculateStatistics(attempts, g.location, 0, 0).Periods
	months := make([]assets.HistoryMonth, 0, len(periods))
	for _, period := range periods {
		months = append(months, assets.HistoryMonth{
			Month:      period.Period,
			Answered:   period.Answered,
			Correct:    period.Correct,
			Accuracy:   period.Accuracy(),
			ActiveDays: period.ActiveDays,
		})
	}
	return assets.HistoryTemplate{
		UserID:      userID,
		GeneratedAt: now.Format("2006-01-02 15:04"),
		Timezone:    g.location.String(),
		Summary:     Summarize(attempts, now),
		Months:      months,
		Entries:     entries,
	}
}

// Package statistics aggregates daily quiz attempts per month.
package statistics

import (
	"fmt"
	"sort"
	"time"

	"github.com/enrollease/enrollease/internal/quiz"
)

// PeriodStatistics holds statistics for a time period
type PeriodStatistics struct {
	Period    string // "2025-01"
	Answered  int
	Correct   int
	Incorrect int
	// ActiveDays is the number of distinct local days with an attempt.
	ActiveDays int
}

// Accuracy is the share of correct answers, 0 when nothing was answered.
func (s PeriodStatistics) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered)
}

// StatisticsResult holds both per-period and aggregate statistics
type StatisticsResult struct {
	// Periods are sorted newest first.
	Periods   []PeriodStatistics
	Aggregate PeriodStatistics
}

type periodData struct {
	answered int
	correct  int
	days     map[string]struct{}
}

// CalculateStatistics groups attempts by month of their local date in location.
// It accepts optional year and month filters (0 means no filter).
func CalculateStatistics(attempts []quiz.Attempt, location *time.Location, year, month int) StatisticsResult {
	if location == nil {
		location = time.Local
	}

	stats := make(map[string]*periodData)
	allDays := make(map[string]struct{})
	for _, attempt := range attempts {
		attemptedAt := attempt.AttemptedAt.In(location)
		if !matchesFilter(attemptedAt.Year(), int(attemptedAt.Month()), year, month) {
			continue
		}

		period := fmt.Sprintf("%d-%02d", attemptedAt.Year(), int(attemptedAt.Month()))
		data := stats[period]
		if data == nil {
			data = &periodData{days: make(map[string]struct{})}
			stats[period] = data
		}
		data.answered++
		if attempt.IsCorrect {
			data.correct++
		}
		day := attemptedAt.Format("2006-01-02")
		data.days[day] = struct{}{}
		allDays[day] = struct{}{}
	}

	return buildResult(stats, len(allDays))
}

func matchesFilter(logYear, logMonth, filterYear, filterMonth int) bool {
	if filterYear == 0 {
		return true
	}
	if logYear != filterYear {
		return false
	}
	if filterMonth == 0 {
		return true
	}
	return logMonth == filterMonth
}

func buildResult(stats map[string]*periodData, activeDays int) StatisticsResult {
	periods := make([]PeriodStatistics, 0, len(stats))
	aggregate := PeriodStatistics{Period: "total", ActiveDays: activeDays}
	for period, data := range stats {
		periods = append(periods, PeriodStatistics{
			Period:     period,
			Answered:   data.answered,
			Correct:    data.correct,
			Incorrect:  data.answered - data.correct,
			ActiveDays: len(data.days),
		})
		aggregate.Answered += data.answered
		aggregate.Correct += data.correct
	}
	aggregate.Incorrect = aggregate.Answered - aggregate.Correct

	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Period > periods[j].Period
	})

	return StatisticsResult{
		Periods:   periods,
		Aggregate: aggregate,
	}
}

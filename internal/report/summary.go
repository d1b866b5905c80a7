package report

import (
	"time"

	"github.com/enrollease/enrollease/internal/assets"
	"github.com/enrollease/enrollease/internal/quiz"
)

// Summarize counts answers and streaks of consecutive days with an attempt,
// where days are taken in now's location. The current streak only counts if
// it reaches today or yesterday.
func Summarize(attempts []quiz.Attempt, now time.Time) assets.HistorySummary {
	summary := assets.HistorySummary{Total: len(attempts)}
	if len(attempts) == 0 {
		return summary
	}

	days := make(map[time.Time]bool)
	for _, attempt := range attempts {
		if attempt.IsCorrect {
			summary.Correct++
		}
		days[startOfDay(attempt.AttemptedAt.In(now.Location()))] = true
	}
	summary.Accuracy = float64(summary.Correct) / float64(summary.Total)

	for day := range days {
		// Only count from the first day of a run.
		if days[previousDay(day)] {
			continue
		}
		length := 1
		for next := nextDay(day); days[next]; next = nextDay(next) {
			length++
		}
		if length > summary.LongestStreak {
			summary.LongestStreak = length
		}
	}

	today := startOfDay(now)
	day := today
	if !days[day] {
		day = previousDay(today)
	}
	for days[day] {
		summary.CurrentStreak++
		day = previousDay(day)
	}
	return summary
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func nextDay(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, day.Location())
}

func previousDay(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d-1, 0, 0, 0, 0, day.Location())
}

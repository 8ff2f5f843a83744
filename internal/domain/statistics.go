package domain

import (
	"math"
	"time"
)

// PriorityStats counts todos per priority level.
type PriorityStats struct {
	High   int
	Medium int
	Low    int
}

// Statistics is an aggregate view over a user's todos.
type Statistics struct {
	Total          int
	Completed      int
	Pending        int
	CompletionRate int
	PriorityStats  PriorityStats
	OverdueCount   int
}

// ComputeStatistics aggregates counts over todos as of the given instant.
// A todo is overdue when it is not completed, has a due date, and that due
// date's calendar day (UTC) is strictly before asOf's calendar day; the
// time-of-day component is ignored. CompletionRate uses the same rounding
// as Progress and is 0 for an empty set.
func ComputeStatistics(todos []Todo, asOf time.Time) Statistics {
	stats := Statistics{Total: len(todos)}
	asOfDay := calendarDay(asOf)

	for _, t := range todos {
		if t.IsCompleted {
			stats.Completed++
		} else if t.DueDate != nil && calendarDay(*t.DueDate).Before(asOfDay) {
			stats.OverdueCount++
		}

		switch t.Priority {
		case PriorityHigh:
			stats.PriorityStats.High++
		case PriorityMedium:
			stats.PriorityStats.Medium++
		case PriorityLow:
			stats.PriorityStats.Low++
		}
	}

	stats.Pending = stats.Total - stats.Completed
	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}
	return stats
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

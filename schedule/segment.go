package schedule

import (
	"errors"
	"time"
)

// Sentinel errors for the schedule package.
// Use errors.Is to check: errors.Is(err, schedule.ErrSegmentNotFound)
var (
	ErrSegmentNotFound = errors.New("schedule: segment not found")
	ErrInvalidRange    = errors.New("schedule: end date before start date")
	ErrNoWorkdays      = errors.New("schedule: no weekdays in range")
	ErrNoMinutes       = errors.New("schedule: total minutes must be positive")
	ErrInvalidStrategy = errors.New("schedule: invalid distribution strategy")
)

// Segment is a concrete scheduled block assigned to a task.
type Segment struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Minutes   int       `json:"minutes"`
	Color     string    `json:"color,omitempty"`
	Completed bool      `json:"completed"`
}

// Overlap returns how many minutes two segments overlap, or 0 when they
// do not.
func Overlap(a, b Segment) int {
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	if mins := int(end.Sub(start).Minutes()); mins > 0 {
		return mins
	}
	return 0
}

// TimeBlock groups a day's segments for calendar rendering.
type TimeBlock struct {
	Date     time.Time `json:"date"` // midnight, local to the segment times.
	Segments []Segment `json:"segments"`
}

// Conflict is a pair of overlapping segments on the same day.
type Conflict struct {
	A, B           Segment
	OverlapMinutes int
}

const dayLayout = "2006-01-02"

func dayKey(t time.Time) string {
	return t.Format(dayLayout)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

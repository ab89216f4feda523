package schedule

import (
	"sort"
	"time"

	"github.com/tempo-plan/tempo"
)

// Slot is a scored candidate placement for a task on a specific day.
type Slot struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Score  float64   `json:"score"`
	Reason string    `json:"reason,omitempty"`
}

// SuggestSlots enumerates 30-minute-aligned free slots for the task
// within working hours on the given day and returns up to count of
// them, best first. Slot scores start at 1.0 and are adjusted for
// time-of-day fit against the task's priority and length, and for how
// crowded the surrounding calendar is. Ties are broken randomly.
func (e *Engine) SuggestSlots(task tempo.Task, date time.Time, minutes, count int) []Slot {
	if minutes <= 0 {
		minutes = 30
	}
	if count <= 0 {
		count = 3
	}
	existing := e.SegmentsOn(date)
	day := midnight(date)
	dur := time.Duration(minutes) * time.Minute
	workEnd := day.Add(time.Duration(e.workEnd) * time.Hour)

	var slots []Slot
	for start := day.Add(time.Duration(e.workStart) * time.Hour); ; start = start.Add(30 * time.Minute) {
		end := start.Add(dur)
		if end.After(workEnd) {
			break
		}
		if overlapsAny(start, end, existing) {
			continue
		}
		score, reason := e.scoreSlot(task, start, minutes, existing)
		slots = append(slots, Slot{Start: start, End: end, Score: score, Reason: reason})
	}

	// Tiny random jitter breaks ties between equally scored slots so
	// suggestions do not always land on the earliest one.
	for i := range slots {
		slots[i].Score += e.rng.Float64() * 1e-6
	}
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Score > slots[j].Score
	})
	if len(slots) > count {
		slots = slots[:count]
	}
	return slots
}

func (e *Engine) scoreSlot(task tempo.Task, start time.Time, minutes int, existing []Segment) (float64, string) {
	score := 1.0
	reason := ""

	h := start.Hour()
	if h >= 8 && h < 12 && task.Priority >= tempo.High {
		score += 0.3
		reason = "morning focus for a high-priority task"
	}
	if h >= 14 && h < 16 && minutes <= 30 {
		score += 0.2
		reason = "short task in the afternoon dip"
	}

	neighbors := edgesWithin(start, 30*time.Minute, existing)
	switch {
	case neighbors > 2:
		score -= 0.2
		reason = "crowded part of the day"
	case neighbors == 0:
		score += 0.1
		if reason == "" {
			reason = "quiet stretch of the day"
		}
	}
	return score, reason
}

// edgesWithin counts how many segment starts or ends fall within d of t.
func edgesWithin(t time.Time, d time.Duration, segs []Segment) int {
	n := 0
	for _, s := range segs {
		if absDuration(s.Start.Sub(t)) <= d || absDuration(s.End.Sub(t)) <= d {
			n++
		}
	}
	return n
}

func overlapsAny(start, end time.Time, segs []Segment) bool {
	for _, s := range segs {
		if start.Before(s.End) && s.Start.Before(end) {
			return true
		}
	}
	return false
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

package schedule

import (
	"sort"
	"time"

	"github.com/tempo-plan/tempo"
)

// AutoScheduleOptions controls AutoSchedule's ordering and fallback.
type AutoScheduleOptions struct {
	SortByPriority bool     // order tasks highest priority first.
	SortByDeadline bool     // order tasks earliest deadline first.
	Strategy       Strategy // fallback distribution strategy; zero → Even.

	// GoodSlotScore is the minimum top-slot score at which a task is
	// placed in a single slot instead of being distributed across the
	// range. Zero → 1.0.
	GoodSlotScore float64
}

// AutoSchedule places each active task in the range [from, to]: a task
// whose best suggested slot scores at or above GoodSlotScore gets that
// single slot; otherwise its estimated duration is distributed across
// the range's weekdays. Every day in the range is then swept for
// conflicts. The created segments are returned.
//
// When both sort flags are set, deadline is the primary key and
// priority orders tasks within the same deadline. This precedence is
// deliberate and fixed; the two flags are not order-sensitive.
func (e *Engine) AutoSchedule(tasks []tempo.Task, sig tempo.Signals, from, to time.Time, opts AutoScheduleOptions) []Segment {
	if opts.Strategy == 0 {
		opts.Strategy = Even
	}
	if opts.GoodSlotScore == 0 {
		opts.GoodSlotScore = 1.0
	}

	active := make([]tempo.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsActive() {
			active = append(active, t)
		}
	}

	// Stable sorts layered so the later one is the primary key:
	// priority first, then deadline on top when both are requested.
	if opts.SortByPriority {
		sort.SliceStable(active, func(i, j int) bool {
			return active[i].Priority > active[j].Priority
		})
	}
	if opts.SortByDeadline {
		sort.SliceStable(active, func(i, j int) bool {
			a, b := active[i].Due, active[j].Due
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return a.Before(*b)
		})
	}

	var placed []Segment
	for _, task := range active {
		minutes := task.EstimatedMinutes
		if minutes == 0 {
			minutes = 60
		}
		if seg, ok := e.placeInSlot(task, minutes, from, to, opts.GoodSlotScore); ok {
			placed = append(placed, seg)
			continue
		}
		segs, err := e.Distribute(task.ID, minutes, from, to, opts.Strategy)
		if err != nil {
			continue
		}
		placed = append(placed, segs...)
	}

	for d := midnight(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		if len(e.DetectConflicts(d)) > 0 {
			e.ResolveConflicts(d)
		}
	}
	return placed
}

// placeInSlot looks day by day for a slot good enough to hold the whole
// task in one sitting.
func (e *Engine) placeInSlot(task tempo.Task, minutes int, from, to time.Time, threshold float64) (Segment, bool) {
	for d := midnight(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		if isWeekend(d) {
			continue
		}
		slots := e.SuggestSlots(task, d, minutes, 1)
		if len(slots) == 0 {
			continue
		}
		if slots[0].Score >= threshold {
			return e.AddSegment(task.ID, slots[0].Start, minutes, ""), true
		}
	}
	return Segment{}, false
}

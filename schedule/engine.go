package schedule

import (
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Config configures an Engine.
// Zero values produce sensible defaults; see field comments.
type Config struct {
	WorkStartHour int   `json:"work_start_hour"` // zero → 8
	WorkEndHour   int   `json:"work_end_hour"`   // zero → 20
	Seed          int64 `json:"-"`               // zero → time-seeded rng for slot tie-breaks.
}

// Engine owns the day-indexed segment set and all scheduling
// operations. It is the single writer for its segments; persistence is
// the caller's concern (save [Engine.SegmentsOn] through a store).
type Engine struct {
	workStart int
	workEnd   int
	days      map[string][]Segment
	rng       *rand.Rand
}

// NewEngine creates an Engine from the given config, filling zero
// fields with defaults.
func NewEngine(cfg Config) *Engine {
	if cfg.WorkStartHour == 0 {
		cfg.WorkStartHour = 8
	}
	if cfg.WorkEndHour == 0 {
		cfg.WorkEndHour = 20
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Engine{
		workStart: cfg.WorkStartHour,
		workEnd:   cfg.WorkEndHour,
		days:      make(map[string][]Segment),
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// AddSegment creates a segment for the task starting at the given time
// and returns it.
func (e *Engine) AddSegment(taskID string, start time.Time, minutes int, color string) Segment {
	seg := Segment{
		ID:      uuid.NewString(),
		TaskID:  taskID,
		Start:   start,
		End:     start.Add(time.Duration(minutes) * time.Minute),
		Minutes: minutes,
		Color:   color,
	}
	key := dayKey(start)
	e.days[key] = append(e.days[key], seg)
	return seg
}

// Restore loads previously persisted segments into the engine,
// replacing nothing already present.
func (e *Engine) Restore(segs []Segment) {
	for _, s := range segs {
		key := dayKey(s.Start)
		e.days[key] = append(e.days[key], s)
	}
}

// UpdateSegment replaces the stored segment with the same ID. The
// segment may move between days.
func (e *Engine) UpdateSegment(seg Segment) error {
	if err := e.RemoveSegment(seg.ID); err != nil {
		return err
	}
	key := dayKey(seg.Start)
	e.days[key] = append(e.days[key], seg)
	return nil
}

// MoveSegment shifts the segment to a new start, keeping its duration.
func (e *Engine) MoveSegment(id string, newStart time.Time) error {
	seg, ok := e.find(id)
	if !ok {
		return ErrSegmentNotFound
	}
	if err := e.RemoveSegment(id); err != nil {
		return err
	}
	seg.Start = newStart
	seg.End = newStart.Add(time.Duration(seg.Minutes) * time.Minute)
	key := dayKey(newStart)
	e.days[key] = append(e.days[key], seg)
	return nil
}

// RemoveSegment deletes the segment with the given ID.
func (e *Engine) RemoveSegment(id string) error {
	for key, segs := range e.days {
		for i, s := range segs {
			if s.ID == id {
				e.days[key] = append(segs[:i:i], segs[i+1:]...)
				if len(e.days[key]) == 0 {
					delete(e.days, key)
				}
				return nil
			}
		}
	}
	return ErrSegmentNotFound
}

// ClearDay removes every segment on the given day.
func (e *Engine) ClearDay(date time.Time) {
	delete(e.days, dayKey(date))
}

// ClearAll removes every segment.
func (e *Engine) ClearAll() {
	e.days = make(map[string][]Segment)
}

// SegmentsOn returns the day's segments sorted by start time.
func (e *Engine) SegmentsOn(date time.Time) []Segment {
	segs := append([]Segment(nil), e.days[dayKey(date)]...)
	sort.Slice(segs, func(i, j int) bool {
		return segs[i].Start.Before(segs[j].Start)
	})
	return segs
}

// Blocks returns one TimeBlock per day in [from, to] that has segments,
// in date order.
func (e *Engine) Blocks(from, to time.Time) []TimeBlock {
	var out []TimeBlock
	for d := midnight(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		segs := e.SegmentsOn(d)
		if len(segs) == 0 {
			continue
		}
		out = append(out, TimeBlock{Date: d, Segments: segs})
	}
	return out
}

func (e *Engine) find(id string) (Segment, bool) {
	for _, segs := range e.days {
		for _, s := range segs {
			if s.ID == id {
				return s, true
			}
		}
	}
	return Segment{}, false
}

// DetectConflicts returns every overlapping pair among the day's
// segments. The check is pairwise; day sizes are small enough that the
// quadratic cost does not matter.
func (e *Engine) DetectConflicts(date time.Time) []Conflict {
	segs := e.SegmentsOn(date)
	var out []Conflict
	for i := 0; i < len(segs); i++ {
		for j := i + 1; j < len(segs); j++ {
			if mins := Overlap(segs[i], segs[j]); mins > 0 {
				out = append(out, Conflict{A: segs[i], B: segs[j], OverlapMinutes: mins})
			}
		}
	}
	return out
}

// ResolveConflicts repeatedly shifts the later-starting segment of each
// conflicting pair to begin five minutes after the earlier one ends,
// until the day has no overlaps. Earlier start wins; this is a
// priority-by-start-time heuristic, not an optimal packing. Returns the
// number of shifts applied.
func (e *Engine) ResolveConflicts(date time.Time) int {
	shifts := 0
	// Each shift moves a segment strictly later, so this terminates;
	// the bound guards against a pathological segment count.
	for iter := 0; iter < 1000; iter++ {
		conflicts := e.DetectConflicts(date)
		if len(conflicts) == 0 {
			break
		}
		c := conflicts[0]
		early, late := c.A, c.B
		if late.Start.Before(early.Start) {
			early, late = late, early
		}
		newStart := early.End.Add(5 * time.Minute)
		if err := e.MoveSegment(late.ID, newStart); err != nil {
			break
		}
		shifts++
	}
	return shifts
}

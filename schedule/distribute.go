package schedule

import (
	"encoding"
	"fmt"
	"time"
)

// Strategy selects how Distribute spreads a time budget across days.
type Strategy int

const (
	Even      Strategy = iota + 1 // Equal minutes per weekday; last day absorbs the remainder.
	Frontload                     // 70% of the budget in the first half of the range.
	Balanced                      // Sessions capped at 120 minutes, staggered start offsets.
)

var (
	strategyNames  = [...]string{Even: "even", Frontload: "frontload", Balanced: "balanced"}
	strategyByName = map[string]Strategy{
		"even":      Even,
		"frontload": Frontload,
		"balanced":  Balanced,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Strategy(0)
	_ encoding.TextMarshaler   = Strategy(0)
	_ encoding.TextUnmarshaler = (*Strategy)(nil)
)

// IsValid reports whether s is a valid strategy.
func (s Strategy) IsValid() bool {
	return s >= Even && s <= Balanced
}

// String returns the name of the strategy ("even", "frontload",
// "balanced"). For invalid values it returns "Strategy(n)".
func (s Strategy) String() string {
	if s.IsValid() {
		return strategyNames[s]
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStrategy, int(s))
	}
	return []byte(strategyNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	v, ok := strategyByName[string(text)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidStrategy, text)
	}
	*s = v
	return nil
}

// Distribute spreads totalMinutes across the weekdays in [from, to]
// according to the strategy, creating one segment per day starting at
// the working-hours start. Weekends are always skipped. The created
// segments are returned in date order.
func (e *Engine) Distribute(taskID string, totalMinutes int, from, to time.Time, strat Strategy) ([]Segment, error) {
	if totalMinutes <= 0 {
		return nil, ErrNoMinutes
	}
	if to.Before(from) {
		return nil, ErrInvalidRange
	}
	if !strat.IsValid() {
		return nil, ErrInvalidStrategy
	}

	var days []time.Time
	for d := midnight(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		if !isWeekend(d) {
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		return nil, ErrNoWorkdays
	}

	var perDay []int
	switch strat {
	case Even:
		perDay = splitEven(totalMinutes, len(days))
	case Frontload:
		perDay = splitFrontload(totalMinutes, len(days))
	case Balanced:
		perDay = splitBalanced(totalMinutes, len(days))
	}

	segs := make([]Segment, 0, len(days))
	for i, day := range days {
		if perDay[i] == 0 {
			continue
		}
		start := day.Add(time.Duration(e.workStart) * time.Hour)
		if strat == Balanced && i%2 == 1 {
			// Alternating offset keeps consecutive days from feeling identical.
			start = start.Add(30 * time.Minute)
		}
		segs = append(segs, e.AddSegment(taskID, start, perDay[i], ""))
	}
	return segs, nil
}

// splitEven gives each day total/n minutes, with the last day absorbing
// the rounding remainder.
func splitEven(total, n int) []int {
	per := total / n
	out := make([]int, n)
	for i := range out {
		out[i] = per
	}
	out[n-1] += total - per*n
	return out
}

// splitFrontload puts 70% of the budget in the first half of the days
// and the rest in the second half, each half split evenly with its last
// day absorbing the remainder.
func splitFrontload(total, n int) []int {
	if n == 1 {
		return []int{total}
	}
	firstHalf := (n + 1) / 2
	front := total * 7 / 10
	back := total - front

	out := make([]int, n)
	copy(out, splitEven(front, firstHalf))
	copy(out[firstHalf:], splitEven(back, n-firstHalf))
	return out
}

// splitBalanced is splitEven with sessions capped at 120 minutes.
// Minutes the cap pushes out are dropped onto later days; whatever
// still does not fit lands on the last day regardless (a too-short
// range beats silently losing budget).
func splitBalanced(total, n int) []int {
	const sessionCap = 120
	out := make([]int, n)
	remaining := total
	per := total / n
	if per < 1 {
		per = 1
	}
	if per > sessionCap {
		per = sessionCap
	}
	for i := 0; i < n && remaining > 0; i++ {
		m := per
		if m > remaining {
			m = remaining
		}
		out[i] = m
		remaining -= m
	}
	if remaining > 0 {
		out[n-1] += remaining
	}
	return out
}

package tempo

import (
	"sort"
	"time"
)

// Day stamps inside Signals use this layout.
const dayLayout = "2006-01-02"

// Signals is the persisted aggregate model of observed user behavior.
// It is a plain value: safe to copy apart from its map and slice fields,
// which [Signals.Clone] and [Tracker.Snapshot] deep-copy.
type Signals struct {
	CompletionRate  float64            `json:"completion_rate"`           // overall EMA, [0,1].
	CategoryRates   map[string]float64 `json:"category_rates,omitempty"`  // per-category EMA, [0,1].
	HourCounts      [24]int            `json:"hour_counts"`               // completions by hour of day.
	DayCounts       [7]int             `json:"day_counts"`                // completions by weekday (Sunday=0).
	ProductiveHours []int              `json:"productive_hours"`          // top-4 hours by count.
	ProductiveDays  []time.Weekday     `json:"productive_days"`           // top-4 weekdays by count.
	HourEnergy      [24]float64        `json:"hour_energy"`               // EMA energy per hour, [1,5].
	DayEnergy       [7]float64         `json:"day_energy"`                // EMA energy per weekday, [1,5].
	EnergyLevel     float64            `json:"energy_level"`              // last reported level, [1,5].
	CurrentStreak   int                `json:"current_streak"`            // consecutive days with a completion.
	LongestStreak   int                `json:"longest_streak"`
	CompletedToday  int                `json:"completed_today"`
	TodayDate       string             `json:"today_date,omitempty"`      // day stamp for CompletedToday rollover.
	LastActiveDay   string             `json:"last_active_day,omitempty"` // day stamp for streak tracking.
	TotalCompleted  int                `json:"total_completed"`
}

// DefaultSignals returns the documented starting state: neutral completion
// rate, mid energy, and the conventional productive windows (9-10am,
// 2-3pm, Monday through Thursday).
func DefaultSignals() Signals {
	s := Signals{
		CompletionRate:  0.5,
		CategoryRates:   map[string]float64{},
		ProductiveHours: []int{9, 10, 14, 15},
		ProductiveDays:  []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday},
		EnergyLevel:     3,
	}
	for i := range s.HourEnergy {
		s.HourEnergy[i] = 3
	}
	for i := range s.DayEnergy {
		s.DayEnergy[i] = 3
	}
	return s
}

// Clone returns a deep copy of the signals. Map and slice fields are
// copied; array fields copy by value.
func (s Signals) Clone() Signals {
	out := s
	out.CategoryRates = make(map[string]float64, len(s.CategoryRates))
	for k, v := range s.CategoryRates {
		out.CategoryRates[k] = v
	}
	out.ProductiveHours = append([]int(nil), s.ProductiveHours...)
	out.ProductiveDays = append([]time.Weekday(nil), s.ProductiveDays...)
	return out
}

// IsProductiveHour reports whether the given hour is in the productive set.
func (s Signals) IsProductiveHour(hour int) bool {
	for _, h := range s.ProductiveHours {
		if h == hour {
			return true
		}
	}
	return false
}

// IsProductiveDay reports whether the given weekday is in the productive set.
func (s Signals) IsProductiveDay(day time.Weekday) bool {
	for _, d := range s.ProductiveDays {
		if d == day {
			return true
		}
	}
	return false
}

// EnergyAt returns the learned energy for the given time, falling back to
// the last reported level when the hour has no sample.
func (s Signals) EnergyAt(at time.Time) float64 {
	if e := s.HourEnergy[at.Hour()]; e > 0 {
		return e
	}
	return s.EnergyLevel
}

// Tracker owns a Signals value and applies behavioral updates to it.
// It is the single writer for the signal model; persistence is the
// caller's responsibility (save [Tracker.Snapshot] through a store).
type Tracker struct {
	sig Signals
}

// NewTracker creates a Tracker from previously persisted signals.
// A zero-value Signals (no category map) is replaced with defaults, so
// first use and corrupt-state recovery both start from the same place.
func NewTracker(sig Signals) *Tracker {
	if sig.CategoryRates == nil {
		sig = DefaultSignals()
	}
	return &Tracker{sig: sig.Clone()}
}

// Snapshot returns an immutable deep copy of the current signals.
func (t *Tracker) Snapshot() Signals {
	return t.sig.Clone()
}

// Reset restores the documented default state.
func (t *Tracker) Reset() {
	t.sig = DefaultSignals()
}

// RecordCompletion folds one task completion into the model: lifetime and
// today counters, hour/day histograms, streak, and the exponential moving
// averages for the overall and per-category completion rates. The top-4
// productive hours/days are recomputed from the updated histograms.
func (t *Tracker) RecordCompletion(task Task, completedAt time.Time) {
	s := &t.sig

	day := completedAt.Format(dayLayout)
	if s.TodayDate != day {
		s.TodayDate = day
		s.CompletedToday = 0
	}
	s.CompletedToday++
	s.TotalCompleted++

	s.HourCounts[completedAt.Hour()]++
	s.DayCounts[completedAt.Weekday()]++

	t.updateStreak(day, completedAt)

	// EMA with decay 0.9: a completion pulls the rate toward 1.
	s.CompletionRate = clamp01(s.CompletionRate*0.9 + 0.1)
	if task.Category != "" {
		prev, ok := s.CategoryRates[task.Category]
		if !ok {
			prev = 0.5
		}
		s.CategoryRates[task.Category] = clamp01(prev*0.9 + 0.1)
	}

	s.ProductiveHours = topHours(s.HourCounts, s.ProductiveHours)
	s.ProductiveDays = topDays(s.DayCounts, s.ProductiveDays)
}

// RecordMiss folds an abandoned or expired task into the completion-rate
// EMAs, pulling them toward 0. Counters and histograms are untouched.
func (t *Tracker) RecordMiss(task Task) {
	s := &t.sig
	s.CompletionRate = clamp01(s.CompletionRate * 0.9)
	if task.Category != "" {
		prev, ok := s.CategoryRates[task.Category]
		if !ok {
			prev = 0.5
		}
		s.CategoryRates[task.Category] = clamp01(prev * 0.9)
	}
}

// UpdateEnergy records a self-reported energy level for the given time.
// The level is clamped to [1,5] and blended into the hour and weekday
// averages with decay 0.8.
func (t *Tracker) UpdateEnergy(level float64, at time.Time) {
	if level < 1 {
		level = 1
	}
	if level > 5 {
		level = 5
	}
	s := &t.sig
	s.EnergyLevel = level
	s.HourEnergy[at.Hour()] = s.HourEnergy[at.Hour()]*0.8 + level*0.2
	s.DayEnergy[at.Weekday()] = s.DayEnergy[at.Weekday()]*0.8 + level*0.2
}

func (t *Tracker) updateStreak(day string, completedAt time.Time) {
	s := &t.sig
	switch s.LastActiveDay {
	case day:
		// Already counted today.
		return
	case completedAt.AddDate(0, 0, -1).Format(dayLayout):
		s.CurrentStreak++
	default:
		s.CurrentStreak = 1
	}
	s.LastActiveDay = day
	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
}

// topHours returns up to four hours sorted by completion count descending,
// ties broken by earlier hour. With no recorded completions the previous
// set (the defaults) is kept.
func topHours(counts [24]int, prev []int) []int {
	type hc struct{ hour, count int }
	entries := make([]hc, 0, 24)
	for h, c := range counts {
		if c > 0 {
			entries = append(entries, hc{h, c})
		}
	}
	if len(entries) == 0 {
		return prev
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].hour < entries[j].hour
	})
	if len(entries) > 4 {
		entries = entries[:4]
	}
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.hour
	}
	return out
}

func topDays(counts [7]int, prev []time.Weekday) []time.Weekday {
	type dc struct {
		day   time.Weekday
		count int
	}
	entries := make([]dc, 0, 7)
	for d, c := range counts {
		if c > 0 {
			entries = append(entries, dc{time.Weekday(d), c})
		}
	}
	if len(entries) == 0 {
		return prev
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].day < entries[j].day
	})
	if len(entries) > 4 {
		entries = entries[:4]
	}
	out := make([]time.Weekday, len(entries))
	for i, e := range entries {
		out[i] = e.day
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

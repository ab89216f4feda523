// Package schedule turns tasks and time budgets into concrete
// time-blocked segments on a calendar.
//
// The [Engine] owns a day-indexed set of [Segment] values and provides:
//
//   - conflict detection and resolution ([Engine.DetectConflicts],
//     [Engine.ResolveConflicts]): overlapping segments on a day are
//     found pairwise and the later-starting one is pushed past the
//     earlier one until the day is clean;
//
//   - slot suggestion ([Engine.SuggestSlots]): 30-minute-aligned free
//     slots inside working hours, scored by time-of-day fit and
//     crowding;
//
//   - multi-day distribution ([Engine.Distribute]): spreading a time
//     budget across weekdays with the Even, Frontload, or Balanced
//     strategy;
//
//   - auto-scheduling ([Engine.AutoSchedule]): placing a whole task
//     list and sweeping the range for conflicts afterwards.
//
// Scheduling is a greedy heuristic, not a solver, and slot tie-breaking
// is randomized on purpose; output is not deterministic across runs.
package schedule

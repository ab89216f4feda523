package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/tempo-plan/tempo"
)

// Monday through Friday.
var (
	monday = time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	friday = monday.AddDate(0, 0, 4)
	sunday = monday.AddDate(0, 0, -1)
)

func totalMinutes(segs []Segment) int {
	total := 0
	for _, s := range segs {
		total += s.Minutes
	}
	return total
}

// --- Even ---

func TestDistributeEvenFiveDays(t *testing.T) {
	e := newTestEngine()
	segs, err := e.Distribute("task1", 300, monday, friday, Even)
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	if len(segs) != 5 {
		t.Fatalf("segments = %d, want 5", len(segs))
	}
	if totalMinutes(segs) != 300 {
		t.Errorf("total = %d, want 300", totalMinutes(segs))
	}
	for _, s := range segs {
		if s.Minutes != 60 {
			t.Errorf("segment minutes = %d, want 60", s.Minutes)
		}
	}
}

func TestDistributeEvenRemainderOnLastDay(t *testing.T) {
	e := newTestEngine()
	segs, err := e.Distribute("task1", 100, monday, monday.AddDate(0, 0, 2), Even)
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	if len(segs) != 3 {
		t.Fatalf("segments = %d, want 3", len(segs))
	}
	if segs[0].Minutes != 33 || segs[1].Minutes != 33 || segs[2].Minutes != 34 {
		t.Errorf("minutes = %d,%d,%d, want 33,33,34", segs[0].Minutes, segs[1].Minutes, segs[2].Minutes)
	}
}

func TestDistributeSkipsWeekends(t *testing.T) {
	e := newTestEngine()
	// Friday through Monday: only Friday and Monday are workdays.
	segs, err := e.Distribute("task1", 120, friday, friday.AddDate(0, 0, 3), Even)
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("segments = %d, want 2 (weekend skipped)", len(segs))
	}
	for _, s := range segs {
		if wd := s.Start.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Errorf("segment scheduled on %v", wd)
		}
	}
}

func TestDistributeStartsAtWorkStart(t *testing.T) {
	e := newTestEngine()
	segs, _ := e.Distribute("task1", 60, monday, monday, Even)
	if got := segs[0].Start.Hour(); got != 8 {
		t.Errorf("start hour = %d, want the 8:00 work start", got)
	}
}

// --- Frontload ---

func TestDistributeFrontload(t *testing.T) {
	e := newTestEngine()
	segs, err := e.Distribute("task1", 100, monday, friday, Frontload)
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	if len(segs) != 5 {
		t.Fatalf("segments = %d, want 5", len(segs))
	}
	if totalMinutes(segs) != 100 {
		t.Errorf("total = %d, want 100", totalMinutes(segs))
	}
	firstHalf := segs[0].Minutes + segs[1].Minutes + segs[2].Minutes
	if firstHalf != 70 {
		t.Errorf("first-half minutes = %d, want 70", firstHalf)
	}
}

func TestDistributeFrontloadSingleDay(t *testing.T) {
	e := newTestEngine()
	segs, err := e.Distribute("task1", 90, monday, monday, Frontload)
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	if len(segs) != 1 || segs[0].Minutes != 90 {
		t.Errorf("segments = %v, want one 90-minute segment", segs)
	}
}

// --- Balanced ---

func TestDistributeBalancedCapsSessions(t *testing.T) {
	e := newTestEngine()
	segs, err := e.Distribute("task1", 500, monday, friday, Balanced)
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	if totalMinutes(segs) != 500 {
		t.Errorf("total = %d, want 500", totalMinutes(segs))
	}
	for i, s := range segs {
		// The last day may absorb overflow; every other session obeys the cap.
		if i < len(segs)-1 && s.Minutes > 120 {
			t.Errorf("segment %d = %d minutes, want <= 120", i, s.Minutes)
		}
	}
}

func TestDistributeBalancedAlternatesOffsets(t *testing.T) {
	e := newTestEngine()
	segs, err := e.Distribute("task1", 200, monday, friday, Balanced)
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	if len(segs) < 2 {
		t.Fatalf("segments = %d, want several", len(segs))
	}
	if m := segs[0].Start.Minute(); m != 0 {
		t.Errorf("first segment offset = %d, want 0", m)
	}
	if m := segs[1].Start.Minute(); m != 30 {
		t.Errorf("second segment offset = %d, want 30", m)
	}
}

// --- errors ---

func TestDistributeErrors(t *testing.T) {
	e := newTestEngine()
	if _, err := e.Distribute("t", 0, monday, friday, Even); !errors.Is(err, ErrNoMinutes) {
		t.Errorf("zero minutes err = %v, want ErrNoMinutes", err)
	}
	if _, err := e.Distribute("t", 60, friday, monday, Even); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("inverted range err = %v, want ErrInvalidRange", err)
	}
	if _, err := e.Distribute("t", 60, sunday, sunday, Even); !errors.Is(err, ErrNoWorkdays) {
		t.Errorf("weekend-only err = %v, want ErrNoWorkdays", err)
	}
	if _, err := e.Distribute("t", 60, monday, friday, Strategy(9)); !errors.Is(err, ErrInvalidStrategy) {
		t.Errorf("bad strategy err = %v, want ErrInvalidStrategy", err)
	}
}

func TestStrategyStrings(t *testing.T) {
	cases := map[Strategy]string{Even: "even", Frontload: "frontload", Balanced: "balanced"}
	for s, want := range cases {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(s), s.String(), want)
		}
	}
	if Strategy(9).String() != "Strategy(9)" {
		t.Errorf("invalid strategy String = %q", Strategy(9).String())
	}
}

// --- auto-schedule ---

func due(t time.Time) *time.Time { return &t }

func TestAutoScheduleSweepsConflicts(t *testing.T) {
	e := newTestEngine()
	tasks := []tempo.Task{
		{ID: "a", Status: tempo.Todo, Priority: tempo.High, EstimatedMinutes: 60},
		{ID: "b", Status: tempo.Todo, Priority: tempo.Medium, EstimatedMinutes: 60},
		{ID: "c", Status: tempo.Todo, Priority: tempo.Low, EstimatedMinutes: 30},
	}
	placed := e.AutoSchedule(tasks, tempo.DefaultSignals(), monday, friday, AutoScheduleOptions{})
	if len(placed) == 0 {
		t.Fatal("nothing scheduled")
	}
	for d := monday; !d.After(friday); d = d.AddDate(0, 0, 1) {
		if got := e.DetectConflicts(d); len(got) != 0 {
			t.Errorf("conflicts on %v after auto-schedule: %v", d.Weekday(), got)
		}
	}
}

func TestAutoScheduleSkipsInactive(t *testing.T) {
	e := newTestEngine()
	tasks := []tempo.Task{{ID: "done", Status: tempo.Completed, EstimatedMinutes: 60}}
	placed := e.AutoSchedule(tasks, tempo.DefaultSignals(), monday, friday, AutoScheduleOptions{})
	if len(placed) != 0 {
		t.Errorf("placed = %v, want nothing for inactive tasks", placed)
	}
}

func TestAutoScheduleDeadlineBeatsPriority(t *testing.T) {
	e := newTestEngine()
	lateUrgent := tempo.Task{
		ID: "late-urgent", Status: tempo.Todo, Priority: tempo.Urgent,
		Due: due(friday), EstimatedMinutes: 30,
	}
	soonLow := tempo.Task{
		ID: "soon-low", Status: tempo.Todo, Priority: tempo.Low,
		Due: due(monday.Add(12 * time.Hour)), EstimatedMinutes: 30,
	}
	placed := e.AutoSchedule(
		[]tempo.Task{lateUrgent, soonLow},
		tempo.DefaultSignals(), monday, friday,
		AutoScheduleOptions{SortByPriority: true, SortByDeadline: true},
	)
	if len(placed) < 2 {
		t.Fatalf("placed = %d segments, want 2", len(placed))
	}
	// Deadline is the primary key: the sooner-due low-priority task is
	// placed first and gets the earlier slot.
	if placed[0].TaskID != "soon-low" {
		t.Errorf("first placed = %s, want soon-low", placed[0].TaskID)
	}
	if placed[0].Start.After(placed[1].Start) {
		t.Errorf("soon-low at %v should precede late-urgent at %v", placed[0].Start, placed[1].Start)
	}
}

func TestAutoScheduleTasksWithoutDeadlineSortLast(t *testing.T) {
	e := newTestEngine()
	tasks := []tempo.Task{
		{ID: "no-due", Status: tempo.Todo, EstimatedMinutes: 30},
		{ID: "due", Status: tempo.Todo, Due: due(monday.Add(20 * time.Hour)), EstimatedMinutes: 30},
	}
	placed := e.AutoSchedule(tasks, tempo.DefaultSignals(), monday, friday,
		AutoScheduleOptions{SortByDeadline: true})
	if len(placed) < 2 {
		t.Fatalf("placed = %d segments, want 2", len(placed))
	}
	if placed[0].TaskID != "due" {
		t.Errorf("first placed = %s, want the task with a deadline", placed[0].TaskID)
	}
}

package tempo

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
	"time"
)

const epsilon = 1e-9

func assertFloat(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %.6f, want %.6f (diff %.6f)", name, got, want, math.Abs(got-want))
	}
}

var sigT0 = time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC) // a Monday.

// --- defaults ---

func TestDefaultSignals(t *testing.T) {
	s := DefaultSignals()
	assertFloat(t, "CompletionRate", s.CompletionRate, 0.5)
	assertFloat(t, "EnergyLevel", s.EnergyLevel, 3)
	if want := []int{9, 10, 14, 15}; !reflect.DeepEqual(s.ProductiveHours, want) {
		t.Errorf("ProductiveHours = %v, want %v", s.ProductiveHours, want)
	}
	want := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday}
	if !reflect.DeepEqual(s.ProductiveDays, want) {
		t.Errorf("ProductiveDays = %v, want %v", s.ProductiveDays, want)
	}
	for h, e := range s.HourEnergy {
		if e != 3 {
			t.Fatalf("HourEnergy[%d] = %f, want 3", h, e)
		}
	}
}

func TestNewTrackerZeroValueGetsDefaults(t *testing.T) {
	tr := NewTracker(Signals{})
	s := tr.Snapshot()
	assertFloat(t, "CompletionRate", s.CompletionRate, 0.5)
	if len(s.ProductiveHours) != 4 {
		t.Errorf("ProductiveHours = %v, want 4 defaults", s.ProductiveHours)
	}
}

func TestNewTrackerKeepsPersistedState(t *testing.T) {
	sig := DefaultSignals()
	sig.CompletionRate = 0.75
	sig.TotalCompleted = 42
	tr := NewTracker(sig)
	s := tr.Snapshot()
	assertFloat(t, "CompletionRate", s.CompletionRate, 0.75)
	if s.TotalCompleted != 42 {
		t.Errorf("TotalCompleted = %d, want 42", s.TotalCompleted)
	}
}

// --- RecordCompletion ---

func TestRecordCompletionCounters(t *testing.T) {
	tr := NewTracker(Signals{})
	tr.RecordCompletion(Task{ID: "a"}, sigT0)
	s := tr.Snapshot()

	if s.TotalCompleted != 1 {
		t.Errorf("TotalCompleted = %d, want 1", s.TotalCompleted)
	}
	if s.CompletedToday != 1 {
		t.Errorf("CompletedToday = %d, want 1", s.CompletedToday)
	}
	if s.HourCounts[10] != 1 {
		t.Errorf("HourCounts[10] = %d, want 1", s.HourCounts[10])
	}
	if s.DayCounts[time.Monday] != 1 {
		t.Errorf("DayCounts[Mon] = %d, want 1", s.DayCounts[time.Monday])
	}
}

func TestRecordCompletionDayRollover(t *testing.T) {
	tr := NewTracker(Signals{})
	tr.RecordCompletion(Task{ID: "a"}, sigT0)
	tr.RecordCompletion(Task{ID: "b"}, sigT0)
	tr.RecordCompletion(Task{ID: "c"}, sigT0.AddDate(0, 0, 1))
	s := tr.Snapshot()

	if s.CompletedToday != 1 {
		t.Errorf("CompletedToday = %d, want 1 after rollover", s.CompletedToday)
	}
	if s.TotalCompleted != 3 {
		t.Errorf("TotalCompleted = %d, want 3", s.TotalCompleted)
	}
}

func TestRecordCompletionRateEMA(t *testing.T) {
	tr := NewTracker(Signals{})
	tr.RecordCompletion(Task{ID: "a", Category: "work"}, sigT0)
	s := tr.Snapshot()

	// 0.5*0.9 + 0.1 = 0.55 for both overall and the fresh category.
	assertFloat(t, "CompletionRate", s.CompletionRate, 0.55)
	assertFloat(t, "CategoryRates[work]", s.CategoryRates["work"], 0.55)
}

func TestRecordMissDecaysRate(t *testing.T) {
	tr := NewTracker(Signals{})
	tr.RecordMiss(Task{ID: "a", Category: "work"})
	s := tr.Snapshot()

	assertFloat(t, "CompletionRate", s.CompletionRate, 0.45)
	assertFloat(t, "CategoryRates[work]", s.CategoryRates["work"], 0.45)
}

func TestRatesStayInRange(t *testing.T) {
	tr := NewTracker(Signals{})
	for i := 0; i < 200; i++ {
		tr.RecordCompletion(Task{ID: "a", Category: "work"}, sigT0)
	}
	s := tr.Snapshot()
	if s.CompletionRate > 1 || s.CompletionRate < 0 {
		t.Errorf("CompletionRate = %f, out of [0,1]", s.CompletionRate)
	}
	if r := s.CategoryRates["work"]; r > 1 || r < 0 {
		t.Errorf("CategoryRates[work] = %f, out of [0,1]", r)
	}
}

func TestProductiveHoursRecomputed(t *testing.T) {
	tr := NewTracker(Signals{})
	// Two completions at 20:00, one at 8:00.
	evening := time.Date(2025, 6, 16, 20, 0, 0, 0, time.UTC)
	morning := time.Date(2025, 6, 17, 8, 0, 0, 0, time.UTC)
	tr.RecordCompletion(Task{ID: "a"}, evening)
	tr.RecordCompletion(Task{ID: "b"}, evening.AddDate(0, 0, 2))
	tr.RecordCompletion(Task{ID: "c"}, morning)

	s := tr.Snapshot()
	if len(s.ProductiveHours) != 2 {
		t.Fatalf("ProductiveHours = %v, want 2 observed hours", s.ProductiveHours)
	}
	if s.ProductiveHours[0] != 20 {
		t.Errorf("top hour = %d, want 20", s.ProductiveHours[0])
	}
}

func TestProductiveHoursTop4(t *testing.T) {
	tr := NewTracker(Signals{})
	for h := 8; h < 14; h++ {
		at := time.Date(2025, 6, 16, h, 0, 0, 0, time.UTC)
		for i := 0; i <= h-8; i++ {
			tr.RecordCompletion(Task{ID: "a"}, at)
		}
	}
	s := tr.Snapshot()
	if want := []int{13, 12, 11, 10}; !reflect.DeepEqual(s.ProductiveHours, want) {
		t.Errorf("ProductiveHours = %v, want %v", s.ProductiveHours, want)
	}
}

// --- streaks ---

func TestStreakConsecutiveDays(t *testing.T) {
	tr := NewTracker(Signals{})
	for i := 0; i < 5; i++ {
		tr.RecordCompletion(Task{ID: "a"}, sigT0.AddDate(0, 0, i))
	}
	s := tr.Snapshot()
	if s.CurrentStreak != 5 {
		t.Errorf("CurrentStreak = %d, want 5", s.CurrentStreak)
	}
	if s.LongestStreak != 5 {
		t.Errorf("LongestStreak = %d, want 5", s.LongestStreak)
	}
}

func TestStreakBreaks(t *testing.T) {
	tr := NewTracker(Signals{})
	tr.RecordCompletion(Task{ID: "a"}, sigT0)
	tr.RecordCompletion(Task{ID: "a"}, sigT0.AddDate(0, 0, 1))
	tr.RecordCompletion(Task{ID: "a"}, sigT0.AddDate(0, 0, 4)) // gap of two days.
	s := tr.Snapshot()
	if s.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1 after a gap", s.CurrentStreak)
	}
	if s.LongestStreak != 2 {
		t.Errorf("LongestStreak = %d, want 2", s.LongestStreak)
	}
}

func TestStreakSameDayCountsOnce(t *testing.T) {
	tr := NewTracker(Signals{})
	tr.RecordCompletion(Task{ID: "a"}, sigT0)
	tr.RecordCompletion(Task{ID: "b"}, sigT0.Add(time.Hour))
	s := tr.Snapshot()
	if s.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1", s.CurrentStreak)
	}
}

// --- UpdateEnergy ---

func TestUpdateEnergyBlend(t *testing.T) {
	tr := NewTracker(Signals{})
	tr.UpdateEnergy(5, sigT0)
	s := tr.Snapshot()

	// 3*0.8 + 5*0.2 = 3.4
	assertFloat(t, "HourEnergy[10]", s.HourEnergy[10], 3.4)
	assertFloat(t, "DayEnergy[Mon]", s.DayEnergy[time.Monday], 3.4)
	assertFloat(t, "EnergyLevel", s.EnergyLevel, 5)
}

func TestUpdateEnergyClamps(t *testing.T) {
	tr := NewTracker(Signals{})
	tr.UpdateEnergy(9, sigT0)
	assertFloat(t, "EnergyLevel high", tr.Snapshot().EnergyLevel, 5)
	tr.UpdateEnergy(-2, sigT0)
	assertFloat(t, "EnergyLevel low", tr.Snapshot().EnergyLevel, 1)
}

func TestEnergyStaysInRange(t *testing.T) {
	tr := NewTracker(Signals{})
	for i := 0; i < 100; i++ {
		tr.UpdateEnergy(5, sigT0)
	}
	s := tr.Snapshot()
	if s.HourEnergy[10] > 5 || s.HourEnergy[10] < 1 {
		t.Errorf("HourEnergy[10] = %f, out of [1,5]", s.HourEnergy[10])
	}
}

// --- Snapshot / Reset ---

func TestSnapshotIdempotent(t *testing.T) {
	tr := NewTracker(Signals{})
	tr.RecordCompletion(Task{ID: "a", Category: "work"}, sigT0)
	a := tr.Snapshot()
	b := tr.Snapshot()
	if !reflect.DeepEqual(a, b) {
		t.Error("two snapshots without intervening writes differ")
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	tr := NewTracker(Signals{})
	s := tr.Snapshot()
	s.CategoryRates["hack"] = 1.0
	s.ProductiveHours[0] = 23
	after := tr.Snapshot()
	if _, ok := after.CategoryRates["hack"]; ok {
		t.Error("mutating a snapshot map leaked into the tracker")
	}
	if after.ProductiveHours[0] == 23 {
		t.Error("mutating a snapshot slice leaked into the tracker")
	}
}

func TestReset(t *testing.T) {
	tr := NewTracker(Signals{})
	tr.RecordCompletion(Task{ID: "a", Category: "work"}, sigT0)
	tr.UpdateEnergy(5, sigT0)
	tr.Reset()
	if !reflect.DeepEqual(tr.Snapshot(), DefaultSignals()) {
		t.Error("Reset did not restore defaults")
	}
}

// --- serialization ---

func TestSignalsJSONRoundTrip(t *testing.T) {
	tr := NewTracker(Signals{})
	tr.RecordCompletion(Task{ID: "a", Category: "work"}, sigT0)
	tr.UpdateEnergy(4, sigT0)
	orig := tr.Snapshot()

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back Signals
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(orig, back) {
		t.Error("signals changed across JSON round trip")
	}
}

func TestEnergyAtFallback(t *testing.T) {
	var s Signals // zero value: no hour samples.
	s.EnergyLevel = 4
	assertFloat(t, "EnergyAt", s.EnergyAt(sigT0), 4)
}

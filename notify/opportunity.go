package notify

import (
	"encoding"
	"fmt"
	"sort"
	"time"

	"github.com/tempo-plan/tempo"
)

// Kind classifies why an opportunity was detected.
type Kind int

const (
	ProductiveHour      Kind = iota + 1 // Strong top task during a learned productive hour.
	EnergyMatch                         // A task fits the current energy level well.
	DeadlineApproaching                 // A deadline lands within 24 hours.
)

var (
	kindNames = [...]string{
		ProductiveHour:      "productive-hour",
		EnergyMatch:         "energy-match",
		DeadlineApproaching: "deadline-approaching",
	}
	kindByName = map[string]Kind{
		"productive-hour":      ProductiveHour,
		"energy-match":         EnergyMatch,
		"deadline-approaching": DeadlineApproaching,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Kind(0)
	_ encoding.TextMarshaler   = Kind(0)
	_ encoding.TextUnmarshaler = (*Kind)(nil)
)

// IsValid reports whether k is a valid opportunity kind.
func (k Kind) IsValid() bool {
	return k >= ProductiveHour && k <= DeadlineApproaching
}

// String returns the name of the kind. For invalid values it returns
// "Kind(n)".
func (k Kind) String() string {
	if k.IsValid() {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.IsValid() {
		return nil, fmt.Errorf("notify: invalid kind: %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	v, ok := kindByName[string(text)]
	if !ok {
		return fmt.Errorf("notify: invalid kind: %q", text)
	}
	*k = v
	return nil
}

// Opportunity is an ephemeral candidate for a proactive notification:
// a task, why now is a good moment for it, and how confident the
// detector is. Opportunities are consumed immediately or discarded.
type Opportunity struct {
	Task       tempo.Task `json:"task"`
	Kind       Kind       `json:"kind"`
	Confidence float64    `json:"confidence"` // [0,1]
	Reason     string     `json:"reason"`
}

// DetectOpportunities scans the active tasks for up to three candidate
// moments: the top-ranked task during a known productive hour (overall
// score above 0.7), the best energy-matched task (component above 0.8),
// and the nearest deadline within 24 hours. Results are sorted by
// confidence, highest first; an empty slice means nothing is worth
// surfacing right now.
func (g *Gatekeeper) DetectOpportunities(scorer *tempo.Scorer, tasks []tempo.Task, sig tempo.Signals, now time.Time) []Opportunity {
	ranked := scorer.RankTasks(tasks, sig, now)
	if len(ranked) == 0 {
		return nil
	}

	var ops []Opportunity

	if sig.IsProductiveHour(now.Hour()) && ranked[0].Score.Overall > 0.7 {
		ops = append(ops, Opportunity{
			Task:       ranked[0].Task,
			Kind:       ProductiveHour,
			Confidence: ranked[0].Score.Overall,
			Reason:     fmt.Sprintf("%d:00 is one of your most productive hours", now.Hour()),
		})
	}

	best := ranked[0]
	for _, r := range ranked[1:] {
		if r.Score.EnergyMatch > best.Score.EnergyMatch {
			best = r
		}
	}
	if best.Score.EnergyMatch > 0.8 {
		ops = append(ops, Opportunity{
			Task:       best.Task,
			Kind:       EnergyMatch,
			Confidence: best.Score.EnergyMatch,
			Reason:     "fits your current energy level",
		})
	}

	if op, ok := nearestDeadline(ranked, now); ok {
		ops = append(ops, op)
	}

	sort.SliceStable(ops, func(i, j int) bool {
		return ops[i].Confidence > ops[j].Confidence
	})
	return ops
}

// nearestDeadline finds the task whose deadline lands soonest within
// the next 24 hours. Confidence grows as the deadline nears.
func nearestDeadline(ranked []tempo.RankedTask, now time.Time) (Opportunity, bool) {
	var found *tempo.Task
	var hours float64
	for i := range ranked {
		t := ranked[i].Task
		if t.Due == nil {
			continue
		}
		h := t.Due.Sub(now).Hours()
		if h < 0 || h > 24 {
			continue
		}
		if found == nil || h < hours {
			found = &ranked[i].Task
			hours = h
		}
	}
	if found == nil {
		return Opportunity{}, false
	}
	conf := 1 - hours/24
	if conf > 1 {
		conf = 1
	}
	return Opportunity{
		Task:       *found,
		Kind:       DeadlineApproaching,
		Confidence: conf,
		Reason:     fmt.Sprintf("due in %.0f hours", hours),
	}, true
}

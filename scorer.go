package tempo

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// ScorerConfig configures a Scorer.
// Zero values produce sensible defaults; see field comments.
type ScorerConfig struct {
	Weights  Weights    `json:"weights"`  // zero → DefaultWeights
	Profiles ProfileSet `json:"profiles"` // zero → no contextual overrides
}

// Scorer computes six-component heuristic scores for tasks and adapts
// its weights from user responses. Scoring itself is pure over an
// explicit [Signals] snapshot and the current time; the only mutable
// state is the weight vector and the per-task last-suggested stamps
// used for recency decay.
type Scorer struct {
	weights       Weights
	profiles      ProfileSet
	lastSuggested map[string]time.Time
}

// NewScorer creates a Scorer from the given config. A zero weight
// vector is replaced with DefaultWeights; invalid weights return an
// error. Weights are normalized on entry.
func NewScorer(cfg ScorerConfig) (*Scorer, error) {
	w := cfg.Weights
	if w == (Weights{}) {
		w = DefaultWeights
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{
		weights:       w.Normalized(),
		profiles:      cfg.Profiles,
		lastSuggested: make(map[string]time.Time),
	}, nil
}

// Weights returns the current base weight vector.
func (sc *Scorer) Weights() Weights {
	return sc.weights
}

// ScoreTask evaluates one task against the given behavioral signals at
// the given time. The result is recomputed on every call and never
// cached or persisted.
func (sc *Scorer) ScoreTask(task Task, sig Signals, now time.Time) Score {
	s := Score{
		Urgency:            urgencyScore(task, now),
		Value:              valueScore(task, sig),
		Friction:           frictionScore(task),
		SuccessProbability: successScore(task, sig, now),
		Recency:            sc.recencyScore(task.ID, now),
		EnergyMatch:        energyMatchScore(task, sig, now),
	}

	w := sc.profiles.Resolve(sc.weights, now)
	var overall float64
	for c := Component(0); c < numComponents; c++ {
		overall += w[c] * s.desirability(c)
	}
	s.Overall = clamp01(overall)
	s.Rationale = rationale(task, s, sig, now)
	return s
}

// RankTasks filters the list to active tasks (todo, in-progress), scores
// each, and sorts descending by Overall. The sort is stable: equal
// scores keep the input order.
func (sc *Scorer) RankTasks(tasks []Task, sig Signals, now time.Time) []RankedTask {
	ranked := make([]RankedTask, 0, len(tasks))
	for _, t := range tasks {
		if !t.IsActive() {
			continue
		}
		ranked = append(ranked, RankedTask{Task: t, Score: sc.ScoreTask(t, sig, now)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score.Overall > ranked[j].Score.Overall
	})
	return ranked
}

// BestTask returns the highest-ranked active task, or false when no
// task is eligible.
func (sc *Scorer) BestTask(tasks []Task, sig Signals, now time.Time) (RankedTask, bool) {
	ranked := sc.RankTasks(tasks, sig, now)
	if len(ranked) == 0 {
		return RankedTask{}, false
	}
	return ranked[0], true
}

// RecordSuggestion stamps the task as suggested at the given time. The
// recency component decays suggestions made within the last three hours
// so the same task is not surfaced repeatedly.
func (sc *Scorer) RecordSuggestion(taskID string, at time.Time) {
	sc.lastSuggested[taskID] = at
}

// AdaptWeights applies one online adaptation step from a user response.
// The dominant component (the highest-valued of urgency, value, success
// probability, and energy match; ties broken in that order) is scaled by
// 1.02 on a positive response and 0.98 on a negative one, then the six
// weights are renormalized to sum to 1.0.
func (sc *Scorer) AdaptWeights(score Score, resp Response) {
	dom := dominantComponent(score)
	if resp.Positive() {
		sc.weights[dom] *= 1.02
	} else {
		sc.weights[dom] *= 0.98
	}
	sc.weights = sc.weights.Normalized()
}

// ReplayResponses rebuilds the weight vector by applying each recorded
// response in order, starting from the current weights. Useful for
// restoring adaptation state from a persisted response history.
func (sc *Scorer) ReplayResponses(events []ResponseEvent) {
	for _, ev := range events {
		if !ev.Response.IsValid() {
			continue
		}
		sc.AdaptWeights(ev.Score, ev.Response)
	}
}

// dominantComponent returns the adaptation target for the score: the
// highest-valued of the four adaptable components, first-wins on ties.
func dominantComponent(s Score) Component {
	dom := adaptOrder[0]
	best := s.Component(dom)
	for _, c := range adaptOrder[1:] {
		if v := s.Component(c); v > best {
			dom, best = c, v
		}
	}
	return dom
}

// urgencyScore maps hours-until-due onto a step scale. Tasks without a
// deadline sit at a flat 0.3 so they are never crowded out entirely.
func urgencyScore(task Task, now time.Time) float64 {
	if task.Due == nil {
		return 0.3
	}
	hours := task.Due.Sub(now).Hours()
	switch {
	case hours <= 0:
		return 1.0
	case hours < 2:
		return 0.95
	case hours < 24:
		return 0.85
	case hours < 48:
		return 0.70
	case hours < 24*7:
		return 0.50
	case hours < 24*14:
		return 0.35
	default:
		return 0.25
	}
}

// valueScore starts from the priority's base value, boosted when the
// task's category has a strong completion history or the task carries
// subtasks (decomposed work tends to matter more).
func valueScore(task Task, sig Signals) float64 {
	var base float64
	switch task.Priority {
	case Urgent:
		base = 1.0
	case High:
		base = 0.8
	case Medium:
		base = 0.5
	default:
		base = 0.3
	}
	if rate, ok := sig.CategoryRates[task.Category]; ok && rate > 0.8 {
		base *= 1.2
	}
	if task.SubtaskCount > 0 {
		base *= 1.1
	}
	return clamp01(base)
}

// frictionScore estimates the cost of starting the task: longer
// estimates, many subtasks and long descriptions all raise it. Unknown
// duration sits in the middle.
func frictionScore(task Task) float64 {
	var base float64
	switch m := task.EstimatedMinutes; {
	case m == 0:
		base = 0.5
	case m <= 15:
		base = 0.2
	case m <= 30:
		base = 0.3
	case m <= 60:
		base = 0.5
	case m <= 120:
		base = 0.7
	default:
		base = 0.9
	}
	if task.SubtaskCount > 5 {
		base += 0.1
	}
	if task.DescriptionLen > 500 {
		base += 0.05
	}
	return clamp01(base)
}

// successScore estimates the probability the user finishes the task if
// they start now, from time-of-day fit, category history, streak, and
// today's momentum.
func successScore(task Task, sig Signals, now time.Time) float64 {
	p := 0.5
	if sig.IsProductiveHour(now.Hour()) {
		p += 0.2
	}
	if sig.IsProductiveDay(now.Weekday()) {
		p += 0.1
	}
	if rate, ok := sig.CategoryRates[task.Category]; ok {
		p = (p + rate) / 2
	}
	switch {
	case sig.CurrentStreak > 7:
		p += 0.15
	case sig.CurrentStreak > 3:
		p += 0.10
	}
	if sig.CompletedToday > 0 {
		p += 0.1
	}
	return clamp01(p)
}

// recencyScore decays tasks suggested recently so suggestions rotate.
func (sc *Scorer) recencyScore(taskID string, now time.Time) float64 {
	last, ok := sc.lastSuggested[taskID]
	if !ok {
		return 1.0
	}
	switch mins := now.Sub(last).Minutes(); {
	case mins < 30:
		return 0.1
	case mins < 60:
		return 0.3
	case mins < 180:
		return 0.6
	default:
		return 1.0
	}
}

// energyMatchScore compares the learned energy for this hour with the
// task's derived difficulty on the same 1-5 scale.
func energyMatchScore(task Task, sig Signals, now time.Time) float64 {
	energy := sig.EnergyAt(now)
	if energy == 0 {
		energy = 3
	}
	diff := taskDifficulty(task)
	return clamp01(1 - math.Abs(energy-diff)/5)
}

// taskDifficulty derives a 1-5 difficulty from priority, duration, and
// subtask count.
func taskDifficulty(task Task) float64 {
	d := 3.0
	switch task.Priority {
	case High, Urgent:
		d++
	case Low:
		d--
	}
	switch m := task.EstimatedMinutes; {
	case m > 120:
		d++
	case m > 60:
		d += 0.5
	}
	if task.SubtaskCount > 5 {
		d += 0.5
	}
	if d < 1 {
		return 1
	}
	if d > 5 {
		return 5
	}
	return d
}

// rationale builds the human-readable explanation strings surfaced with
// a suggestion.
func rationale(task Task, s Score, sig Signals, now time.Time) []string {
	var out []string
	switch {
	case task.Due != nil && !task.Due.After(now):
		out = append(out, "overdue")
	case s.Urgency >= 0.85:
		out = append(out, "due soon")
	}
	if task.Priority >= High {
		out = append(out, fmt.Sprintf("%s priority", task.Priority))
	}
	if s.Friction <= 0.3 {
		out = append(out, "quick win")
	}
	if sig.IsProductiveHour(now.Hour()) {
		out = append(out, "one of your productive hours")
	}
	if s.SuccessProbability >= 0.7 {
		out = append(out, "good odds of finishing")
	}
	if s.EnergyMatch >= 0.8 {
		out = append(out, "matches your current energy")
	}
	return out
}

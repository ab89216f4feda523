package notify

import (
	"time"

	"github.com/tempo-plan/tempo"
)

// Config configures a Gatekeeper.
// Zero values produce sensible defaults; see field comments.
type Config struct {
	QuietStartHour  int       `json:"quiet_start_hour"`  // zero → 22
	QuietEndHour    int       `json:"quiet_end_hour"`    // zero → 7
	Frequency       Frequency `json:"frequency"`         // zero → Moderate
	ProductiveHours []int     `json:"productive_hours"`  // nil → all hours allowed
	HistoryLimit    int       `json:"history_limit"`     // zero → 50 retained timestamps per task
}

// Minimum gap since the previous notification, by priority. Critical is
// absent: it bypasses the gap gate entirely.
var minGaps = map[Priority]time.Duration{
	HighPriority:  30 * time.Minute,
	Motivational:  60 * time.Minute,
	Informational: 120 * time.Minute,
}

// Decision is the outcome of a throttling check. A false Allow is
// normal control flow, not a failure; Reason names the gate that closed.
type Decision struct {
	Allow  bool   `json:"allow"`
	Reason string `json:"reason,omitempty"`
}

func deny(reason string) Decision { return Decision{Reason: reason} }

// Gatekeeper decides whether candidate notifications are actually worth
// sending right now. It tracks per-task send history, per-task response
// rates, and a bounded engagement score implementing the
// fatigue/recovery policy. It is not safe for concurrent use; the
// hosting application owns exactly one writer.
type Gatekeeper struct {
	cfg        Config
	sent       []time.Time            // all sends, newest last, pruned to two hours.
	taskSent   map[string][]time.Time // per-task send history.
	respRate   map[string]float64     // per-task positive-response EMA.
	engagement float64                // [0, 2], starts at 1.
	dismissals int                    // consecutive negative responses.
}

// NewGatekeeper creates a Gatekeeper from the given config.
// Zero-valued fields are filled with defaults; invalid values return an
// error.
func NewGatekeeper(cfg Config) (*Gatekeeper, error) {
	if cfg.QuietStartHour == 0 {
		cfg.QuietStartHour = 22
	}
	if cfg.QuietEndHour == 0 {
		cfg.QuietEndHour = 7
	}
	if cfg.Frequency == 0 {
		cfg.Frequency = Moderate
	}
	if !cfg.Frequency.IsValid() {
		return nil, ErrInvalidFrequency
	}
	if cfg.HistoryLimit == 0 {
		cfg.HistoryLimit = 50
	}
	return &Gatekeeper{
		cfg:        cfg,
		taskSent:   make(map[string][]time.Time),
		respRate:   make(map[string]float64),
		engagement: 1.0,
	}, nil
}

// ShouldSend runs the throttling gates in order and returns the first
// closed gate, or an allow. It does not record anything; call
// [Gatekeeper.RecordSent] after the notification is actually emitted.
func (g *Gatekeeper) ShouldSend(taskID string, pri Priority, now time.Time) Decision {
	if g.inQuietHours(now) {
		return deny("quiet hours")
	}
	if pri == Critical {
		return Decision{Allow: true}
	}
	if len(g.cfg.ProductiveHours) > 0 && !containsHour(g.cfg.ProductiveHours, now.Hour()) && pri < HighPriority {
		return deny("outside productive hours")
	}
	if gap, ok := minGaps[pri]; ok {
		if last, ok := g.lastSent(); ok && now.Sub(last) < gap {
			return deny("too soon after previous notification")
		}
	}
	if g.engagement < 0.5 && pri < HighPriority {
		return deny("notification fatigue")
	}
	if rate, ok := g.respRate[taskID]; ok && rate < 0.2 && pri == Motivational {
		return deny("task has a poor response history")
	}
	if g.overHourlyCap(now) {
		return deny("hourly cap reached")
	}
	return Decision{Allow: true}
}

// RecordSent stamps a notification as emitted for the task.
func (g *Gatekeeper) RecordSent(taskID string, at time.Time) {
	g.sent = append(g.sent, at)
	g.pruneSent(at)
	h := append(g.taskSent[taskID], at)
	if len(h) > g.cfg.HistoryLimit {
		h = h[len(h)-g.cfg.HistoryLimit:]
	}
	g.taskSent[taskID] = h
}

// HandleResponse folds a user response into the per-task response rate
// and the engagement score. Three consecutive dismissals decay
// engagement by 0.9 and reset the counter; any positive action grows
// it by 1.1 (capped at 2.0) and resets the counter.
func (g *Gatekeeper) HandleResponse(taskID string, resp tempo.Response, at time.Time) {
	positive := 0.0
	if resp.Positive() {
		positive = 1.0
	}
	rate, ok := g.respRate[taskID]
	if !ok {
		rate = 0.5
	}
	g.respRate[taskID] = rate*0.9 + positive*0.1

	if resp.Positive() {
		g.engagement *= 1.1
		if g.engagement > 2.0 {
			g.engagement = 2.0
		}
		g.dismissals = 0
		return
	}
	g.dismissals++
	if g.dismissals >= 3 {
		g.engagement *= 0.9
		if g.engagement < 0 {
			g.engagement = 0
		}
		g.dismissals = 0
	}
}

// Engagement returns the current engagement score, in [0, 2].
func (g *Gatekeeper) Engagement() float64 {
	return g.engagement
}

// ResponseRate returns the task's positive-response EMA and whether the
// task has any response history.
func (g *Gatekeeper) ResponseRate(taskID string) (float64, bool) {
	r, ok := g.respRate[taskID]
	return r, ok
}

// EngagementState is the serializable slice of gatekeeper state that
// survives restarts. Send timestamps are deliberately not persisted;
// throttling windows are short enough that restarting clean is fine.
type EngagementState struct {
	Engagement    float64            `json:"engagement"`
	Dismissals    int                `json:"dismissals"`
	ResponseRates map[string]float64 `json:"response_rates,omitempty"`
}

// DefaultEngagementState returns the starting engagement state.
func DefaultEngagementState() EngagementState {
	return EngagementState{Engagement: 1.0, ResponseRates: map[string]float64{}}
}

// State returns a copy of the persistable gatekeeper state.
func (g *Gatekeeper) State() EngagementState {
	rates := make(map[string]float64, len(g.respRate))
	for k, v := range g.respRate {
		rates[k] = v
	}
	return EngagementState{
		Engagement:    g.engagement,
		Dismissals:    g.dismissals,
		ResponseRates: rates,
	}
}

// RestoreState replaces the gatekeeper's engagement state with a
// previously persisted one. Out-of-range engagement is clamped.
func (g *Gatekeeper) RestoreState(st EngagementState) {
	e := st.Engagement
	if e <= 0 {
		e = 1.0
	}
	if e > 2.0 {
		e = 2.0
	}
	g.engagement = e
	g.dismissals = st.Dismissals
	g.respRate = make(map[string]float64, len(st.ResponseRates))
	for k, v := range st.ResponseRates {
		g.respRate[k] = v
	}
}

func (g *Gatekeeper) inQuietHours(now time.Time) bool {
	h := now.Hour()
	start, end := g.cfg.QuietStartHour, g.cfg.QuietEndHour
	if start == end {
		return false
	}
	if start < end {
		return h >= start && h < end
	}
	// Window wraps midnight, e.g. 22-7.
	return h >= start || h < end
}

func (g *Gatekeeper) lastSent() (time.Time, bool) {
	if len(g.sent) == 0 {
		return time.Time{}, false
	}
	return g.sent[len(g.sent)-1], true
}

// overHourlyCap checks the frequency tier's cap: Aggressive allows six
// per hour, Moderate two per hour, Minimal one per two hours.
func (g *Gatekeeper) overHourlyCap(now time.Time) bool {
	window := time.Hour
	limit := 2
	switch g.cfg.Frequency {
	case Aggressive:
		limit = 6
	case Minimal:
		window = 2 * time.Hour
		limit = 1
	}
	n := 0
	for _, t := range g.sent {
		if now.Sub(t) < window {
			n++
		}
	}
	return n >= limit
}

// pruneSent drops send stamps older than the longest cap window.
func (g *Gatekeeper) pruneSent(now time.Time) {
	cutoff := now.Add(-2 * time.Hour)
	i := 0
	for i < len(g.sent) && g.sent[i].Before(cutoff) {
		i++
	}
	g.sent = g.sent[i:]
}

func containsHour(hours []int, h int) bool {
	for _, v := range hours {
		if v == h {
			return true
		}
	}
	return false
}

package tempo

import (
	"encoding"
	"encoding/json"
	"fmt"
	"time"
)

// Component identifies one of the six scoring dimensions. Components
// index directly into a [Weights] array; there is no lookup by name.
type Component int

const (
	Urgency Component = iota
	Value
	Friction
	SuccessProbability
	Recency
	EnergyMatch

	numComponents = 6
)

var (
	componentNames = [...]string{
		Urgency:            "urgency",
		Value:              "value",
		Friction:           "friction",
		SuccessProbability: "success_probability",
		Recency:            "recency",
		EnergyMatch:        "energy_match",
	}
	componentByName = map[string]Component{
		"urgency":             Urgency,
		"value":               Value,
		"friction":            Friction,
		"success_probability": SuccessProbability,
		"recency":             Recency,
		"energy_match":        EnergyMatch,
	}
)

// adaptOrder is the total ordering used to break ties when weight
// adaptation picks the dominant component (see [Scorer.AdaptWeights]).
// Friction and Recency are deliberately excluded from adaptation.
var adaptOrder = [4]Component{Urgency, Value, SuccessProbability, EnergyMatch}

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Component(0)
	_ encoding.TextMarshaler   = Component(0)
	_ encoding.TextUnmarshaler = (*Component)(nil)
)

// IsValid reports whether c is one of the six components.
func (c Component) IsValid() bool {
	return c >= Urgency && c < numComponents
}

// String returns the snake_case name of the component. For invalid
// values it returns "Component(n)".
func (c Component) String() string {
	if c.IsValid() {
		return componentNames[c]
	}
	return fmt.Sprintf("Component(%d)", int(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Component) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("%w: invalid component %d", ErrInvalidWeights, int(c))
	}
	return []byte(componentNames[c]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Component) UnmarshalText(text []byte) error {
	v, ok := componentByName[string(text)]
	if !ok {
		return fmt.Errorf("%w: invalid component %q", ErrInvalidWeights, text)
	}
	*c = v
	return nil
}

// Weights holds the six base scoring weights, indexed by [Component].
// After any adaptation step the weights sum to 1.0.
type Weights [numComponents]float64

// DefaultWeights is the starting weight vector. It sums to 1.0.
var DefaultWeights = Weights{
	Urgency:            0.25,
	Value:              0.20,
	Friction:           0.15,
	SuccessProbability: 0.15,
	Recency:            0.10,
	EnergyMatch:        0.15,
}

// Sum returns the total of all six weights.
func (w Weights) Sum() float64 {
	var s float64
	for _, v := range w {
		s += v
	}
	return s
}

// Validate checks that all weights are non-negative and at least one is
// positive. Returns an error wrapping ErrInvalidWeights otherwise.
func (w Weights) Validate() error {
	for c, v := range w {
		if v < 0 {
			return fmt.Errorf("%w: %s = %f is negative", ErrInvalidWeights, Component(c), v)
		}
	}
	if w.Sum() == 0 {
		return fmt.Errorf("%w: all weights are zero", ErrInvalidWeights)
	}
	return nil
}

// Normalized returns a copy of w scaled so the six weights sum to 1.0.
// A zero vector is returned unchanged.
func (w Weights) Normalized() Weights {
	sum := w.Sum()
	if sum == 0 {
		return w
	}
	for i := range w {
		w[i] /= sum
	}
	return w
}

// MarshalJSON serializes weights as an object keyed by component name.
func (w Weights) MarshalJSON() ([]byte, error) {
	m := make(map[string]float64, numComponents)
	for c, v := range w {
		m[componentNames[c]] = v
	}
	return json.Marshal(m)
}

// UnmarshalJSON accepts an object keyed by component name. Unknown keys
// are rejected; missing keys default to zero.
func (w *Weights) UnmarshalJSON(data []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWeights, err)
	}
	var out Weights
	for k, v := range m {
		c, ok := componentByName[k]
		if !ok {
			return fmt.Errorf("%w: unknown component %q", ErrInvalidWeights, k)
		}
		out[c] = v
	}
	*w = out
	return nil
}

// Profile is a partial weight override keyed by component. Components
// absent from the profile inherit the base weight.
type Profile map[Component]float64

// apply overlays the profile onto w and returns the result.
func (p Profile) apply(w Weights) Weights {
	for c, v := range p {
		if c.IsValid() && v >= 0 {
			w[c] = v
		}
	}
	return w
}

// ProfileSet carries the contextual weight overrides. Time-of-day
// profiles apply first, then the weekday/weekend profile; the merged
// result is renormalized before use.
type ProfileSet struct {
	Morning   Profile `json:"morning,omitempty"`   // 6:00-11:59
	Afternoon Profile `json:"afternoon,omitempty"` // 12:00-17:59
	Evening   Profile `json:"evening,omitempty"`   // everything else
	Weekday   Profile `json:"weekday,omitempty"`
	Weekend   Profile `json:"weekend,omitempty"`
}

// Resolve merges the base weights with the profiles matching the given
// time and returns the normalized contextual weight vector.
func (ps ProfileSet) Resolve(base Weights, now time.Time) Weights {
	w := base
	switch h := now.Hour(); {
	case h >= 6 && h < 12:
		w = ps.Morning.apply(w)
	case h >= 12 && h < 18:
		w = ps.Afternoon.apply(w)
	default:
		w = ps.Evening.apply(w)
	}
	if wd := now.Weekday(); wd == time.Saturday || wd == time.Sunday {
		w = ps.Weekend.apply(w)
	} else {
		w = ps.Weekday.apply(w)
	}
	return w.Normalized()
}

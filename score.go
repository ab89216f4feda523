package tempo

// Score is the ephemeral result of evaluating one task at one moment.
// Every component and Overall lie in [0,1]. Friction is stored as
// computed (high = costly to start); the weighted sum uses 1-Friction
// so that low friction raises Overall.
type Score struct {
	Urgency            float64  `json:"urgency"`
	Value              float64  `json:"value"`
	Friction           float64  `json:"friction"`
	SuccessProbability float64  `json:"success_probability"`
	Recency            float64  `json:"recency"`
	EnergyMatch        float64  `json:"energy_match"`
	Overall            float64  `json:"overall"`
	Rationale          []string `json:"rationale,omitempty"`
}

// Component returns the named component value.
func (s Score) Component(c Component) float64 {
	switch c {
	case Urgency:
		return s.Urgency
	case Value:
		return s.Value
	case Friction:
		return s.Friction
	case SuccessProbability:
		return s.SuccessProbability
	case Recency:
		return s.Recency
	case EnergyMatch:
		return s.EnergyMatch
	}
	return 0
}

// desirability returns the component value as used in the weighted sum:
// friction inverted, everything else as-is.
func (s Score) desirability(c Component) float64 {
	if c == Friction {
		return 1 - s.Friction
	}
	return s.Component(c)
}

// RankedTask pairs a task with its computed score.
type RankedTask struct {
	Task  Task  `json:"task"`
	Score Score `json:"score"`
}

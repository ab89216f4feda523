package notify

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors for the notify package.
var (
	ErrInvalidPriority  = errors.New("notify: invalid notification priority")
	ErrInvalidFrequency = errors.New("notify: invalid frequency")
)

// Priority ranks how important a notification is. Higher priorities
// pass more throttling gates; Critical bypasses everything except
// quiet hours.
type Priority int

const (
	Informational Priority = iota + 1 // Status updates, summaries.
	Motivational                      // Nudges and encouragement.
	HighPriority                      // Deadline and urgency alerts.
	Critical                          // Must reach the user; only quiet hours block it.
)

var (
	priorityNames = [...]string{
		Informational: "informational",
		Motivational:  "motivational",
		HighPriority:  "high",
		Critical:      "critical",
	}
	priorityByName = map[string]Priority{
		"informational": Informational,
		"motivational":  Motivational,
		"high":          HighPriority,
		"critical":      Critical,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Priority(0)
	_ json.Marshaler           = Priority(0)
	_ json.Unmarshaler         = (*Priority)(nil)
	_ encoding.TextMarshaler   = Priority(0)
	_ encoding.TextUnmarshaler = (*Priority)(nil)
)

// IsValid reports whether p is a valid notification priority.
func (p Priority) IsValid() bool {
	return p >= Informational && p <= Critical
}

// String returns the name of the priority. For invalid values it
// returns "Priority(n)".
func (p Priority) String() string {
	if p.IsValid() {
		return priorityNames[p]
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p Priority) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPriority, int(p))
	}
	return []byte(priorityNames[p]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Priority) UnmarshalText(text []byte) error {
	v, ok := priorityByName[string(text)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, text)
	}
	*p = v
	return nil
}

// MarshalJSON implements json.Marshaler. Priority serializes as a JSON string.
func (p Priority) MarshalJSON() ([]byte, error) {
	text, err := p.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler. Expects a JSON string.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPriority, data)
	}
	return p.UnmarshalText([]byte(s))
}

// Frequency selects how often the gatekeeper allows notifications.
type Frequency int

const (
	Minimal    Frequency = iota + 1 // At most one notification per two hours.
	Moderate                        // Up to two per hour.
	Aggressive                      // Up to six per hour.
)

var (
	frequencyNames  = [...]string{Minimal: "minimal", Moderate: "moderate", Aggressive: "aggressive"}
	frequencyByName = map[string]Frequency{
		"minimal":    Minimal,
		"moderate":   Moderate,
		"aggressive": Aggressive,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Frequency(0)
	_ encoding.TextMarshaler   = Frequency(0)
	_ encoding.TextUnmarshaler = (*Frequency)(nil)
)

// IsValid reports whether f is a valid frequency tier.
func (f Frequency) IsValid() bool {
	return f >= Minimal && f <= Aggressive
}

// String returns the name of the frequency tier. For invalid values it
// returns "Frequency(n)".
func (f Frequency) String() string {
	if f.IsValid() {
		return frequencyNames[f]
	}
	return fmt.Sprintf("Frequency(%d)", int(f))
}

// MarshalText implements encoding.TextMarshaler.
func (f Frequency) MarshalText() ([]byte, error) {
	if !f.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFrequency, int(f))
	}
	return []byte(frequencyNames[f]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Frequency) UnmarshalText(text []byte) error {
	v, ok := frequencyByName[string(text)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, text)
	}
	*f = v
	return nil
}

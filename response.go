package tempo

import (
	"encoding"
	"encoding/json"
	"fmt"
	"time"
)

// Response represents the user's reaction to a suggested task.
type Response int

const (
	ResponseCompleted Response = iota + 1 // Task was completed after the suggestion.
	ResponseStarted                       // Task was started but not finished.
	ResponseIgnored                       // Suggestion was ignored.
	ResponseSnoozed                       // Suggestion was explicitly postponed.
)

var (
	responseNames = [...]string{
		ResponseCompleted: "completed",
		ResponseStarted:   "started",
		ResponseIgnored:   "ignored",
		ResponseSnoozed:   "snoozed",
	}
	responseByName = map[string]Response{
		"completed": ResponseCompleted,
		"started":   ResponseStarted,
		"ignored":   ResponseIgnored,
		"snoozed":   ResponseSnoozed,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Response(0)
	_ json.Marshaler           = Response(0)
	_ json.Unmarshaler         = (*Response)(nil)
	_ encoding.TextMarshaler   = Response(0)
	_ encoding.TextUnmarshaler = (*Response)(nil)
)

// IsValid reports whether r is a valid response.
func (r Response) IsValid() bool {
	return r >= ResponseCompleted && r <= ResponseSnoozed
}

// Positive reports whether the response signals engagement
// (completed or started).
func (r Response) Positive() bool {
	return r == ResponseCompleted || r == ResponseStarted
}

// String returns the name of the response ("completed", "started",
// "ignored", "snoozed"). For invalid values it returns "Response(n)".
func (r Response) String() string {
	if r.IsValid() {
		return responseNames[r]
	}
	return fmt.Sprintf("Response(%d)", int(r))
}

// MarshalText implements encoding.TextMarshaler.
func (r Response) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidResponse, int(r))
	}
	return []byte(responseNames[r]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Response) UnmarshalText(text []byte) error {
	v, ok := responseByName[string(text)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidResponse, text)
	}
	*r = v
	return nil
}

// MarshalJSON implements json.Marshaler. Response serializes as a JSON string.
func (r Response) MarshalJSON() ([]byte, error) {
	text, err := r.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler. Expects a JSON string.
func (r *Response) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidResponse, data)
	}
	return r.UnmarshalText([]byte(s))
}

// ResponseEvent records a single user response to a suggested task,
// along with the score that produced the suggestion. A history of
// events can be replayed to rebuild adapted weights; see
// [Scorer.ReplayResponses].
type ResponseEvent struct {
	TaskID   string    `json:"task_id"`
	Response Response  `json:"response"`
	Score    Score     `json:"score"`
	At       time.Time `json:"at"`
}

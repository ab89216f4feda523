package tempo

import (
	"encoding"
	"encoding/json"
	"fmt"
	"time"
)

// Task is a read-only view of a task record owned by the hosting
// application. The core never creates or deletes tasks; it only reads
// their attributes for scoring and scheduling.
type Task struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Due              *time.Time `json:"due,omitempty"` // nil when the task has no deadline.
	Priority         Priority   `json:"priority"`
	Status           Status     `json:"status"`
	Category         string     `json:"category,omitempty"`
	EstimatedMinutes int        `json:"estimated_minutes,omitempty"` // 0 when unknown.
	SubtaskCount     int        `json:"subtask_count,omitempty"`
	DescriptionLen   int        `json:"description_len,omitempty"`
}

// IsActive reports whether the task is eligible for recommendation
// (status Todo or InProgress).
func (t Task) IsActive() bool {
	return t.Status == Todo || t.Status == InProgress
}

// Priority represents a task's user-assigned importance.
type Priority int

const (
	Low Priority = iota + 1
	Medium
	High
	Urgent
)

var (
	priorityNames  = [...]string{Low: "low", Medium: "medium", High: "high", Urgent: "urgent"}
	priorityByName = map[string]Priority{
		"low":    Low,
		"medium": Medium,
		"high":   High,
		"urgent": Urgent,
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

// IsValid reports whether p is a valid priority (Low through Urgent).
func (p Priority) IsValid() bool {
	return p >= Low && p <= Urgent
}

// String returns the name of the priority ("low", "medium", "high", "urgent").
// For invalid values it returns "Priority(n)".
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

// Status represents a task's lifecycle stage.
type Status int

const (
	Todo Status = iota + 1
	InProgress
	Completed
	Archived
)

var (
	statusNames  = [...]string{Todo: "todo", InProgress: "in-progress", Completed: "completed", Archived: "archived"}
	statusByName = map[string]Status{
		"todo":        Todo,
		"in-progress": InProgress,
		"completed":   Completed,
		"archived":    Archived,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Status(0)
	_ json.Marshaler           = Status(0)
	_ json.Unmarshaler         = (*Status)(nil)
	_ encoding.TextMarshaler   = Status(0)
	_ encoding.TextUnmarshaler = (*Status)(nil)
)

// IsValid reports whether s is a valid status (Todo through Archived).
func (s Status) IsValid() bool {
	return s >= Todo && s <= Archived
}

// String returns the name of the status ("todo", "in-progress",
// "completed", "archived"). For invalid values it returns "Status(n)".
func (s Status) String() string {
	if s.IsValid() {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, int(s))
	}
	return []byte(statusNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	v, ok := statusByName[string(text)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, text)
	}
	*s = v
	return nil
}

// MarshalJSON implements json.Marshaler. Status serializes as a JSON string.
func (s Status) MarshalJSON() ([]byte, error) {
	text, err := s.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler. Expects a JSON string.
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, data)
	}
	return s.UnmarshalText([]byte(str))
}

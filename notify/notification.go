package notify

import (
	"fmt"
	"time"
)

// Notification is the outward record handed to the hosting
// application's notification store for display and persistence.
type Notification struct {
	Kind      Kind      `json:"kind"`
	Priority  Priority  `json:"priority"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	TaskID    string    `json:"task_id,omitempty"`
	Link      string    `json:"link,omitempty"` // deep link into the hosting app.
	CreatedAt time.Time `json:"created_at"`
}

// Build turns a detected opportunity into a displayable notification.
func Build(op Opportunity, now time.Time) Notification {
	n := Notification{
		Kind:      op.Kind,
		Priority:  priorityFor(op.Kind),
		TaskID:    op.Task.ID,
		Link:      "task/" + op.Task.ID,
		CreatedAt: now,
	}
	switch op.Kind {
	case ProductiveHour:
		n.Title = "Good time to focus"
		n.Message = fmt.Sprintf("%s: %s.", op.Task.Title, op.Reason)
	case EnergyMatch:
		n.Title = "This one fits right now"
		n.Message = fmt.Sprintf("%s %s.", op.Task.Title, op.Reason)
	case DeadlineApproaching:
		n.Title = "Deadline coming up"
		n.Message = fmt.Sprintf("%s is %s.", op.Task.Title, op.Reason)
	}
	return n
}

// priorityFor maps opportunity kinds onto notification priorities:
// deadlines alert at high priority, the rest nudge.
func priorityFor(k Kind) Priority {
	if k == DeadlineApproaching {
		return HighPriority
	}
	return Motivational
}

// Package notify decides whether and when proactive task notifications
// are worth sending.
//
// It provides two main capabilities:
//
//   - [Gatekeeper.ShouldSend] applies the throttling policy: quiet
//     hours, productive-hour windows, per-priority minimum gaps,
//     engagement-based fatigue, per-task response history, and an
//     hourly frequency cap. Policy rejection is a [Decision] value,
//     never an error.
//
//   - [Gatekeeper.DetectOpportunities] scans the active task list for
//     moments worth surfacing: a strong top-ranked task during a
//     productive hour, a task matching the current energy level, or an
//     approaching deadline.
//
// The gatekeeper's engagement state is an explicit two-state
// fatigue/recovery loop: three consecutive dismissals decay the
// engagement score, any positive response grows it back.
//
// # Usage
//
//	gk, err := notify.NewGatekeeper(notify.Config{})
//	ops := gk.DetectOpportunities(scorer, tasks, signals, time.Now())
//	for _, op := range ops {
//	    d := gk.ShouldSend(op.Task.ID, notify.Motivational, time.Now())
//	    if d.Allow {
//	        emit(notify.Build(op, time.Now()))
//	        gk.RecordSent(op.Task.ID, time.Now())
//	    }
//	}
package notify

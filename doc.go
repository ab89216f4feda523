// Package tempo implements an adaptive task-recommendation core for
// personal planning applications.
//
// tempo provides a behavioral signal model ([Tracker]), a six-component
// heuristic task scorer ([Scorer]) with context-sensitive weight profiles,
// and an online weight-adaptation loop driven by user responses. The
// tempo/notify subpackage gates proactive notifications behind fatigue and
// throttling policy, and tempo/schedule turns tasks into conflict-free
// time-blocked segments.
//
// Basic usage:
//
//	tr := tempo.NewTracker(tempo.Signals{})
//	tr.RecordCompletion(task, time.Now())
//
//	sc, err := tempo.NewScorer(tempo.ScorerConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if best, ok := sc.BestTask(tasks, tr.Snapshot(), time.Now()); ok {
//	    fmt.Println(best.Task.Title, best.Score.Overall)
//	}
package tempo

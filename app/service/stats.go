package service

import "sync/atomic"

// Stats counts dispatch outcomes across the worker's lifetime.
type Stats struct {
	processed        atomic.Int64
	noop             atomic.Int64
	sent             atomic.Int64
	skippedNoSender  atomic.Int64
	skippedDuplicate atomic.Int64
	failed           atomic.Int64
	deadLettered     atomic.Int64
}

// NewStats constructs a zeroed counter set.
func NewStats() *Stats {
	return &Stats{}
}

// Observe folds one dispatch result into the counters.
func (s *Stats) Observe(res Result) {
	if res.NoOp {
		s.noop.Add(1)
		return
	}
	s.processed.Add(1)
	for _, out := range res.Outcomes {
		switch out.Status {
		case StatusSent:
			s.sent.Add(1)
		case StatusFailed:
			s.failed.Add(1)
		case StatusSkipped:
			if out.Reason == ReasonAlreadySent {
				s.skippedDuplicate.Add(1)
			} else {
				s.skippedNoSender.Add(1)
			}
		}
	}
}

// MarkDeadLettered counts an event routed to the dead-letter stream.
func (s *Stats) MarkDeadLettered() {
	s.deadLettered.Add(1)
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() map[string]int64 {
	return map[string]int64{
		"processed":            s.processed.Load(),
		"no_op":                s.noop.Load(),
		"sent":                 s.sent.Load(),
		"skipped_no_sender":    s.skippedNoSender.Load(),
		"skipped_already_sent": s.skippedDuplicate.Load(),
		"failed":               s.failed.Load(),
		"dead_lettered":        s.deadLettered.Load(),
	}
}

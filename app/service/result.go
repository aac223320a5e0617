package service

type TargetStatus string

const (
	StatusSent    TargetStatus = "sent"
	StatusSkipped TargetStatus = "skipped"
	StatusFailed  TargetStatus = "failed"
)

// Skip reasons.
const (
	ReasonNoEligibleSender = "no-eligible-sender"
	ReasonAlreadySent      = "already-sent"
)

// TargetOutcome is the terminal state of one target address within one
// dispatch. Sender is set only for StatusSent, Reason for StatusSkipped,
// Err for StatusFailed.
type TargetOutcome struct {
	Target string
	Status TargetStatus
	Sender string
	Reason string
	Err    error
}

// Result reports a whole dispatch, outcomes in payload order. NoOp marks an
// event that was not a job vacancy.
type Result struct {
	NoOp     bool
	Outcomes []TargetOutcome
}

// AllSettled reports whether every target ended sent or skipped, which is
// the condition for acknowledging the event.
func (r Result) AllSettled() bool {
	for _, out := range r.Outcomes {
		if out.Status == StatusFailed {
			return false
		}
	}
	return true
}

func sent(target, sender string) TargetOutcome {
	return TargetOutcome{Target: target, Status: StatusSent, Sender: sender}
}

func skipped(target, reason string) TargetOutcome {
	return TargetOutcome{Target: target, Status: StatusSkipped, Reason: reason}
}

func failed(target string, err error) TargetOutcome {
	return TargetOutcome{Target: target, Status: StatusFailed, Err: err}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-autoapply/app/dto"
	"github.com/vibast-solutions/ms-go-autoapply/app/eligibility"
	"github.com/vibast-solutions/ms-go-autoapply/app/lock"
	"github.com/vibast-solutions/ms-go-autoapply/app/preparer"
	"github.com/vibast-solutions/ms-go-autoapply/app/provider"
	"github.com/vibast-solutions/ms-go-autoapply/app/repository"
)

// ErrPairContended marks a target whose every available sender was locked
// by a concurrent dispatch. Transient: queue redelivery retries once the
// competing dispatch has settled the ledger.
var ErrPairContended = errors.New("all available senders locked by concurrent dispatch")

// Ledger is the dedup store contract: any backend with atomic
// insert-if-absent semantics satisfies it.
type Ledger interface {
	Exists(ctx context.Context, senderEmail, targetEmail string) (bool, error)
	Insert(ctx context.Context, senderEmail, targetEmail string, sentAt time.Time) error
}

// pairLockTTL caps how long a crashed worker can hold a (sender, target)
// pair; it only needs to outlive one prepare+send.
const pairLockTTL = 2 * time.Minute

// Dispatcher coordinates one vacancy event: eligibility filtering, per-pair
// dedup, and the send itself, with per-target partial-failure isolation.
type Dispatcher struct {
	accounts AccountSource
	ledger   Ledger
	preparer preparer.EmailPreparer
	provider provider.EmailProvider
	locker   lock.Locker
	stats    *Stats
	log      *logrus.Logger

	// SendTimeout bounds a single transport call.
	SendTimeout time.Duration
}

// NewDispatcher builds the dispatch coordinator with its dependencies.
func NewDispatcher(accounts AccountSource, ledger Ledger, prep preparer.EmailPreparer, prov provider.EmailProvider, locker lock.Locker, stats *Stats, log *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		accounts:    accounts,
		ledger:      ledger,
		preparer:    prep,
		provider:    prov,
		locker:      locker,
		stats:       stats,
		log:         log,
		SendTimeout: 8 * time.Second,
	}
}

// Dispatch processes one decoded event and returns per-target outcomes in
// payload order. Targets run concurrently; a failure on one never aborts
// the others. The returned error is reserved for event-level problems
// (validation, account pool unavailable).
func (d *Dispatcher) Dispatch(ctx context.Context, event dto.VacancyEvent) (Result, error) {
	if !event.IsJobVacancy {
		res := Result{NoOp: true}
		d.stats.Observe(res)
		return res, nil
	}
	if err := event.Validate(); err != nil {
		return Result{}, err
	}

	pool, err := d.accounts.Snapshot(ctx)
	if err != nil {
		return Result{}, err
	}
	eligible := eligibility.Filter(event.Position, event.Gender(), pool)

	d.logEvent(ctx).WithFields(logrus.Fields{
		"position": event.Position,
		"targets":  len(event.TargetEmails),
		"eligible": len(eligible),
	}).Info("dispatching vacancy event")

	outcomes := make([]TargetOutcome, len(event.TargetEmails))
	var wg sync.WaitGroup
	for i, target := range event.TargetEmails {
		wg.Add(1)
		go func(i int, target string) {
			defer wg.Done()
			outcomes[i] = d.dispatchTarget(ctx, event, eligible, target)
		}(i, target)
	}
	wg.Wait()

	res := Result{Outcomes: outcomes}
	d.stats.Observe(res)
	return res, nil
}

// dispatchTarget walks the eligible senders in filter order and sends from
// the first one that has never emailed this target.
func (d *Dispatcher) dispatchTarget(ctx context.Context, event dto.VacancyEvent, eligible []eligibility.Candidate, target string) TargetOutcome {
	if len(eligible) == 0 {
		return skipped(target, ReasonNoEligibleSender)
	}

	contended := false
	for _, cand := range eligible {
		sender := cand.Account.Email

		already, err := d.ledger.Exists(ctx, sender, target)
		if err != nil {
			return failed(target, fmt.Errorf("dedup check: %w", err))
		}
		if already {
			continue
		}

		key := lock.PairKey(sender, target)
		if err := d.locker.Acquire(ctx, key, pairLockTTL); err != nil {
			if errors.Is(err, lock.ErrNotAcquired) || errors.Is(err, lock.ErrAlreadyHeld) {
				contended = true
				continue
			}
			return failed(target, fmt.Errorf("acquire pair lock: %w", err))
		}

		outcome, attempted := d.attemptSend(ctx, event, cand, target)
		_ = d.locker.Release(context.Background(), key)
		if attempted {
			return outcome
		}
		// Pair was settled by another worker between check and lock.
	}

	if contended {
		return failed(target, ErrPairContended)
	}
	return skipped(target, ReasonAlreadySent)
}

// attemptSend runs the critical section under the pair lock. The second
// return value is false when the ledger already had the pair and the walk
// should continue with the next sender.
func (d *Dispatcher) attemptSend(ctx context.Context, event dto.VacancyEvent, cand eligibility.Candidate, target string) (TargetOutcome, bool) {
	sender := cand.Account.Email

	already, err := d.ledger.Exists(ctx, sender, target)
	if err != nil {
		return failed(target, fmt.Errorf("dedup recheck: %w", err)), true
	}
	if already {
		return TargetOutcome{}, false
	}

	raw, err := d.preparer.Prepare(ctx, preparer.Application{
		SenderEmail:     sender,
		SenderName:      cand.Profile.Name,
		SenderUsername:  cand.Profile.Username,
		SenderPhone:     cand.Profile.Phone,
		Target:          target,
		Position:        event.Position,
		SubjectOverride: event.SubjectOverride,
	})
	if err != nil {
		return failed(target, fmt.Errorf("prepare email: %w", err)), true
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.SendTimeout)
	defer cancel()

	from := provider.Identity{Email: sender, AppPassword: cand.Account.AppPassword}
	if err := d.provider.SendRaw(sendCtx, from, []string{target}, raw); err != nil {
		d.logEvent(ctx).WithFields(logrus.Fields{
			"sender": sender,
			"target": target,
		}).WithError(err).Warn("transport send failed")
		return failed(target, err), true
	}

	if err := d.ledger.Insert(ctx, sender, target, time.Now()); err != nil && !errors.Is(err, repository.ErrAlreadySent) {
		// The mail went out but the ledger does not know. Redelivery may
		// now double-send this pair, so this goes to the alert channel.
		d.logEvent(ctx).WithFields(logrus.Fields{
			"alert":  "duplicate_send_risk",
			"sender": sender,
			"target": target,
		}).WithError(err).Error("sent-log write failed after successful send")
	}

	d.logEvent(ctx).WithFields(logrus.Fields{
		"sender":   sender,
		"target":   target,
		"position": event.Position,
	}).Info("application email sent")
	return sent(target, sender), true
}

func (d *Dispatcher) logEvent(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(d.log)
	if eventID, ok := EventIDFromContext(ctx); ok && eventID != "" {
		entry = entry.WithField("event_id", eventID)
	}
	return entry
}

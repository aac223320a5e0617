package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-autoapply/app/eligibility"
	"github.com/vibast-solutions/ms-go-autoapply/app/repository"
)

// AccountSource supplies the compiled candidate pool for a dispatch. The
// dispatcher depends on this rather than on the cache so tests can inject a
// fixed snapshot.
type AccountSource interface {
	Snapshot(ctx context.Context) ([]eligibility.Candidate, error)
}

// AccountCache is a read-mostly TTL snapshot of the active account pool
// with block rules compiled once per refresh.
type AccountCache struct {
	repo *repository.AccountRepository
	ttl  time.Duration
	log  *logrus.Logger

	mu      sync.Mutex
	fetched time.Time
	pool    []eligibility.Candidate
}

// NewAccountCache constructs a cache over the account repository.
func NewAccountCache(repo *repository.AccountRepository, ttl time.Duration, log *logrus.Logger) *AccountCache {
	return &AccountCache{repo: repo, ttl: ttl, log: log}
}

// Snapshot returns the cached pool, refreshing it once the TTL has lapsed.
// When a refresh fails and a previous snapshot exists, the stale pool is
// served so a transient store outage does not stall dispatching.
func (c *AccountCache) Snapshot(ctx context.Context) ([]eligibility.Candidate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pool != nil && time.Since(c.fetched) < c.ttl {
		return c.pool, nil
	}

	records, err := c.repo.ListActiveComplete(ctx)
	if err != nil {
		if c.pool != nil {
			c.log.WithError(err).Warn("account pool refresh failed, serving stale snapshot")
			return c.pool, nil
		}
		return nil, fmt.Errorf("load account pool: %w", err)
	}

	c.pool = eligibility.CompileAll(records, c.log)
	c.fetched = time.Now()
	return c.pool, nil
}

// Invalidate forces the next Snapshot to reload.
func (c *AccountCache) Invalidate() {
	c.mu.Lock()
	c.pool = nil
	c.mu.Unlock()
}

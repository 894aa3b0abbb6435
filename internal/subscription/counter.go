package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Counter owns the in-memory record and writes it back to the store after
// every mutation. A failed write leaves the in-memory mutation in place and
// is reported to the caller; there is no rollback.
type Counter struct {
	store  Store
	clock  func() time.Time
	status Status
}

// CounterOption customizes Counter construction.
type CounterOption func(*Counter)

// WithClock lets tests control subscription and expiry timestamps.
func WithClock(clock func() time.Time) CounterOption {
	return func(c *Counter) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// Open loads the record from store. A missing record becomes the trial
// allowance, and a lapsed premium record is expired; either case is
// persisted immediately.
func Open(ctx context.Context, store Store, opts ...CounterOption) (*Counter, error) {
	if store == nil {
		return nil, fmt.Errorf("subscription: store is required")
	}
	c := &Counter{store: store, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	status, err := store.Load(ctx)
	dirty := false
	switch {
	case errors.Is(err, ErrNotFound):
		status = Trial()
		dirty = true
	case err != nil:
		return nil, err
	}
	if status.Expire(c.clock()) {
		dirty = true
	}
	c.status = status
	if dirty {
		if err := c.persist(ctx); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Status returns a copy of the current record.
func (c *Counter) Status() Status {
	out := c.status
	if out.ExpiresAt != nil {
		ts := *out.ExpiresAt
		out.ExpiresAt = &ts
	}
	return out
}

// CanGrade reports whether another essay may be graded.
func (c *Counter) CanGrade() bool {
	return c.status.CanGrade()
}

// ConsumeOne records a successful grading and persists the record.
func (c *Counter) ConsumeOne(ctx context.Context) error {
	c.status.ConsumeOne()
	return c.persist(ctx)
}

// Subscribe starts a fresh yearly allowance and persists the record.
func (c *Counter) Subscribe(ctx context.Context) error {
	c.status.Subscribe(c.clock())
	return c.persist(ctx)
}

// Refresh applies expiry against the current time, persisting on change.
func (c *Counter) Refresh(ctx context.Context) (bool, error) {
	if !c.status.Expire(c.clock()) {
		return false, nil
	}
	return true, c.persist(ctx)
}

func (c *Counter) persist(ctx context.Context) error {
	if err := c.store.Save(ctx, c.status); err != nil {
		return fmt.Errorf("subscription: persist: %w", err)
	}
	return nil
}

// Migrate copies the record from one store to another. A missing source
// record is not an error; nothing is written in that case.
func Migrate(ctx context.Context, from, to Store) (bool, error) {
	status, err := from.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := to.Save(ctx, status); err != nil {
		return false, err
	}
	return true, nil
}

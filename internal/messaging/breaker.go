package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"venuehub/internal/config"
)

func newBreaker(name string, cfg config.BreakerConfig, logger *zap.Logger) *gobreaker.CircuitBreaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxFailures := uint32(cfg.MaxFailures)
	if maxFailures == 0 {
		maxFailures = 5
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Duration(cfg.IntervalSec) * time.Second,
		Timeout:     time.Duration(cfg.TimeoutSec) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			// caller mistakes and abandoned requests say nothing about the upstream
			return err == nil ||
				errors.Is(err, ErrInvalidArgument) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

func breakerErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	return err
}

// GuardedStore fails fast with ErrUpstreamUnavailable while the wrapped
// store keeps failing.
type GuardedStore struct {
	next MessageStore
	cb   *gobreaker.CircuitBreaker
}

func NewGuardedStore(next MessageStore, cfg config.BreakerConfig, logger *zap.Logger) *GuardedStore {
	return &GuardedStore{next: next, cb: newBreaker("message-store", cfg, logger)}
}

func (g *GuardedStore) FetchReceived(ctx context.Context, viewerID string) ([]Message, error) {
	out, err := g.cb.Execute(func() (interface{}, error) {
		return g.next.FetchReceived(ctx, viewerID)
	})
	if err != nil {
		return nil, breakerErr(err)
	}
	return out.([]Message), nil
}

func (g *GuardedStore) FetchAllInvolving(ctx context.Context, viewerID string) ([]Message, error) {
	out, err := g.cb.Execute(func() (interface{}, error) {
		return g.next.FetchAllInvolving(ctx, viewerID)
	})
	if err != nil {
		return nil, breakerErr(err)
	}
	return out.([]Message), nil
}

func (g *GuardedStore) Insert(ctx context.Context, senderID, receiverID, content string) (Message, error) {
	out, err := g.cb.Execute(func() (interface{}, error) {
		return g.next.Insert(ctx, senderID, receiverID, content)
	})
	if err != nil {
		return Message{}, breakerErr(err)
	}
	return out.(Message), nil
}

func (g *GuardedStore) MarkRead(ctx context.Context, ids []string, at time.Time) (int, error) {
	out, err := g.cb.Execute(func() (interface{}, error) {
		return g.next.MarkRead(ctx, ids, at)
	})
	if err != nil {
		return 0, breakerErr(err)
	}
	return out.(int), nil
}

// GuardedDirectory is the ProfileDirectory counterpart of GuardedStore.
type GuardedDirectory struct {
	next ProfileDirectory
	cb   *gobreaker.CircuitBreaker
}

func NewGuardedDirectory(next ProfileDirectory, cfg config.BreakerConfig, logger *zap.Logger) *GuardedDirectory {
	return &GuardedDirectory{next: next, cb: newBreaker("profile-directory", cfg, logger)}
}

type lookupResult struct {
	name string
	ok   bool
}

func (g *GuardedDirectory) LookupDisplayName(ctx context.Context, userID string) (string, bool, error) {
	out, err := g.cb.Execute(func() (interface{}, error) {
		name, ok, err := g.next.LookupDisplayName(ctx, userID)
		return lookupResult{name: name, ok: ok}, err
	})
	if err != nil {
		return "", false, breakerErr(err)
	}
	res := out.(lookupResult)
	return res.name, res.ok, nil
}

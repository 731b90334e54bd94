package messaging

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultFallbackName      = "Unknown User"
	defaultLookupConcurrency = 8
)

// Aggregator turns a viewer's flat message log into one Conversation per
// counterparty. It holds no per-call state and is safe for concurrent use.
type Aggregator struct {
	directory   ProfileDirectory
	log         *zap.Logger
	fallback    string
	concurrency int
}

type AggregatorOption func(*Aggregator)

// WithFallbackName sets the label used when a display name cannot be resolved.
func WithFallbackName(name string) AggregatorOption {
	return func(a *Aggregator) {
		if name != "" {
			a.fallback = name
		}
	}
}

// WithLookupConcurrency bounds concurrent profile lookups per pass.
func WithLookupConcurrency(n int) AggregatorOption {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

func NewAggregator(directory ProfileDirectory, logger *zap.Logger, opts ...AggregatorOption) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Aggregator{
		directory:   directory,
		log:         logger,
		fallback:    DefaultFallbackName,
		concurrency: defaultLookupConcurrency,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate collapses messages into conversations ordered by latest activity,
// resolves display names and then applies opts. messages is not modified.
//
// Which messages are passed in decides the product view: received messages
// only give the inbox, sent and received give the thread list.
func (a *Aggregator) Aggregate(ctx context.Context, messages []Message, viewerID string, opts Options) ([]Conversation, error) {
	viewerID, err := requireViewer(viewerID)
	if err != nil {
		return nil, err
	}

	conversations := Collapse(messages, viewerID, a.log)
	a.resolveNames(ctx, conversations)
	return Filter(conversations, opts), nil
}

// Collapse keeps, for every counterparty, the most recent message exchanged
// with viewerID. Malformed rows are logged and skipped.
func Collapse(messages []Message, viewerID string, logger *zap.Logger) []Conversation {
	if logger == nil {
		logger = zap.NewNop()
	}

	valid := make([]Message, 0, len(messages))
	for _, m := range messages {
		if reason := m.defect(viewerID); reason != "" {
			logger.Warn("skipping malformed message",
				zap.String("message_id", m.ID),
				zap.String("viewer_id", viewerID),
				zap.String("reason", reason),
			)
			continue
		}
		valid = append(valid, m)
	}
	SortByRecency(valid)

	index := make(map[string]int)
	conversations := make([]Conversation, 0)
	for _, m := range valid {
		counterparty := m.Counterparty(viewerID)
		unread := m.IsUnreadFor(viewerID)

		if i, seen := index[counterparty]; seen {
			if unread {
				conversations[i].UnreadCount++
			}
			continue
		}

		index[counterparty] = len(conversations)
		c := Conversation{
			CounterpartyID: counterparty,
			LastMessage:    m,
			Unread:         unread,
		}
		if unread {
			c.UnreadCount = 1
		}
		conversations = append(conversations, c)
	}
	return conversations
}

// Filter applies the unread-only filter and then the keyword filter.
func Filter(conversations []Conversation, opts Options) []Conversation {
	keyword := strings.ToLower(strings.TrimSpace(opts.Keyword))

	out := make([]Conversation, 0, len(conversations))
	for _, c := range conversations {
		if opts.UnreadOnly && !c.Unread {
			continue
		}
		if keyword != "" && !c.matches(keyword) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// SortByRecency orders messages newest first; equal timestamps fall back to
// descending id so the order is stable across calls.
func SortByRecency(messages []Message) {
	slices.SortFunc(messages, func(a, b Message) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
}

func (a *Aggregator) resolveNames(ctx context.Context, conversations []Conversation) {
	if a.directory == nil {
		for i := range conversations {
			conversations[i].DisplayName = a.fallback
		}
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i := range conversations {
		g.Go(func() error {
			conversations[i].DisplayName = a.lookup(gctx, conversations[i].CounterpartyID)
			return nil
		})
	}
	_ = g.Wait()
}

func (a *Aggregator) lookup(ctx context.Context, userID string) string {
	name, ok, err := a.directory.LookupDisplayName(ctx, userID)
	if err != nil {
		a.log.Warn("display name lookup failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return a.fallback
	}
	if !ok || strings.TrimSpace(name) == "" {
		return a.fallback
	}
	return name
}

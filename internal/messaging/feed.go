package messaging

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Query identifies one conversation listing request.
type Query struct {
	ViewerID string
	Mode     Mode
	Options  Options
}

// Signature is equal for queries that produce the same listing.
func (q Query) Signature() string {
	mode := q.Mode
	if mode == "" {
		mode = InboxMode
	}
	return fmt.Sprintf("%s|%s|%t|%s",
		q.ViewerID,
		mode,
		q.Options.UnreadOnly,
		strings.ToLower(strings.TrimSpace(q.Options.Keyword)),
	)
}

// Snapshot is the result of the most recent committed load.
type Snapshot struct {
	Seq           uint64
	Signature     string
	Conversations []Conversation
	Err           error
}

type LoadFunc func(ctx context.Context, q Query) ([]Conversation, error)

// Feed serialises conversation loads for one screen. Every Load supersedes
// the ones before it: the older load's context is cancelled and its result,
// if it still arrives, is discarded.
type Feed struct {
	load LoadFunc

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	current Snapshot
}

func NewFeed(load LoadFunc) *Feed {
	return &Feed{load: load}
}

// NewServiceFeed builds a Feed that loads through svc.
func NewServiceFeed(svc *Service) *Feed {
	return NewFeed(func(ctx context.Context, q Query) ([]Conversation, error) {
		return svc.Conversations(ctx, q.ViewerID, q.Mode, q.Options)
	})
}

// Load runs q and commits its result unless a newer Load started meanwhile.
// The returned bool reports whether this call's result was committed; the
// snapshot is always the latest committed one. A failed load keeps the
// previously committed conversations and their signature next to the error.
func (f *Feed) Load(ctx context.Context, q Query) (Snapshot, bool) {
	f.mu.Lock()
	f.seq++
	seq := f.seq
	if f.cancel != nil {
		f.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.mu.Unlock()

	conversations, err := f.load(ctx, q)

	f.mu.Lock()
	defer f.mu.Unlock()
	if seq != f.seq {
		return f.current, false
	}
	f.cancel = nil
	cancel()

	next := Snapshot{
		Seq:           seq,
		Signature:     q.Signature(),
		Conversations: conversations,
		Err:           err,
	}
	if err != nil {
		next.Signature = f.current.Signature
		next.Conversations = f.current.Conversations
	}
	f.current = next
	return f.current, true
}

// Current returns the latest committed snapshot.
func (f *Feed) Current() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

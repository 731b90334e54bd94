package messaging

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is a MessageStore kept in process memory. It backs local runs
// and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	messages []Message
	now      func() time.Time
}

func NewMemoryStore(seed ...Message) *MemoryStore {
	return &MemoryStore{
		messages: append([]Message(nil), seed...),
		now:      time.Now,
	}
}

func (s *MemoryStore) FetchReceived(ctx context.Context, viewerID string) ([]Message, error) {
	return s.filter(ctx, func(m Message) bool { return m.ReceiverID == viewerID })
}

func (s *MemoryStore) FetchAllInvolving(ctx context.Context, viewerID string) ([]Message, error) {
	return s.filter(ctx, func(m Message) bool {
		return m.SenderID == viewerID || m.ReceiverID == viewerID
	})
}

func (s *MemoryStore) Insert(ctx context.Context, senderID, receiverID, content string) (Message, error) {
	if err := ctx.Err(); err != nil {
		return Message{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	msg := Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		CreatedAt:  s.now().UTC(),
	}
	s.messages = append(s.messages, msg)
	return msg, nil
}

func (s *MemoryStore) MarkRead(ctx context.Context, ids []string, at time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for i := range s.messages {
		m := &s.messages[i]
		if _, ok := wanted[m.ID]; !ok || m.ReadAt != nil {
			continue
		}
		readAt := at
		m.ReadAt = &readAt
		count++
	}
	return count, nil
}

// Messages returns a copy of every stored message in insertion order.
func (s *MemoryStore) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Message(nil), s.messages...)
}

func (s *MemoryStore) filter(ctx context.Context, keep func(Message) bool) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Message
	for _, m := range s.messages {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out, nil
}

package messaging

import (
	"context"
	"time"
)

// MessageStore is the persistent source of message rows.
type MessageStore interface {
	// FetchReceived returns every message whose receiver is viewerID.
	FetchReceived(ctx context.Context, viewerID string) ([]Message, error)
	// FetchAllInvolving returns every message viewerID sent or received.
	FetchAllInvolving(ctx context.Context, viewerID string) ([]Message, error)
	Insert(ctx context.Context, senderID, receiverID, content string) (Message, error)
	// MarkRead sets read_at on the given messages that are still unread and
	// returns how many rows changed.
	MarkRead(ctx context.Context, ids []string, at time.Time) (int, error)
}

// ProfileDirectory resolves display names. ok is false when no profile exists.
type ProfileDirectory interface {
	LookupDisplayName(ctx context.Context, userID string) (name string, ok bool, err error)
}

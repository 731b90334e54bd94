package messaging

import (
	"fmt"
	"strings"
	"time"
)

// Message is one directed, append-only communication between two users.
type Message struct {
	ID         string     `json:"id"`
	SenderID   string     `json:"sender_id"`
	ReceiverID string     `json:"receiver_id"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
}

// Counterparty returns the participant that is not viewerID.
func (m Message) Counterparty(viewerID string) string {
	if m.SenderID == viewerID {
		return m.ReceiverID
	}
	return m.SenderID
}

// IsUnreadFor reports whether viewerID received m and has not read it.
func (m Message) IsUnreadFor(viewerID string) bool {
	return m.ReceiverID == viewerID && m.ReadAt == nil
}

// defect returns why m cannot take part in viewerID's conversations, or "".
func (m Message) defect(viewerID string) string {
	switch {
	case m.SenderID == "":
		return "missing sender"
	case m.ReceiverID == "":
		return "missing receiver"
	case m.CreatedAt.IsZero():
		return "missing created_at"
	case m.SenderID == m.ReceiverID:
		return "sender and receiver are the same user"
	case m.SenderID != viewerID && m.ReceiverID != viewerID:
		return "viewer is not a participant"
	}
	return ""
}

// Conversation summarises the thread between the viewer and one counterparty.
type Conversation struct {
	CounterpartyID string  `json:"counterparty_id"`
	DisplayName    string  `json:"display_name"`
	LastMessage    Message `json:"last_message"`
	Unread         bool    `json:"unread"`
	UnreadCount    int     `json:"unread_count"`
}

func (c Conversation) matches(keyword string) bool {
	return strings.Contains(strings.ToLower(c.DisplayName), keyword) ||
		strings.Contains(strings.ToLower(c.LastMessage.Content), keyword)
}

// Mode selects which messages feed an aggregation pass.
type Mode string

const (
	// InboxMode aggregates only the messages the viewer received.
	InboxMode Mode = "inbox"
	// ThreadListMode aggregates every message the viewer sent or received.
	ThreadListMode Mode = "threads"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", InboxMode:
		return InboxMode, nil
	case ThreadListMode:
		return ThreadListMode, nil
	}
	return "", invalidArgument(fmt.Errorf("unknown conversation mode %q", s))
}

// Options narrows an aggregation result.
type Options struct {
	UnreadOnly bool
	Keyword    string
}

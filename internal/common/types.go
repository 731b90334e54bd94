package common

import (
	"time"
)

type MessageEventType string

const (
	MessageSentEvent MessageEventType = "message.sent"
	ThreadReadEvent  MessageEventType = "thread.read"
)

// MessageEvent describes a mutation performed by the conversation service.
// For ThreadReadEvent, SenderID is the counterparty whose messages were read
// and Count the number of rows updated.
type MessageEvent struct {
	Type       MessageEventType `json:"type"`
	MessageID  string           `json:"message_id,omitempty"`
	SenderID   string           `json:"sender_id"`
	ReceiverID string           `json:"receiver_id"`
	Preview    string           `json:"preview,omitempty"`
	Count      int              `json:"count,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// Key is used to partition events so one thread's events stay ordered.
func (e MessageEvent) Key() string {
	if e.SenderID < e.ReceiverID {
		return e.SenderID + ":" + e.ReceiverID
	}
	return e.ReceiverID + ":" + e.SenderID
}

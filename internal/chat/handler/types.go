package handler

import (
	"venuehub/internal/messaging"
)

type ListConversationsRequest struct {
	Mode       string `json:"mode"`
	UnreadOnly bool   `json:"unread_only"`
	Keyword    string `json:"keyword"`
}

type ListConversationsResponse struct {
	Conversations []messaging.Conversation `json:"conversations"`
}

type GetThreadRequest struct {
	CounterpartyID string `json:"counterparty_id"`
}

type GetThreadResponse struct {
	Messages []messaging.Message `json:"messages"`
}

type MarkThreadReadRequest struct {
	CounterpartyID string `json:"counterparty_id"`
}

type MarkThreadReadResponse struct {
	Updated int `json:"updated"`
}

type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}

type SendMessageResponse struct {
	Message messaging.Message `json:"message"`
}

// SendAdminMessageRequest leaves AdminID empty to reach the default
// back-office account.
type SendAdminMessageRequest struct {
	AdminID string `json:"admin_id,omitempty"`
	Content string `json:"content"`
}

type GetUnreadCountRequest struct{}

type GetUnreadCountResponse struct {
	Count int `json:"count"`
}

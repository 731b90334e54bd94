// Package handler exposes the conversation service over gRPC and HTTP.
package handler

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"

	"venuehub/internal/messaging"
)

//go:generate mockgen -destination=mocks/mock_conversation_service.go -package=mocks venuehub/internal/chat/handler ConversationService

// ConversationService is implemented by *messaging.Service.
type ConversationService interface {
	Conversations(ctx context.Context, viewerID string, mode messaging.Mode, opts messaging.Options) ([]messaging.Conversation, error)
	Thread(ctx context.Context, viewerID, counterpartyID string) ([]messaging.Message, error)
	MarkThreadRead(ctx context.Context, viewerID, counterpartyID string) (int, error)
	Send(ctx context.Context, viewerID, receiverID, content string) (messaging.Message, error)
	SendAdminMessage(ctx context.Context, viewerID, adminID, content string) (messaging.Message, error)
	UnreadCount(ctx context.Context, viewerID string) (int, error)
}

var _ ConversationService = (*messaging.Service)(nil)

// classify maps service errors onto a gRPC code and an HTTP status.
func classify(err error) (codes.Code, int) {
	switch {
	case errors.Is(err, messaging.ErrMissingViewer):
		return codes.Unauthenticated, http.StatusUnauthorized
	case errors.Is(err, messaging.ErrInvalidArgument):
		return codes.InvalidArgument, http.StatusBadRequest
	case errors.Is(err, messaging.ErrUpstreamUnavailable):
		return codes.Unavailable, http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded, http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return codes.Canceled, 499
	}
	return codes.Internal, http.StatusInternalServerError
}

package messaging

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"venuehub/internal/common"
)

const previewLength = 80

var errMessageSelf = errors.New("cannot send a message to yourself")

// EventPublisher receives mutations performed by the Service.
type EventPublisher interface {
	NotifyAsync(event common.MessageEvent)
}

// Service exposes the conversation operations on top of a MessageStore.
// The viewer is always an explicit argument.
type Service struct {
	store      MessageStore
	aggregator *Aggregator
	events     EventPublisher
	adminID    string
	log        *zap.Logger
	now        func() time.Time
}

// NewService wires the service. events may be nil.
func NewService(store MessageStore, aggregator *Aggregator, events EventPublisher, adminID string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:      store,
		aggregator: aggregator,
		events:     events,
		adminID:    adminID,
		log:        logger,
		now:        time.Now,
	}
}

// Conversations loads the viewer's messages for mode and aggregates them.
func (s *Service) Conversations(ctx context.Context, viewerID string, mode Mode, opts Options) ([]Conversation, error) {
	viewerID, err := requireViewer(viewerID)
	if err != nil {
		return nil, err
	}

	var messages []Message
	switch mode {
	case InboxMode, "":
		messages, err = s.store.FetchReceived(ctx, viewerID)
	case ThreadListMode:
		messages, err = s.store.FetchAllInvolving(ctx, viewerID)
	default:
		return nil, invalidArgument(fmt.Errorf("unknown conversation mode %q", mode))
	}
	if err != nil {
		s.log.Error("failed to fetch messages",
			zap.String("viewer_id", viewerID),
			zap.String("mode", string(mode)),
			zap.Error(err),
		)
		return nil, upstream("could not load conversations", err)
	}

	return s.aggregator.Aggregate(ctx, messages, viewerID, opts)
}

// Inbox lists conversations started by messages the viewer received.
func (s *Service) Inbox(ctx context.Context, viewerID string, opts Options) ([]Conversation, error) {
	return s.Conversations(ctx, viewerID, InboxMode, opts)
}

// Threads lists every counterparty the viewer exchanged messages with.
func (s *Service) Threads(ctx context.Context, viewerID string, opts Options) ([]Conversation, error) {
	return s.Conversations(ctx, viewerID, ThreadListMode, opts)
}

// Thread returns the whole history between the viewer and counterpartyID,
// oldest first.
func (s *Service) Thread(ctx context.Context, viewerID, counterpartyID string) ([]Message, error) {
	viewerID, err := requireViewer(viewerID)
	if err != nil {
		return nil, err
	}
	counterpartyID = strings.TrimSpace(counterpartyID)
	if counterpartyID == "" {
		return nil, invalidArgument(errMissingCounterparty)
	}

	messages, err := s.store.FetchAllInvolving(ctx, viewerID)
	if err != nil {
		return nil, upstream("could not load thread", err)
	}

	thread := make([]Message, 0)
	for _, m := range messages {
		if reason := m.defect(viewerID); reason != "" {
			s.log.Warn("skipping malformed message",
				zap.String("message_id", m.ID),
				zap.String("reason", reason),
			)
			continue
		}
		if m.Counterparty(viewerID) == counterpartyID {
			thread = append(thread, m)
		}
	}
	SortByRecency(thread)
	slices.Reverse(thread)
	return thread, nil
}

// MarkThreadRead marks everything counterpartyID sent to the viewer as read
// and returns how many messages changed.
func (s *Service) MarkThreadRead(ctx context.Context, viewerID, counterpartyID string) (int, error) {
	viewerID, err := requireViewer(viewerID)
	if err != nil {
		return 0, err
	}
	counterpartyID = strings.TrimSpace(counterpartyID)
	if counterpartyID == "" {
		return 0, invalidArgument(errMissingCounterparty)
	}

	received, err := s.store.FetchReceived(ctx, viewerID)
	if err != nil {
		return 0, upstream("could not load thread", err)
	}

	ids := UnreadFrom(received, viewerID, counterpartyID)
	if len(ids) == 0 {
		return 0, nil
	}

	now := s.now().UTC()
	count, err := s.store.MarkRead(ctx, ids, now)
	if err != nil {
		return 0, upstream("could not mark thread read", err)
	}

	if count > 0 {
		s.publish(common.MessageEvent{
			Type:       common.ThreadReadEvent,
			SenderID:   counterpartyID,
			ReceiverID: viewerID,
			Count:      count,
			OccurredAt: now,
		})
	}
	return count, nil
}

// Send stores a new message from the viewer to receiverID.
func (s *Service) Send(ctx context.Context, viewerID, receiverID, content string) (Message, error) {
	viewerID, err := requireViewer(viewerID)
	if err != nil {
		return Message{}, err
	}
	if err := common.ValidateUserID(receiverID); err != nil {
		return Message{}, invalidArgument(err)
	}
	receiverID = strings.TrimSpace(receiverID)
	if receiverID == viewerID {
		return Message{}, invalidArgument(errMessageSelf)
	}
	body, err := common.NormalizeContent(content)
	if err != nil {
		return Message{}, invalidArgument(err)
	}

	msg, err := s.store.Insert(ctx, viewerID, receiverID, body)
	if err != nil {
		s.log.Error("failed to insert message",
			zap.String("sender_id", viewerID),
			zap.String("receiver_id", receiverID),
			zap.Error(err),
		)
		return Message{}, upstream("could not send message", err)
	}

	s.publish(common.MessageEvent{
		Type:       common.MessageSentEvent,
		MessageID:  msg.ID,
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		Preview:    preview(msg.Content),
		OccurredAt: msg.CreatedAt,
	})
	return msg, nil
}

// SendAdminMessage sends content to the back-office account. An empty
// adminID falls back to the configured one.
func (s *Service) SendAdminMessage(ctx context.Context, viewerID, adminID, content string) (Message, error) {
	if strings.TrimSpace(adminID) == "" {
		adminID = s.adminID
	}
	return s.Send(ctx, viewerID, adminID, content)
}

// UnreadCount returns how many received messages the viewer has not read.
func (s *Service) UnreadCount(ctx context.Context, viewerID string) (int, error) {
	viewerID, err := requireViewer(viewerID)
	if err != nil {
		return 0, err
	}

	received, err := s.store.FetchReceived(ctx, viewerID)
	if err != nil {
		return 0, upstream("could not load unread count", err)
	}

	count := 0
	for _, m := range received {
		if m.defect(viewerID) == "" && m.IsUnreadFor(viewerID) {
			count++
		}
	}
	return count, nil
}

// requireViewer trims viewerID and rejects a blank one.
func requireViewer(viewerID string) (string, error) {
	viewerID = strings.TrimSpace(viewerID)
	if viewerID == "" {
		return "", ErrMissingViewer
	}
	return viewerID, nil
}

func (s *Service) publish(event common.MessageEvent) {
	if s.events == nil {
		return
	}
	s.events.NotifyAsync(event)
}

func preview(content string) string {
	content = strings.TrimSpace(content)
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + "…"
}

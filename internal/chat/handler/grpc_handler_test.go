package handler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"venuehub/internal/chat/handler/mocks"
	"venuehub/internal/common"
	"venuehub/internal/messaging"
)

func viewerCtx(id string) context.Context {
	return common.WithViewer(context.Background(), id)
}

func sampleMessage(id, sender, receiver string) messaging.Message {
	return messaging.Message{
		ID:         id,
		SenderID:   sender,
		ReceiverID: receiver,
		Content:    "hello",
		CreatedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestGRPCHandler_ListConversations(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockSvc := mocks.NewMockConversationService(ctrl)
	h := NewGRPCHandler(mockSvc, nil)
	ctx := viewerCtx("V")

	tests := []struct {
		name    string
		req     *ListConversationsRequest
		setup   func()
		wantErr bool
		errCode codes.Code
	}{
		{
			name: "inbox by default",
			req:  &ListConversationsRequest{UnreadOnly: true, Keyword: "venue"},
			setup: func() {
				mockSvc.EXPECT().
					Conversations(ctx, "V", messaging.InboxMode, messaging.Options{UnreadOnly: true, Keyword: "venue"}).
					Return([]messaging.Conversation{{CounterpartyID: "A", DisplayName: "Alice", Unread: true}}, nil)
			},
		},
		{
			name: "thread list",
			req:  &ListConversationsRequest{Mode: "threads"},
			setup: func() {
				mockSvc.EXPECT().
					Conversations(ctx, "V", messaging.ThreadListMode, messaging.Options{}).
					Return([]messaging.Conversation{{CounterpartyID: "A"}}, nil)
			},
		},
		{
			name:    "unknown mode",
			req:     &ListConversationsRequest{Mode: "archive"},
			setup:   func() {},
			wantErr: true, errCode: codes.InvalidArgument,
		},
		{
			name: "store down",
			req:  &ListConversationsRequest{},
			setup: func() {
				mockSvc.EXPECT().
					Conversations(ctx, "V", messaging.InboxMode, messaging.Options{}).
					Return(nil, fmt.Errorf("could not load conversations: %w", messaging.ErrUpstreamUnavailable))
			},
			wantErr: true, errCode: codes.Unavailable,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setup()
			resp, err := h.ListConversations(ctx, tc.req)
			if tc.wantErr {
				require.Error(t, err)
				st, _ := status.FromError(err)
				require.Equal(t, tc.errCode, st.Code())
				require.Nil(t, resp)
				return
			}
			require.NoError(t, err)
			require.Len(t, resp.Conversations, 1)
			assert.Equal(t, "A", resp.Conversations[0].CounterpartyID)
		})
	}
}

func TestGRPCHandler_MissingViewerIsUnauthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockSvc := mocks.NewMockConversationService(ctrl)
	h := NewGRPCHandler(mockSvc, nil)
	ctx := context.Background()

	mockSvc.EXPECT().UnreadCount(ctx, "").Return(0, messaging.ErrMissingViewer)

	_, err := h.GetUnreadCount(ctx, &GetUnreadCountRequest{})

	st, _ := status.FromError(err)
	assert.Equal(t, codes.Unauthenticated, st.Code())
}

func TestGRPCHandler_MarkThreadRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockSvc := mocks.NewMockConversationService(ctrl)
	h := NewGRPCHandler(mockSvc, nil)
	ctx := viewerCtx("V")

	mockSvc.EXPECT().MarkThreadRead(ctx, "V", "A").Return(2, nil)

	resp, err := h.MarkThreadRead(ctx, &MarkThreadReadRequest{CounterpartyID: "A"})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Updated)
}

func TestGRPCHandler_SendMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockSvc := mocks.NewMockConversationService(ctrl)
	h := NewGRPCHandler(mockSvc, nil)
	ctx := viewerCtx("V")

	tests := []struct {
		name    string
		req     *SendMessageRequest
		setup   func()
		wantErr bool
		errCode codes.Code
	}{
		{
			name: "happy path",
			req:  &SendMessageRequest{ReceiverID: "A", Content: "hello"},
			setup: func() {
				mockSvc.EXPECT().Send(ctx, "V", "A", "hello").Return(sampleMessage("m1", "V", "A"), nil)
			},
		},
		{
			name: "empty content",
			req:  &SendMessageRequest{ReceiverID: "A"},
			setup: func() {
				mockSvc.EXPECT().Send(ctx, "V", "A", "").
					Return(messaging.Message{}, fmt.Errorf("%w: %w", messaging.ErrInvalidArgument, common.ErrEmptyContent))
			},
			wantErr: true, errCode: codes.InvalidArgument,
		},
		{
			name: "unexpected failure",
			req:  &SendMessageRequest{ReceiverID: "A", Content: "hello"},
			setup: func() {
				mockSvc.EXPECT().Send(ctx, "V", "A", "hello").Return(messaging.Message{}, errors.New("boom"))
			},
			wantErr: true, errCode: codes.Internal,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setup()
			resp, err := h.SendMessage(ctx, tc.req)
			if tc.wantErr {
				require.Error(t, err)
				st, _ := status.FromError(err)
				require.Equal(t, tc.errCode, st.Code())
				if tc.errCode == codes.Internal {
					assert.Equal(t, "internal error", st.Message())
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "m1", resp.Message.ID)
		})
	}
}

func TestGRPCHandler_SendAdminMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockSvc := mocks.NewMockConversationService(ctrl)
	h := NewGRPCHandler(mockSvc, nil)
	ctx := viewerCtx("V")

	mockSvc.EXPECT().SendAdminMessage(ctx, "V", "", "help").Return(sampleMessage("m2", "V", "admin"), nil)

	resp, err := h.SendAdminMessage(ctx, &SendAdminMessageRequest{Content: "help"})

	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Message.ReceiverID)
}

func TestGRPCHandler_GetThread(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockSvc := mocks.NewMockConversationService(ctrl)
	h := NewGRPCHandler(mockSvc, nil)
	ctx := viewerCtx("V")

	mockSvc.EXPECT().Thread(ctx, "V", "A").Return([]messaging.Message{sampleMessage("m1", "A", "V")}, nil)

	resp, err := h.GetThread(ctx, &GetThreadRequest{CounterpartyID: "A"})

	require.NoError(t, err)
	require.Len(t, resp.Messages, 1)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err      error
		wantCode codes.Code
		wantHTTP int
	}{
		{messaging.ErrMissingViewer, codes.Unauthenticated, 401},
		{fmt.Errorf("%w: bad", messaging.ErrInvalidArgument), codes.InvalidArgument, 400},
		{fmt.Errorf("x: %w", messaging.ErrUpstreamUnavailable), codes.Unavailable, 503},
		{context.DeadlineExceeded, codes.DeadlineExceeded, 504},
		{context.Canceled, codes.Canceled, 499},
		{errors.New("other"), codes.Internal, 500},
	}
	for _, tt := range tests {
		code, httpStatus := classify(tt.err)
		assert.Equal(t, tt.wantCode, code, tt.err.Error())
		assert.Equal(t, tt.wantHTTP, httpStatus, tt.err.Error())
	}
}

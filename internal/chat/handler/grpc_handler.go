package handler

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"venuehub/internal/common"
	"venuehub/internal/messaging"
)

const serviceName = "venuehub.v1.ConversationService"

// ConversationServer is the server side of ConversationService.
type ConversationServer interface {
	ListConversations(context.Context, *ListConversationsRequest) (*ListConversationsResponse, error)
	GetThread(context.Context, *GetThreadRequest) (*GetThreadResponse, error)
	MarkThreadRead(context.Context, *MarkThreadReadRequest) (*MarkThreadReadResponse, error)
	SendMessage(context.Context, *SendMessageRequest) (*SendMessageResponse, error)
	SendAdminMessage(context.Context, *SendAdminMessageRequest) (*SendMessageResponse, error)
	GetUnreadCount(context.Context, *GetUnreadCountRequest) (*GetUnreadCountResponse, error)
}

// GRPCHandler serves ConversationService. The viewer comes from the context
// populated by common.AuthInterceptor.
type GRPCHandler struct {
	service ConversationService
	log     *zap.Logger
}

var _ ConversationServer = (*GRPCHandler)(nil)

func NewGRPCHandler(service ConversationService, logger *zap.Logger) *GRPCHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GRPCHandler{service: service, log: logger}
}

// Register attaches the handler to s.
func (h *GRPCHandler) Register(s grpc.ServiceRegistrar) {
	s.RegisterService(&ConversationServiceDesc, h)
}

func (h *GRPCHandler) ListConversations(ctx context.Context, req *ListConversationsRequest) (*ListConversationsResponse, error) {
	mode, err := messaging.ParseMode(req.Mode)
	if err != nil {
		return nil, h.toStatus(err)
	}
	convs, err := h.service.Conversations(ctx, common.ViewerFromContext(ctx), mode, messaging.Options{
		UnreadOnly: req.UnreadOnly,
		Keyword:    req.Keyword,
	})
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &ListConversationsResponse{Conversations: convs}, nil
}

func (h *GRPCHandler) GetThread(ctx context.Context, req *GetThreadRequest) (*GetThreadResponse, error) {
	msgs, err := h.service.Thread(ctx, common.ViewerFromContext(ctx), req.CounterpartyID)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &GetThreadResponse{Messages: msgs}, nil
}

func (h *GRPCHandler) MarkThreadRead(ctx context.Context, req *MarkThreadReadRequest) (*MarkThreadReadResponse, error) {
	n, err := h.service.MarkThreadRead(ctx, common.ViewerFromContext(ctx), req.CounterpartyID)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &MarkThreadReadResponse{Updated: n}, nil
}

func (h *GRPCHandler) SendMessage(ctx context.Context, req *SendMessageRequest) (*SendMessageResponse, error) {
	msg, err := h.service.Send(ctx, common.ViewerFromContext(ctx), req.ReceiverID, req.Content)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &SendMessageResponse{Message: msg}, nil
}

func (h *GRPCHandler) SendAdminMessage(ctx context.Context, req *SendAdminMessageRequest) (*SendMessageResponse, error) {
	msg, err := h.service.SendAdminMessage(ctx, common.ViewerFromContext(ctx), req.AdminID, req.Content)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &SendMessageResponse{Message: msg}, nil
}

func (h *GRPCHandler) GetUnreadCount(ctx context.Context, _ *GetUnreadCountRequest) (*GetUnreadCountResponse, error) {
	n, err := h.service.UnreadCount(ctx, common.ViewerFromContext(ctx))
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &GetUnreadCountResponse{Count: n}, nil
}

func (h *GRPCHandler) toStatus(err error) error {
	code, _ := classify(err)
	if code == codes.Internal {
		h.log.Error("conversation call failed", zap.Error(err))
		return status.Error(code, "internal error")
	}
	return status.Error(code, err.Error())
}

// ConversationServiceDesc describes ConversationService for grpc.Server.
var ConversationServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ConversationServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListConversations",
			Handler:    unaryHandler("ListConversations", ConversationServer.ListConversations),
		},
		{
			MethodName: "GetThread",
			Handler:    unaryHandler("GetThread", ConversationServer.GetThread),
		},
		{
			MethodName: "MarkThreadRead",
			Handler:    unaryHandler("MarkThreadRead", ConversationServer.MarkThreadRead),
		},
		{
			MethodName: "SendMessage",
			Handler:    unaryHandler("SendMessage", ConversationServer.SendMessage),
		},
		{
			MethodName: "SendAdminMessage",
			Handler:    unaryHandler("SendAdminMessage", ConversationServer.SendAdminMessage),
		},
		{
			MethodName: "GetUnreadCount",
			Handler:    unaryHandler("GetUnreadCount", ConversationServer.GetUnreadCount),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "venuehub/v1/conversation",
}

type methodHandler = func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error)

func unaryHandler[Req, Resp any](method string, call func(ConversationServer, context.Context, *Req) (*Resp, error)) methodHandler {
	fullMethod := "/" + serviceName + "/" + method
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ConversationServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(ConversationServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ConversationClient calls ConversationService using the JSON codec.
type ConversationClient struct {
	cc grpc.ClientConnInterface
}

func NewConversationClient(cc grpc.ClientConnInterface) *ConversationClient {
	return &ConversationClient{cc: cc}
}

func (c *ConversationClient) invoke(ctx context.Context, method string, in, out interface{}, opts ...grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+serviceName+"/"+method, in, out, opts...)
}

func (c *ConversationClient) ListConversations(ctx context.Context, in *ListConversationsRequest, opts ...grpc.CallOption) (*ListConversationsResponse, error) {
	out := new(ListConversationsResponse)
	if err := c.invoke(ctx, "ListConversations", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ConversationClient) GetThread(ctx context.Context, in *GetThreadRequest, opts ...grpc.CallOption) (*GetThreadResponse, error) {
	out := new(GetThreadResponse)
	if err := c.invoke(ctx, "GetThread", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ConversationClient) MarkThreadRead(ctx context.Context, in *MarkThreadReadRequest, opts ...grpc.CallOption) (*MarkThreadReadResponse, error) {
	out := new(MarkThreadReadResponse)
	if err := c.invoke(ctx, "MarkThreadRead", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ConversationClient) SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*SendMessageResponse, error) {
	out := new(SendMessageResponse)
	if err := c.invoke(ctx, "SendMessage", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ConversationClient) SendAdminMessage(ctx context.Context, in *SendAdminMessageRequest, opts ...grpc.CallOption) (*SendMessageResponse, error) {
	out := new(SendMessageResponse)
	if err := c.invoke(ctx, "SendAdminMessage", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ConversationClient) GetUnreadCount(ctx context.Context, in *GetUnreadCountRequest, opts ...grpc.CallOption) (*GetUnreadCountResponse, error) {
	out := new(GetUnreadCountResponse)
	if err := c.invoke(ctx, "GetUnreadCount", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

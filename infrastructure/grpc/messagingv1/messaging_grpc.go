package messagingv1

import (
	"context"

	"google.golang.org/grpc"
)

const (
	ServiceName = "marketchat.v1.Messaging"

	Messaging_ListConversations_FullMethodName = "/marketchat.v1.Messaging/ListConversations"
	Messaging_UnreadCount_FullMethodName       = "/marketchat.v1.Messaging/UnreadCount"
	Messaging_MarkRead_FullMethodName          = "/marketchat.v1.Messaging/MarkRead"
	Messaging_WatchInbox_FullMethodName        = "/marketchat.v1.Messaging/WatchInbox"
	Messaging_Chat_FullMethodName              = "/marketchat.v1.Messaging/Chat"
)

type MessagingClient interface {
	ListConversations(ctx context.Context, in *ListConversationsRequest, opts ...grpc.CallOption) (*ListConversationsResponse, error)
	UnreadCount(ctx context.Context, in *UnreadCountRequest, opts ...grpc.CallOption) (*UnreadCountResponse, error)
	MarkRead(ctx context.Context, in *MarkReadRequest, opts ...grpc.CallOption) (*MarkReadResponse, error)
	WatchInbox(ctx context.Context, in *WatchInboxRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[InboxFrame], error)
	Chat(ctx context.Context, opts ...grpc.CallOption) (grpc.BidiStreamingClient[ChatRequest, ChatResponse], error)
}

type messagingClient struct {
	cc grpc.ClientConnInterface
}

func NewMessagingClient(cc grpc.ClientConnInterface) MessagingClient {
	return &messagingClient{cc}
}

func callOptions(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

func (c *messagingClient) ListConversations(ctx context.Context, in *ListConversationsRequest, opts ...grpc.CallOption) (*ListConversationsResponse, error) {
	out := new(ListConversationsResponse)
	if err := c.cc.Invoke(ctx, Messaging_ListConversations_FullMethodName, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *messagingClient) UnreadCount(ctx context.Context, in *UnreadCountRequest, opts ...grpc.CallOption) (*UnreadCountResponse, error) {
	out := new(UnreadCountResponse)
	if err := c.cc.Invoke(ctx, Messaging_UnreadCount_FullMethodName, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *messagingClient) MarkRead(ctx context.Context, in *MarkReadRequest, opts ...grpc.CallOption) (*MarkReadResponse, error) {
	out := new(MarkReadResponse)
	if err := c.cc.Invoke(ctx, Messaging_MarkRead_FullMethodName, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *messagingClient) WatchInbox(ctx context.Context, in *WatchInboxRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[InboxFrame], error) {
	stream, err := c.cc.NewStream(ctx, &Messaging_ServiceDesc.Streams[0], Messaging_WatchInbox_FullMethodName, callOptions(opts)...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[WatchInboxRequest, InboxFrame]{ClientStream: stream}
	if err = x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err = x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func (c *messagingClient) Chat(ctx context.Context, opts ...grpc.CallOption) (grpc.BidiStreamingClient[ChatRequest, ChatResponse], error) {
	stream, err := c.cc.NewStream(ctx, &Messaging_ServiceDesc.Streams[1], Messaging_Chat_FullMethodName, callOptions(opts)...)
	if err != nil {
		return nil, err
	}
	return &grpc.GenericClientStream[ChatRequest, ChatResponse]{ClientStream: stream}, nil
}

type MessagingServer interface {
	ListConversations(context.Context, *ListConversationsRequest) (*ListConversationsResponse, error)
	UnreadCount(context.Context, *UnreadCountRequest) (*UnreadCountResponse, error)
	MarkRead(context.Context, *MarkReadRequest) (*MarkReadResponse, error)
	WatchInbox(*WatchInboxRequest, grpc.ServerStreamingServer[InboxFrame]) error
	Chat(grpc.BidiStreamingServer[ChatRequest, ChatResponse]) error
}

func RegisterMessagingServer(s grpc.ServiceRegistrar, srv MessagingServer) {
	s.RegisterService(&Messaging_ServiceDesc, srv)
}

func _Messaging_ListConversations_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListConversationsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MessagingServer).ListConversations(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Messaging_ListConversations_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MessagingServer).ListConversations(ctx, req.(*ListConversationsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Messaging_UnreadCount_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(UnreadCountRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MessagingServer).UnreadCount(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Messaging_UnreadCount_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MessagingServer).UnreadCount(ctx, req.(*UnreadCountRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Messaging_MarkRead_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(MarkReadRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MessagingServer).MarkRead(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Messaging_MarkRead_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MessagingServer).MarkRead(ctx, req.(*MarkReadRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Messaging_WatchInbox_Handler(srv any, stream grpc.ServerStream) error {
	m := new(WatchInboxRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(MessagingServer).WatchInbox(m, &grpc.GenericServerStream[WatchInboxRequest, InboxFrame]{ServerStream: stream})
}

func _Messaging_Chat_Handler(srv any, stream grpc.ServerStream) error {
	return srv.(MessagingServer).Chat(&grpc.GenericServerStream[ChatRequest, ChatResponse]{ServerStream: stream})
}

// Messaging_ServiceDesc is the grpc.ServiceDesc for the Messaging service.
var Messaging_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MessagingServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListConversations", Handler: _Messaging_ListConversations_Handler},
		{MethodName: "UnreadCount", Handler: _Messaging_UnreadCount_Handler},
		{MethodName: "MarkRead", Handler: _Messaging_MarkRead_Handler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "WatchInbox", Handler: _Messaging_WatchInbox_Handler, ServerStreams: true},
		{StreamName: "Chat", Handler: _Messaging_Chat_Handler, ServerStreams: true, ClientStreams: true},
	},
	Metadata: "marketchat/v1/messaging",
}

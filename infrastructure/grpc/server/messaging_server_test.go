package server

import (
	"context"
	"log/slog"
	"market-chat/auth"
	"market-chat/channel"
	"market-chat/domain"
	pb "market-chat/infrastructure/grpc/messagingv1"
	"market-chat/repositories"
	"market-chat/runtime"
	"market-chat/services"
	"net"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const testSecret = "messaging_server_test_secret_key"

type harness struct {
	client         pb.MessagingClient
	tokens         *auth.Tokens
	conversationID string
}

func (h harness) as(t *testing.T, userID string) context.Context {
	token, err := h.tokens.Generate(userID, time.Hour)
	require.NoError(t, err)
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+token)
}

func startServer(t *testing.T) harness {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)

	messages := repositories.NewMessageRepository(db, log)
	engagements := repositories.NewEngagementRepository(db)
	conversationID := "painting-job"
	require.NoError(t, engagements.SaveEngagement(context.Background(), domain.Engagement{
		ConversationID: conversationID, CustomerID: "alice", ProviderID: "bob", Title: "Painting", CreatedAt: time.Now().UTC(),
	}))

	store := services.NewMessageStore(log, messages, engagements)
	tracker := services.NewReadTracker(log, messages)
	notifier := runtime.NewNotifier(log, channel.NewBadgerChannel(db, log), runtime.NewRegistry(), time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	notifierDone := make(chan struct{})
	go func() {
		defer close(notifierDone)
		_ = notifier.Run(ctx)
	}()

	tokens := auth.NewTokens(testSecret)
	interceptor := auth.NewInterceptor(tokens)
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(interceptor.Unary()),
		grpc.ChainStreamInterceptor(interceptor.Stream()),
		grpc.WaitForHandlers(true),
	)
	pb.RegisterMessagingServer(grpcServer, NewMessagingServer(log, store, tracker, engagements,
		services.NewAggregator(log, store, engagements, 4), notifier, 10*time.Millisecond))

	listener := bufconn.Listen(1024 * 1024)
	go func() { _ = grpcServer.Serve(listener) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return listener.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		grpcServer.Stop()
		cancel()
		<-notifierDone
		_ = db.Close()
	})
	select {
	case <-notifier.Ready():
	case <-time.After(time.Second):
		require.Fail(t, "Change feed never became live")
	}
	return harness{client: pb.NewMessagingClient(conn), tokens: tokens, conversationID: conversationID}
}

func TestMessagingServer_Requires_A_Token(t *testing.T) {
	req := require.New(t)
	h := startServer(t)

	_, err := h.client.ListConversations(context.Background(), &pb.ListConversationsRequest{})

	req.Equal(codes.Unauthenticated, status.Code(err))
}

func TestMessagingServer_Hello_Round_Trip(t *testing.T) {
	req := require.New(t)
	h := startServer(t)
	alice, bob := h.as(t, "alice"), h.as(t, "bob")

	// Given an engagement without messages
	listed, err := h.client.ListConversations(alice, &pb.ListConversationsRequest{})
	req.NoError(err)
	req.Len(listed.Conversations, 1)
	req.Equal(domain.NoMessagesYet, listed.Conversations[0].LastMessage)
	req.Equal("bob", listed.Conversations[0].OtherParticipantID)
	req.Equal("customer", listed.Conversations[0].Role)
	req.Zero(listed.UnreadTotal)

	// When alice opens the chat and sends messages
	chatCtx, cancelChat := context.WithCancel(alice)
	defer cancelChat()
	stream, err := h.client.Chat(chatCtx)
	req.NoError(err)
	req.NoError(stream.Send(&pb.ChatRequest{Open: &pb.OpenChat{ConversationID: h.conversationID}}))
	req.NoError(stream.Send(&pb.ChatRequest{Send: &pb.SendMessage{RequestID: "1", Content: "  Hello "}}))
	req.NoError(stream.Send(&pb.ChatRequest{Send: &pb.SendMessage{RequestID: "2", Content: "   "}}))

	acks := map[string]*pb.SendAck{}
	for len(acks) < 2 {
		resp, err := stream.Recv()
		req.NoError(err)
		if resp.Ack != nil {
			acks[resp.Ack.RequestID] = resp.Ack
		}
	}

	// Then the first is stored trimmed and the blank one is rejected verbatim
	req.Empty(acks["1"].Error)
	req.Equal("Hello", acks["1"].Message.Content)
	req.Equal("bob", acks["1"].Message.ReceiverID)
	req.Equal(codes.InvalidArgument.String(), acks["2"].Code)
	req.Equal("message cannot be empty", acks["2"].Error)

	// And bob has exactly one unread message
	count, err := h.client.UnreadCount(bob, &pb.UnreadCountRequest{})
	req.NoError(err)
	req.Equal(int32(1), count.Count)
	count, err = h.client.UnreadCount(alice, &pb.UnreadCountRequest{})
	req.NoError(err)
	req.Zero(count.Count)

	// When bob marks the conversation read twice
	marked, err := h.client.MarkRead(bob, &pb.MarkReadRequest{ConversationID: h.conversationID})
	req.NoError(err)
	req.Equal(int32(1), marked.Affected)
	marked, err = h.client.MarkRead(bob, &pb.MarkReadRequest{ConversationID: h.conversationID})
	req.NoError(err)
	req.Zero(marked.Affected)
}

func TestMessagingServer_MarkRead_Checks_Participants(t *testing.T) {
	req := require.New(t)
	h := startServer(t)

	_, err := h.client.MarkRead(h.as(t, "mallory"), &pb.MarkReadRequest{ConversationID: h.conversationID})
	req.Equal(codes.PermissionDenied, status.Code(err))

	_, err = h.client.MarkRead(h.as(t, "bob"), &pb.MarkReadRequest{ConversationID: "unknown-job"})
	req.Equal(codes.NotFound, status.Code(err))
}

func TestMessagingServer_ListConversations_Totals_Unread(t *testing.T) {
	req := require.New(t)
	h := startServer(t)
	alice, bob := h.as(t, "alice"), h.as(t, "bob")

	// Given alice sent two messages to bob
	stream, err := h.client.Chat(alice)
	req.NoError(err)
	req.NoError(stream.Send(&pb.ChatRequest{Open: &pb.OpenChat{ConversationID: h.conversationID}}))
	req.NoError(stream.Send(&pb.ChatRequest{Send: &pb.SendMessage{RequestID: "1", Content: "Hello"}}))
	req.NoError(stream.Send(&pb.ChatRequest{Send: &pb.SendMessage{RequestID: "2", Content: "When can you start?"}}))
	for acks := 0; acks < 2; {
		resp, err := stream.Recv()
		req.NoError(err)
		if resp.Ack != nil {
			req.Empty(resp.Ack.Error)
			acks++
		}
	}

	// Then bob's list carries both the per conversation count and the total
	listed, err := h.client.ListConversations(bob, &pb.ListConversationsRequest{})
	req.NoError(err)
	req.Len(listed.Conversations, 1)
	req.Equal(int32(2), listed.Conversations[0].UnreadCount)
	req.Equal(int32(2), listed.UnreadTotal)
	req.Equal("When can you start?", listed.Conversations[0].LastMessage)
}

func TestMessagingServer_Stranger_Cannot_Open_Chat(t *testing.T) {
	req := require.New(t)
	h := startServer(t)

	stream, err := h.client.Chat(h.as(t, "mallory"))
	req.NoError(err)
	req.NoError(stream.Send(&pb.ChatRequest{Open: &pb.OpenChat{ConversationID: h.conversationID}}))

	var recvErr error
	for recvErr == nil {
		_, recvErr = stream.Recv()
	}
	req.Equal(codes.PermissionDenied, status.Code(recvErr))
}

func TestMessagingServer_WatchInbox_Follows_New_Messages(t *testing.T) {
	req := require.New(t)
	h := startServer(t)
	ctx, cancel := context.WithTimeout(h.as(t, "bob"), 5*time.Second)
	defer cancel()

	inbox, err := h.client.WatchInbox(ctx, &pb.WatchInboxRequest{})
	req.NoError(err)
	first, err := inbox.Recv()
	req.NoError(err)
	req.Zero(first.UnreadTotal)

	// When alice writes to bob
	chat, err := h.client.Chat(h.as(t, "alice"))
	req.NoError(err)
	req.NoError(chat.Send(&pb.ChatRequest{Open: &pb.OpenChat{ConversationID: h.conversationID}}))
	req.NoError(chat.Send(&pb.ChatRequest{Send: &pb.SendMessage{RequestID: "1", Content: "Can you start Monday?"}}))

	// Then bob's inbox eventually shows it, unread
	for {
		frame, err := inbox.Recv()
		req.NoError(err)
		if frame.UnreadTotal == 1 && len(frame.Conversations) == 1 && frame.Conversations[0].UnreadCount == 1 {
			req.Equal("Can you start Monday?", frame.Conversations[0].LastMessage)
			return
		}
	}
}

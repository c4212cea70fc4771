package server

import (
	"context"
	"io"
	"log/slog"
	"market-chat/auth"
	"market-chat/contract"
	"market-chat/domain"
	"market-chat/errors"
	pb "market-chat/infrastructure/grpc/messagingv1"
	"market-chat/services"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

var _ pb.MessagingServer = (*MessagingServer)(nil)

// MessagingServer exposes the messaging core to authenticated clients.
// The caller identity always comes from the auth interceptors, never from the request.
type MessagingServer struct {
	log           *slog.Logger
	store         contract.IMessageStore
	tracker       contract.IReadTracker
	engagements   contract.IEngagementDirectory
	aggregator    contract.IAggregator
	notifier      contract.INotifier
	badgeDebounce time.Duration
}

func NewMessagingServer(log *slog.Logger, store contract.IMessageStore, tracker contract.IReadTracker,
	engagements contract.IEngagementDirectory, aggregator contract.IAggregator,
	notifier contract.INotifier, badgeDebounce time.Duration) *MessagingServer {
	return &MessagingServer{
		log:           log,
		store:         store,
		tracker:       tracker,
		engagements:   engagements,
		aggregator:    aggregator,
		notifier:      notifier,
		badgeDebounce: badgeDebounce,
	}
}

func (s *MessagingServer) ListConversations(ctx context.Context, _ *pb.ListConversationsRequest) (*pb.ListConversationsResponse, error) {
	viewer, err := viewerFrom(ctx)
	if err != nil {
		return nil, err
	}
	summaries, err := s.aggregator.List(ctx, viewer)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.ListConversationsResponse{
		Conversations: toSummaries(summaries),
		UnreadTotal:   int32(domain.TotalUnread(summaries)),
	}, nil
}

func (s *MessagingServer) UnreadCount(ctx context.Context, _ *pb.UnreadCountRequest) (*pb.UnreadCountResponse, error) {
	viewer, err := viewerFrom(ctx)
	if err != nil {
		return nil, err
	}
	count, err := s.store.CountUnreadForReceiver(ctx, viewer)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.UnreadCountResponse{Count: int32(count)}, nil
}

// MarkRead only ever touches messages the caller received, in a conversation
// the caller takes part in.
func (s *MessagingServer) MarkRead(ctx context.Context, req *pb.MarkReadRequest) (*pb.MarkReadResponse, error) {
	viewer, err := viewerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if req.ConversationID == "" {
		return nil, errors.MapToGRPCError(errors.NewValidationError("conversation id is required"))
	}
	engagement, err := s.engagements.GetEngagement(ctx, req.ConversationID)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	if !engagement.HasParticipant(viewer) {
		s.log.Warn("Mark read by a non participant", "conversation_id", req.ConversationID, "viewer", viewer)
		return nil, errors.MapToGRPCError(errors.ErrNotAuthorized)
	}
	affected, err := s.tracker.MarkRead(ctx, req.ConversationID, viewer)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.MarkReadResponse{Affected: int32(affected)}, nil
}

// WatchInbox pushes the conversation list and the unread badge each time
// either one changes, until the client goes away.
func (s *MessagingServer) WatchInbox(_ *pb.WatchInboxRequest, stream grpc.ServerStreamingServer[pb.InboxFrame]) error {
	ctx := stream.Context()
	viewer, err := viewerFrom(ctx)
	if err != nil {
		return err
	}

	inbox := services.NewInbox(s.log, s.aggregator, s.notifier, viewer)
	if err = inbox.Load(ctx); err != nil {
		return errors.MapToGRPCError(err)
	}
	defer inbox.Close()

	badge := services.NewBadge(s.log, s.store, s.notifier, viewer, s.badgeDebounce)
	if err = badge.Start(ctx); err != nil {
		return errors.MapToGRPCError(err)
	}
	defer badge.Stop()

	summaryUpdates, badgeUpdates := inbox.Updates(), badge.Updates()
	for {
		frame := &pb.InboxFrame{}
		select {
		case <-ctx.Done():
			s.log.Debug("Inbox watcher disconnected", "viewer", viewer)
			return nil
		case summaries, ok := <-summaryUpdates:
			if !ok {
				return nil
			}
			frame.Conversations = toSummaries(summaries)
			frame.UnreadTotal = int32(badge.Count())
		case count, ok := <-badgeUpdates:
			if !ok {
				return nil
			}
			frame.Conversations = toSummaries(inbox.Summaries())
			frame.UnreadTotal = int32(count)
		}
		if err = stream.Send(frame); err != nil {
			s.log.Error("failed to push inbox frame", "viewer", viewer, "error", err)
			return err
		}
	}
}

// Chat runs one ChatSession for the lifetime of the stream. The first frame
// opens it, the next ones send messages or retry a failed load. Thread views
// are pushed as they change and every send is acknowledged.
func (s *MessagingServer) Chat(stream grpc.BidiStreamingServer[pb.ChatRequest, pb.ChatResponse]) error {
	ctx := stream.Context()
	viewer, err := viewerFrom(ctx)
	if err != nil {
		return err
	}
	first, err := stream.Recv()
	if err != nil {
		return err
	}
	if first.Open == nil || first.Open.ConversationID == "" {
		return errors.MapToGRPCError(errors.NewValidationError("first frame must open a conversation"))
	}

	session := services.NewChatSession(s.log, s.store, s.tracker, s.engagements, s.notifier)
	pumpDone := make(chan struct{})
	defer func() {
		session.Close()
		<-pumpDone
	}()

	var sendMu sync.Mutex
	send := func(resp *pb.ChatResponse) error {
		sendMu.Lock()
		defer sendMu.Unlock()
		return stream.Send(resp)
	}
	go func() {
		defer close(pumpDone)
		for view := range session.Updates() {
			if err := send(&pb.ChatResponse{Thread: toThread(view)}); err != nil {
				s.log.Warn("failed to push thread view", "viewer", viewer, "error", err)
			}
		}
	}()

	if err = session.Open(ctx, first.Open.ConversationID, viewer); err != nil {
		if !errors.IsRetryable(err) {
			return errors.MapToGRPCError(err)
		}
		// Transient: the client sees the Error state and may send Retry.
	}

	for {
		req, err := stream.Recv()
		if err == io.EOF || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return err
		}
		switch {
		case req.Send != nil:
			message, sendErr := session.Send(ctx, req.Send.Content)
			ack := &pb.SendAck{RequestID: req.Send.RequestID}
			if sendErr != nil {
				st := status.Convert(errors.MapToGRPCError(sendErr))
				ack.Code, ack.Error = st.Code().String(), st.Message()
			} else {
				ack.Message = toMessage(message)
			}
			if err = send(&pb.ChatResponse{Ack: ack}); err != nil {
				return err
			}
		case req.Retry != nil:
			if retryErr := session.Retry(ctx); retryErr != nil {
				s.log.Debug("Chat retry failed", "viewer", viewer, "error", retryErr)
			}
		default:
			s.log.Debug("Ignoring chat frame without action", "viewer", viewer)
		}
	}
}

func viewerFrom(ctx context.Context) (string, error) {
	viewer, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return "", errors.MapToGRPCError(errors.ErrUnauthenticated)
	}
	return viewer, nil
}

package server

import (
	"market-chat/domain"
	pb "market-chat/infrastructure/grpc/messagingv1"
	"market-chat/services"

	"github.com/samber/lo"
)

func toSummaries(summaries []domain.ConversationSummary) []*pb.ConversationSummary {
	return lo.Map(summaries, func(item domain.ConversationSummary, _ int) *pb.ConversationSummary {
		return &pb.ConversationSummary{
			ConversationID:     item.ConversationID,
			Title:              item.Title,
			Role:               item.Counterpart.Role.String(),
			OtherParticipantID: item.Counterpart.OtherID,
			LastMessage:        item.LastMessage,
			LastMessageAt:      item.LastMessageAt,
			HasMessages:        item.HasMessages,
			UnreadCount:        int32(item.UnreadCount),
		}
	})
}

func toMessage(message domain.Message) *pb.Message {
	return &pb.Message{
		ID:         message.ID.String(),
		SenderID:   message.SenderID,
		ReceiverID: message.ReceiverID,
		Content:    message.Content,
		CreatedAt:  message.CreatedAt,
		Read:       message.Read,
	}
}

func toThread(view services.ThreadView) *pb.Thread {
	thread := &pb.Thread{
		State:              view.State.String(),
		ConversationID:     view.ConversationID,
		Title:              view.Title,
		Role:               view.Counterpart.Role.String(),
		OtherParticipantID: view.Counterpart.OtherID,
		Messages: lo.Map(view.Messages, func(item domain.Message, _ int) *pb.Message {
			return toMessage(item)
		}),
	}
	if view.Err != nil {
		thread.Error = view.Err.Error()
	}
	return thread
}

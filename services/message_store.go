package services

import (
	"context"
	"fmt"
	"log/slog"
	"market-chat/contract"
	"market-chat/domain"
	"market-chat/errors"
	"market-chat/repositories"
)

var _ contract.IMessageStore = (*MessageStore)(nil)

// MessageStore is the only way a message gets created. It checks content and
// participants before anything reaches the repository.
type MessageStore struct {
	log         *slog.Logger
	repository  repositories.IMessageRepository
	engagements contract.IEngagementDirectory
}

func NewMessageStore(log *slog.Logger, repository repositories.IMessageRepository,
	engagements contract.IEngagementDirectory) *MessageStore {
	return &MessageStore{log: log, repository: repository, engagements: engagements}
}

// Append validates then appends one message. Validation failures never reach
// storage. The sender must be a participant and the receiver must be the
// other participant of the conversation.
func (s *MessageStore) Append(ctx context.Context, conversationID, senderID, receiverID, content string) (domain.Message, error) {
	normalized, err := domain.NormalizeContent(content)
	if err != nil {
		return domain.Message{}, err
	}
	engagement, err := s.engagements.GetEngagement(ctx, conversationID)
	if err != nil {
		return domain.Message{}, err
	}
	counterpart, err := engagement.Counterpart(senderID)
	if err != nil {
		s.log.Warn("Sender is not a participant", "conversation_id", conversationID, "sender_id", senderID)
		return domain.Message{}, err
	}
	if receiverID != counterpart.OtherID {
		s.log.Warn("Receiver is not the other participant",
			"conversation_id", conversationID, "sender_id", senderID, "receiver_id", receiverID)
		return domain.Message{}, fmt.Errorf("%w: receiver %s", errors.ErrNotAuthorized, receiverID)
	}
	return s.repository.StoreMessage(ctx, domain.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Content:        normalized,
	})
}

func (s *MessageStore) ListByConversation(ctx context.Context, conversationID string) ([]domain.Message, error) {
	return s.repository.GetMessages(ctx, conversationID)
}

func (s *MessageStore) Latest(ctx context.Context, conversationID string) (domain.Message, bool, error) {
	return s.repository.GetLatest(ctx, conversationID)
}

func (s *MessageStore) CountUnread(ctx context.Context, conversationID, receiverID string) (int, error) {
	return s.repository.CountUnread(ctx, conversationID, receiverID)
}

func (s *MessageStore) CountUnreadForReceiver(ctx context.Context, receiverID string) (int, error) {
	return s.repository.CountUnreadForReceiver(ctx, receiverID)
}

func (s *MessageStore) Snapshot(ctx context.Context, conversationID, receiverID string) (domain.ConversationSnapshot, error) {
	return s.repository.Snapshot(ctx, conversationID, receiverID)
}

var _ contract.IReadTracker = (*ReadTracker)(nil)

// ReadTracker moves messages from unread to read, in bulk and idempotently.
type ReadTracker struct {
	log        *slog.Logger
	repository repositories.IMessageRepository
}

func NewReadTracker(log *slog.Logger, repository repositories.IMessageRepository) *ReadTracker {
	return &ReadTracker{log: log, repository: repository}
}

// MarkRead only ever updates rows where receiverID is the receiver, which is
// also the authorization rule: nobody can mark someone else's mail as read.
func (t *ReadTracker) MarkRead(ctx context.Context, conversationID, receiverID string) (int, error) {
	if receiverID == "" {
		return 0, errors.ErrNotAuthorized
	}
	return t.repository.MarkRead(ctx, conversationID, receiverID)
}

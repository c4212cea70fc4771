package services

import (
	"context"
	"log/slog"
	"market-chat/domain"
	"market-chat/errors"
	"market-chat/repositories"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	messages    *repositories.MessageRepository
	engagements *repositories.EngagementRepository
	store       *MessageStore
	tracker     *ReadTracker
}

func newFixture(t *testing.T) fixture {
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	messages := repositories.NewMessageRepository(db, log)
	engagements := repositories.NewEngagementRepository(db)
	return fixture{
		messages:    messages,
		engagements: engagements,
		store:       NewMessageStore(log, messages, engagements),
		tracker:     NewReadTracker(log, messages),
	}
}

func (f fixture) engagement(t *testing.T, customer, provider, title string, createdAt time.Time) string {
	conversationID := uuid.NewString()
	require.NoError(t, f.engagements.SaveEngagement(context.Background(), domain.Engagement{
		ConversationID: conversationID,
		CustomerID:     customer,
		ProviderID:     provider,
		Title:          title,
		CreatedAt:      createdAt,
	}))
	return conversationID
}

func Test_Hello_Scenario(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	conversationID := f.engagement(t, "alice", "bob", "Painting", time.Now().UTC())

	// Given an empty conversation
	_, found, err := f.store.Latest(ctx, conversationID)
	req.NoError(err)
	req.False(found)

	// When alice sends "Hello" with surrounding spaces
	sent, err := f.store.Append(ctx, conversationID, "alice", "bob", "  Hello ")
	req.NoError(err)
	req.Equal("Hello", sent.Content)

	// Then it is the latest message, unread for bob only
	latest, found, err := f.store.Latest(ctx, conversationID)
	req.NoError(err)
	req.True(found)
	req.Equal(sent, latest)
	unread, err := f.store.CountUnread(ctx, conversationID, "bob")
	req.NoError(err)
	req.Equal(1, unread)
	unread, err = f.store.CountUnread(ctx, conversationID, "alice")
	req.NoError(err)
	req.Zero(unread)

	// When bob opens the conversation
	affected, err := f.tracker.MarkRead(ctx, conversationID, "bob")
	req.NoError(err)
	req.Equal(1, affected)
	unread, err = f.store.CountUnread(ctx, conversationID, "bob")
	req.NoError(err)
	req.Zero(unread)

	// And opens it again
	affected, err = f.tracker.MarkRead(ctx, conversationID, "bob")
	req.NoError(err)
	req.Zero(affected)
}

func Test_Append_Rejects_Invalid_Content_Without_Touching_Storage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	conversationID := f.engagement(t, "alice", "bob", "Painting", time.Now().UTC())
	_, err := f.store.Append(ctx, conversationID, "alice", "bob", "first")
	require.NoError(t, err)

	testCases := []struct {
		name    string
		content string
		reason  string
	}{
		{name: "empty", content: "", reason: "message cannot be empty"},
		{name: "whitespace only", content: "   \t\n ", reason: "message cannot be empty"},
		{name: "1001 characters", content: strings.Repeat("a", 1001), reason: "message too long"},
		{name: "1001 characters after trimming", content: "  " + strings.Repeat("é", 1001) + "  ", reason: "message too long"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)

			_, err := f.store.Append(ctx, conversationID, "alice", "bob", tc.content)

			req.ErrorIs(err, errors.ErrValidation)
			req.EqualError(err, tc.reason)
			messages, err := f.store.ListByConversation(ctx, conversationID)
			req.NoError(err)
			req.Len(messages, 1)
		})
	}
}

func Test_Append_Accepts_Exactly_1000_Characters(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	conversationID := f.engagement(t, "alice", "bob", "Painting", time.Now().UTC())
	content := strings.Repeat("x", domain.MaxContentLength)

	sent, err := f.store.Append(ctx, conversationID, "alice", "bob", " "+content+" ")

	req.NoError(err)
	messages, err := f.store.ListByConversation(ctx, conversationID)
	req.NoError(err)
	req.Equal(sent, messages[len(messages)-1])
	req.Equal(content, messages[len(messages)-1].Content)
}

func Test_Append_Checks_Participants(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	conversationID := f.engagement(t, "alice", "bob", "Painting", time.Now().UTC())

	testCases := []struct {
		name           string
		conversationID string
		sender         string
		receiver       string
		expected       error
	}{
		{name: "sender outside the engagement", conversationID: conversationID, sender: "mallory", receiver: "bob", expected: errors.ErrNotAuthorized},
		{name: "receiver outside the engagement", conversationID: conversationID, sender: "alice", receiver: "mallory", expected: errors.ErrNotAuthorized},
		{name: "message to oneself", conversationID: conversationID, sender: "alice", receiver: "alice", expected: errors.ErrNotAuthorized},
		{name: "unknown conversation", conversationID: uuid.NewString(), sender: "alice", receiver: "bob", expected: errors.ErrConversationNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)

			_, err := f.store.Append(ctx, tc.conversationID, tc.sender, tc.receiver, "hi")

			req.ErrorIs(err, tc.expected)
		})
	}

	messages, err := f.store.ListByConversation(ctx, conversationID)
	require.NoError(t, err)
	require.Empty(t, messages)
}

func Test_Provider_Can_Answer(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	conversationID := f.engagement(t, "alice", "bob", "Painting", time.Now().UTC())

	_, err := f.store.Append(ctx, conversationID, "alice", "bob", "When can you come?")
	req.NoError(err)
	_, err = f.store.Append(ctx, conversationID, "bob", "alice", "Tomorrow")
	req.NoError(err)

	total, err := f.store.CountUnreadForReceiver(ctx, "alice")
	req.NoError(err)
	req.Equal(1, total)
}

func Test_MarkRead_Requires_A_Receiver(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	_, err := f.tracker.MarkRead(context.Background(), uuid.NewString(), "")

	req.ErrorIs(err, errors.ErrNotAuthorized)
}

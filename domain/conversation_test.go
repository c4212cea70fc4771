package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestNewConversationSummary_Without_Messages(t *testing.T) {
	req := require.New(t)
	engagement := newEngagement()

	summary := NewConversationSummary(engagement, Counterpart{Role: RoleCustomer, OtherID: "bob"}, ConversationSnapshot{})

	req.False(summary.HasMessages)
	req.Equal(NoMessagesYet, summary.LastMessage)
	req.Equal(PlaceholderTime, summary.LastMessageAt)
	req.Zero(summary.UnreadCount)
}

func TestSortSummaries_Empty_Conversations_Come_Last(t *testing.T) {
	req := require.New(t)
	now := time.Now().UTC()
	summaries := []ConversationSummary{
		{ConversationID: "empty-old", LastMessageAt: PlaceholderTime, EngagementCreatedAt: now.Add(-2 * time.Hour)},
		{ConversationID: "older", LastMessageAt: now.Add(-time.Minute), HasMessages: true},
		{ConversationID: "empty-new", LastMessageAt: PlaceholderTime, EngagementCreatedAt: now.Add(-time.Hour)},
		{ConversationID: "newer", LastMessageAt: now, HasMessages: true},
	}

	SortSummaries(summaries)

	ids := lo.Map(summaries, func(s ConversationSummary, _ int) string { return s.ConversationID })
	req.Equal([]string{"newer", "older", "empty-old", "empty-new"}, ids)
}

func TestFilter_Matches(t *testing.T) {
	req := require.New(t)
	conversationID := uuid.NewString()
	inserted := ChangeEvent{Kind: MessageInserted, ConversationID: conversationID, ReceiverID: "bob"}

	req.True(ByConversation(conversationID).Matches(inserted))
	req.False(ByConversation("other").Matches(inserted))
	req.True(ByReceiver("bob").Matches(inserted))
	req.False(ByReceiver("alice").Matches(inserted))
	req.True(Filter{}.Matches(inserted))

	// Resync reaches every consumer
	req.True(ByReceiver("alice").Matches(ChangeEvent{Kind: Resync}))
}

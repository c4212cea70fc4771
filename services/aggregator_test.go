package services

import (
	"context"
	"log/slog"
	"market-chat/domain"
	"market-chat/errors"
	"market-chat/mocks"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func Test_Aggregator_Sorts_By_Last_Message_And_Puts_Empty_Last(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Given alice takes part in four engagements, two of them without messages
	emptyOld := f.engagement(t, "alice", "bob", "Empty old", at)
	quiet := f.engagement(t, "alice", "carol", "Quiet", at.Add(time.Hour))
	emptyNew := f.engagement(t, "dave", "alice", "Empty new", at.Add(2*time.Hour))
	busy := f.engagement(t, "erin", "alice", "Busy", at.Add(3*time.Hour))
	f.engagement(t, "bob", "carol", "Not hers", at)

	_, err := f.store.Append(ctx, quiet, "carol", "alice", "first")
	req.NoError(err)
	_, err = f.store.Append(ctx, busy, "erin", "alice", "second")
	req.NoError(err)
	_, err = f.store.Append(ctx, busy, "erin", "alice", "third")
	req.NoError(err)

	// When aggregating alice's conversations
	aggregator := NewAggregator(logs.GetLoggerFromLevel(slog.LevelDebug), f.store, f.engagements, 2)
	summaries, err := aggregator.List(ctx, "alice")
	req.NoError(err)

	// Then the busiest comes first and empty ones are last, by creation
	req.Equal([]string{busy, quiet, emptyOld, emptyNew},
		lo.Map(summaries, func(s domain.ConversationSummary, _ int) string { return s.ConversationID }))

	req.Equal("third", summaries[0].LastMessage)
	req.Equal(2, summaries[0].UnreadCount)
	req.Equal(domain.Counterpart{Role: domain.RoleProvider, OtherID: "erin"}, summaries[0].Counterpart)

	req.Equal(domain.NoMessagesYet, summaries[2].LastMessage)
	req.False(summaries[2].HasMessages)
	req.Zero(summaries[2].UnreadCount)
	req.Equal(domain.Counterpart{Role: domain.RoleProvider, OtherID: "dave"}, summaries[3].Counterpart)
	req.Equal(domain.Counterpart{Role: domain.RoleCustomer, OtherID: "carol"}, summaries[1].Counterpart)

	req.Equal(3, domain.TotalUnread(summaries))
}

func Test_Aggregator_Summary_Of_One_Conversation(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	conversationID := f.engagement(t, "alice", "bob", "Painting", time.Now().UTC())
	_, err := f.store.Append(ctx, conversationID, "bob", "alice", "Hello")
	req.NoError(err)
	aggregator := NewAggregator(logs.GetLoggerFromLevel(slog.LevelDebug), f.store, f.engagements, 4)

	summary, err := aggregator.Summary(ctx, "alice", conversationID)
	req.NoError(err)
	req.Equal("Painting", summary.Title)
	req.Equal("Hello", summary.LastMessage)
	req.Equal(1, summary.UnreadCount)

	_, err = aggregator.Summary(ctx, "mallory", conversationID)
	req.ErrorIs(err, errors.ErrNotAuthorized)
}

func Test_Aggregator_Fails_When_A_Lookup_Fails(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIMessageStore(ctrl)
	directory := mocks.NewMockIEngagementDirectory(ctrl)
	at := time.Now().UTC()

	// Given two engagements and a store that fails on the second
	directory.EXPECT().ListForParticipant(gomock.Any(), "alice").Return([]domain.Engagement{
		{ConversationID: "c1", CustomerID: "alice", ProviderID: "bob", Title: "One", CreatedAt: at},
		{ConversationID: "c2", CustomerID: "alice", ProviderID: "carol", Title: "Two", CreatedAt: at},
	}, nil)
	store.EXPECT().Snapshot(gomock.Any(), "c1", "alice").Return(domain.ConversationSnapshot{}, nil).MaxTimes(1)
	store.EXPECT().Snapshot(gomock.Any(), "c2", "alice").
		Return(domain.ConversationSnapshot{}, errors.Unavailable("snapshot", context.DeadlineExceeded))

	aggregator := NewAggregator(logs.GetLoggerFromLevel(slog.LevelDebug), store, directory, 1)
	_, err := aggregator.List(context.Background(), "alice")

	// Then the whole list is reported as unavailable
	req.ErrorIs(err, errors.ErrStoreUnavailable)
	req.True(errors.IsRetryable(err))
}

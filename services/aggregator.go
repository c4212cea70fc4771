package services

import (
	"context"
	"fmt"
	"log/slog"
	"market-chat/contract"
	"market-chat/domain"

	"golang.org/x/sync/errgroup"
)

var _ contract.IAggregator = (*Aggregator)(nil)

// Aggregator derives the conversation list of a viewer from the engagements
// they take part in.
type Aggregator struct {
	log         *slog.Logger
	store       contract.IMessageStore
	engagements contract.IEngagementDirectory
	concurrency int
}

func NewAggregator(log *slog.Logger, store contract.IMessageStore,
	engagements contract.IEngagementDirectory, concurrency int) *Aggregator {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Aggregator{log: log, store: store, engagements: engagements, concurrency: concurrency}
}

// List fans out one snapshot lookup per engagement, joins the results back
// by position and sorts them. A single failed lookup fails the whole list.
func (a *Aggregator) List(ctx context.Context, viewer string) ([]domain.ConversationSummary, error) {
	engagements, err := a.engagements.ListForParticipant(ctx, viewer)
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.ConversationSummary, len(engagements))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, engagement := range engagements {
		g.Go(func() error {
			summary, err := a.summarize(gctx, viewer, engagement)
			if err != nil {
				return err
			}
			summaries[i] = summary
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}
	domain.SortSummaries(summaries)
	a.log.Debug("Conversations aggregated", "viewer", viewer, "count", len(summaries))
	return summaries, nil
}

// Summary recomputes a single conversation, used when only that one changed.
func (a *Aggregator) Summary(ctx context.Context, viewer, conversationID string) (domain.ConversationSummary, error) {
	engagement, err := a.engagements.GetEngagement(ctx, conversationID)
	if err != nil {
		return domain.ConversationSummary{}, err
	}
	return a.summarize(ctx, viewer, engagement)
}

func (a *Aggregator) summarize(ctx context.Context, viewer string, engagement domain.Engagement) (domain.ConversationSummary, error) {
	counterpart, err := engagement.Counterpart(viewer)
	if err != nil {
		return domain.ConversationSummary{}, err
	}
	snapshot, err := a.store.Snapshot(ctx, engagement.ConversationID, viewer)
	if err != nil {
		return domain.ConversationSummary{}, fmt.Errorf("conversation %s: %w", engagement.ConversationID, err)
	}
	return domain.NewConversationSummary(engagement, counterpart, snapshot), nil
}

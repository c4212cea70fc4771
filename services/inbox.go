package services

import (
	"context"
	"log/slog"
	"market-chat/contract"
	"market-chat/domain"
	"market-chat/errors"
	"slices"
	"sync"

	"github.com/samber/lo"
)

var _ contract.EventSink = (*Inbox)(nil)

// Inbox keeps the conversation list of one viewer up to date. A change in one
// conversation recomputes that summary only, a resync recomputes everything.
type Inbox struct {
	log        *slog.Logger
	aggregator contract.IAggregator
	notifier   contract.INotifier
	viewer     string

	mu        sync.Mutex
	summaries []domain.ConversationSummary
	watched   map[string]func()
	unwatch   func()
	pending   map[string]struct{}
	resync    bool
	loaded    bool
	closed    bool
	cancel    context.CancelFunc
	done      chan struct{}
	wake      chan struct{}
	updates   chan []domain.ConversationSummary
}

func NewInbox(log *slog.Logger, aggregator contract.IAggregator, notifier contract.INotifier, viewer string) *Inbox {
	return &Inbox{
		log:        log,
		aggregator: aggregator,
		notifier:   notifier,
		viewer:     viewer,
		watched:    make(map[string]func()),
		pending:    make(map[string]struct{}),
		done:       make(chan struct{}),
		wake:       make(chan struct{}, 1),
		updates:    make(chan []domain.ConversationSummary, 1),
	}
}

// Load builds the initial list and starts following changes. The refresh
// loop lives until ctx is done or Close is called.
func (i *Inbox) Load(ctx context.Context) error {
	i.mu.Lock()
	if i.loaded || i.closed {
		i.mu.Unlock()
		return errors.ErrInvalidState
	}
	i.loaded = true
	// Watched before the first read: a first message in a conversation missing
	// from the list is queued and picked up once the loop starts.
	i.unwatch = i.notifier.WatchReceiver(i.viewer, i)
	i.mu.Unlock()

	summaries, err := i.aggregator.List(ctx, i.viewer)
	if err != nil {
		i.mu.Lock()
		i.unwatch()
		i.unwatch = nil
		i.loaded = false
		i.pending = make(map[string]struct{})
		i.resync = false
		i.mu.Unlock()
		return err
	}

	loopCtx, cancel := context.WithCancel(ctx)
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		cancel()
		return errors.ErrSessionClosed
	}
	i.cancel = cancel
	i.replaceLocked(summaries)
	go i.loop(loopCtx)
	return nil
}

func (i *Inbox) Consume(_ context.Context, evt domain.ChangeEvent) error {
	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		return nil
	}
	if evt.Kind == domain.Resync {
		i.resync = true
	} else {
		i.pending[evt.ConversationID] = struct{}{}
	}
	i.mu.Unlock()

	select {
	case i.wake <- struct{}{}:
	default:
	}
	return nil
}

func (i *Inbox) loop(ctx context.Context) {
	defer close(i.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-i.wake:
			i.refresh(ctx)
		}
	}
}

func (i *Inbox) refresh(ctx context.Context) {
	i.mu.Lock()
	resync := i.resync
	pending := i.pending
	i.resync = false
	i.pending = make(map[string]struct{})
	i.mu.Unlock()

	if resync {
		summaries, err := i.aggregator.List(ctx, i.viewer)
		if err != nil {
			i.log.Warn("Unable to resync inbox", "viewer", i.viewer, "error", err)
			return
		}
		i.mu.Lock()
		defer i.mu.Unlock()
		if !i.closed {
			i.replaceLocked(summaries)
		}
		return
	}

	fresh := make([]domain.ConversationSummary, 0, len(pending))
	for conversationID := range pending {
		summary, err := i.aggregator.Summary(ctx, i.viewer, conversationID)
		if err != nil {
			i.log.Warn("Unable to refresh conversation", "viewer", i.viewer,
				"conversation_id", conversationID, "error", err)
			continue
		}
		fresh = append(fresh, summary)
	}
	if len(fresh) == 0 {
		return
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return
	}
	summaries := slices.Clone(i.summaries)
	for _, summary := range fresh {
		idx := slices.IndexFunc(summaries, func(s domain.ConversationSummary) bool {
			return s.ConversationID == summary.ConversationID
		})
		if idx < 0 {
			summaries = append(summaries, summary)
			if _, ok := i.watched[summary.ConversationID]; !ok {
				i.watched[summary.ConversationID] = i.notifier.WatchConversation(summary.ConversationID, i)
			}
			continue
		}
		summaries[idx] = summary
	}
	domain.SortSummaries(summaries)
	i.summaries = summaries
	i.publishLocked()
}

// replaceLocked installs a full list and aligns the watched conversations on it.
func (i *Inbox) replaceLocked(summaries []domain.ConversationSummary) {
	keep := lo.KeyBy(summaries, func(s domain.ConversationSummary) string { return s.ConversationID })
	for conversationID := range keep {
		if _, ok := i.watched[conversationID]; !ok {
			i.watched[conversationID] = i.notifier.WatchConversation(conversationID, i)
		}
	}
	for conversationID, unsubscribe := range i.watched {
		if _, ok := keep[conversationID]; !ok {
			unsubscribe()
			delete(i.watched, conversationID)
		}
	}
	i.summaries = summaries
	i.publishLocked()
}

func (i *Inbox) publishLocked() {
	snapshot := slices.Clone(i.summaries)
	select {
	case <-i.updates:
	default:
	}
	i.updates <- snapshot
}

// Summaries returns a copy of the current list, already sorted.
func (i *Inbox) Summaries() []domain.ConversationSummary {
	i.mu.Lock()
	defer i.mu.Unlock()
	return slices.Clone(i.summaries)
}

// Updates delivers the latest list only. It is closed by Close.
func (i *Inbox) Updates() <-chan []domain.ConversationSummary {
	return i.updates
}

func (i *Inbox) Close() {
	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		return
	}
	i.closed = true
	for conversationID, unsubscribe := range i.watched {
		unsubscribe()
		delete(i.watched, conversationID)
	}
	if i.unwatch != nil {
		i.unwatch()
	}
	cancel := i.cancel
	close(i.updates)
	i.mu.Unlock()

	if cancel != nil {
		cancel()
		<-i.done
	}
}

package services

import (
	"context"
	"log/slog"
	"market-chat/contract"
	"market-chat/domain"
	"market-chat/errors"
	"sync"
	"time"
)

var _ contract.EventSink = (*Badge)(nil)

// Badge is the unread counter of one signed in viewer, across all of their
// conversations. It lives from sign in (Start) to sign out (Stop).
type Badge struct {
	log        *slog.Logger
	store      contract.IMessageStore
	notifier   contract.INotifier
	receiverID string
	debounce   time.Duration

	refreshMu sync.Mutex // one recount at a time, so the last one wins

	mu          sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	count       int
	pending     bool
	timer       *time.Timer
	unsubscribe func()
	started     bool
	stopped     bool
	updates     chan int
}

func NewBadge(log *slog.Logger, store contract.IMessageStore, notifier contract.INotifier,
	receiverID string, debounce time.Duration) *Badge {
	return &Badge{
		log:        log,
		store:      store,
		notifier:   notifier,
		receiverID: receiverID,
		debounce:   debounce,
		updates:    make(chan int, 1),
	}
}

// Start follows receiver events, then counts once. A change landing during
// the first count schedules a recount that publishes after it.
func (b *Badge) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return errors.ErrInvalidState
	}
	b.started = true
	b.ctx, b.cancel = context.WithCancel(ctx)
	b.unsubscribe = b.notifier.WatchReceiver(b.receiverID, b)
	b.mu.Unlock()

	b.refreshMu.Lock()
	count, err := b.store.CountUnreadForReceiver(ctx, b.receiverID)
	if err == nil {
		b.publish(count)
	}
	b.refreshMu.Unlock()
	if err != nil {
		b.Stop()
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return errors.ErrSessionClosed
	}
	return nil
}

// Consume arms a single recount for the debounce window. Events landing
// while one is armed are absorbed by it.
func (b *Badge) Consume(_ context.Context, evt domain.ChangeEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped || !b.started || b.pending {
		return nil
	}
	b.pending = true
	b.timer = time.AfterFunc(b.debounce, b.refresh)
	b.log.Debug("Badge refresh scheduled", "receiver_id", b.receiverID, "kind", evt.Kind.String())
	return nil
}

func (b *Badge) refresh() {
	b.refreshMu.Lock()
	defer b.refreshMu.Unlock()

	b.mu.Lock()
	b.pending = false
	ctx := b.ctx
	b.mu.Unlock()
	if ctx.Err() != nil {
		return
	}

	count, err := b.store.CountUnreadForReceiver(ctx, b.receiverID)
	if err != nil {
		if ctx.Err() == nil {
			b.log.Warn("Unable to refresh unread badge", "receiver_id", b.receiverID, "error", err)
			// Rearm so the count still converges once the store is back.
			_ = b.Consume(ctx, domain.ChangeEvent{Kind: domain.Resync})
		}
		return
	}
	b.publish(count)
}

func (b *Badge) publish(count int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return
	}
	b.count = count
	select {
	case <-b.updates:
	default:
	}
	b.updates <- count
}

// Count returns the last known unread total.
func (b *Badge) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Updates delivers the latest count only. It is closed by Stop.
func (b *Badge) Updates() <-chan int {
	return b.updates
}

// Stop is idempotent.
func (b *Badge) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return
	}
	b.stopped = true
	if b.timer != nil {
		b.timer.Stop()
	}
	if b.unsubscribe != nil {
		b.unsubscribe()
	}
	if b.cancel != nil {
		b.cancel()
	}
	close(b.updates)
}

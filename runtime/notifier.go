package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"market-chat/contract"
	"market-chat/domain"
	"market-chat/errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	_ contract.INotifier = (*Notifier)(nil)
	_ contract.Worker    = (*Notifier)(nil)
)

// Notifier bridges the push channel to the sinks of the Registry.
//
// Events are refresh triggers, nothing is buffered or replayed. Each time a
// subscription becomes live, first one included, every sink gets a Resync:
// whatever it missed before that point is in the store it re-reads.
// Run is meant to be supervised, it returns when the subscription is lost.
type Notifier struct {
	log         *slog.Logger
	channel     contract.IPushChannel
	registry    *Registry
	sinkTimeout time.Duration
	connections atomic.Int64
	live        chan struct{}
	liveOnce    sync.Once
}

func NewNotifier(log *slog.Logger, channel contract.IPushChannel, registry *Registry, sinkTimeout time.Duration) *Notifier {
	return &Notifier{log: log, channel: channel, registry: registry, sinkTimeout: sinkTimeout, live: make(chan struct{})}
}

// Ready is closed once the first subscription is live.
func (n *Notifier) Ready() <-chan struct{} {
	return n.live
}

func (n *Notifier) WatchConversation(conversationID string, sink contract.EventSink) func() {
	id := n.registry.WatchConversation(conversationID, sink)
	return sync.OnceFunc(func() { n.registry.UnwatchConversation(conversationID, id) })
}

func (n *Notifier) WatchReceiver(receiverID string, sink contract.EventSink) func() {
	id := n.registry.WatchReceiver(receiverID, sink)
	return sync.OnceFunc(func() { n.registry.UnwatchReceiver(receiverID, id) })
}

func (n *Notifier) Run(ctx context.Context) error {
	err := n.channel.Subscribe(ctx, domain.Filter{}, func() { n.connected(ctx) }, func(evt domain.ChangeEvent) {
		n.Dispatch(ctx, evt)
	})
	if err == nil || ctx.Err() != nil {
		return nil
	}
	return fmt.Errorf("%w: %w", errors.ErrSubscriptionLost, err)
}

func (n *Notifier) connected(ctx context.Context) {
	connection := n.connections.Add(1)
	n.log.Info("Push channel subscription live, resyncing sinks",
		"connection", connection, "watchers", n.registry.Size())
	n.Dispatch(ctx, domain.ChangeEvent{Kind: domain.Resync})
	n.liveOnce.Do(func() { close(n.live) })
}

// Dispatch hands evt to every matching sink. Each sink gets sinkTimeout to
// accept it so a stuck consumer cannot hold the others back.
func (n *Notifier) Dispatch(ctx context.Context, evt domain.ChangeEvent) {
	for _, sink := range n.registry.GetSinksForEvent(evt) {
		go func(s contract.EventSink) {
			sinkCtx, cancel := context.WithTimeout(ctx, n.sinkTimeout)
			defer cancel()
			if err := s.Consume(sinkCtx, evt); err != nil {
				n.log.Warn("Sink rejected change event", "kind", evt.Kind.String(),
					"conversation_id", evt.ConversationID, "receiver_id", evt.ReceiverID, "error", err)
			}
		}(sink)
	}
}

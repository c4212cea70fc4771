//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"market-chat/domain"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives refresh triggers. Consume must not block on store
// I/O: it schedules work and returns.
type EventSink interface {
	Consume(ctx context.Context, e domain.ChangeEvent) error
}

// IPushChannel is the asynchronous change stream. Subscribe calls ready once
// the subscription is live: every write committed after that is delivered.
// It then blocks until ctx is canceled (nil error) or the subscription is
// lost (non-nil error). Delivery is at-least-once and unordered across
// conversations.
type IPushChannel interface {
	Subscribe(ctx context.Context, filter domain.Filter, ready func(), handler func(domain.ChangeEvent)) error
}

// INotifier routes change events to the sinks watching a conversation or a receiver.
type INotifier interface {
	WatchConversation(conversationID string, sink EventSink) (unsubscribe func())
	WatchReceiver(receiverID string, sink EventSink) (unsubscribe func())
}

type IMessageStore interface {
	Append(ctx context.Context, conversationID, senderID, receiverID, content string) (domain.Message, error)
	ListByConversation(ctx context.Context, conversationID string) ([]domain.Message, error)
	Latest(ctx context.Context, conversationID string) (domain.Message, bool, error)
	CountUnread(ctx context.Context, conversationID, receiverID string) (int, error)
	CountUnreadForReceiver(ctx context.Context, receiverID string) (int, error)
	Snapshot(ctx context.Context, conversationID, receiverID string) (domain.ConversationSnapshot, error)
}

type IReadTracker interface {
	MarkRead(ctx context.Context, conversationID, receiverID string) (int, error)
}

// IEngagementDirectory is the read side of the external engagement records.
type IEngagementDirectory interface {
	GetEngagement(ctx context.Context, conversationID string) (domain.Engagement, error)
	ListForParticipant(ctx context.Context, participantID string) ([]domain.Engagement, error)
}

type IAggregator interface {
	List(ctx context.Context, viewer string) ([]domain.ConversationSummary, error)
	Summary(ctx context.Context, viewer, conversationID string) (domain.ConversationSummary, error)
}

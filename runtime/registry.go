package runtime

import (
	"market-chat/contract"
	"market-chat/domain"
	"sync"

	"github.com/google/uuid"
)

type subscriptions map[uuid.UUID]contract.EventSink

// Registry knows which sinks watch which conversation and which receiver.
// A sink may watch several of them, each watch has its own id.
type Registry struct {
	mu            sync.RWMutex
	conversations map[string]subscriptions // conversation -> watchers
	receivers     map[string]subscriptions // receiver -> watchers
}

func NewRegistry() *Registry {
	return &Registry{
		conversations: make(map[string]subscriptions),
		receivers:     make(map[string]subscriptions),
	}
}

func (r *Registry) WatchConversation(conversationID string, sink contract.EventSink) uuid.UUID {
	return r.add(r.conversations, conversationID, sink)
}

func (r *Registry) WatchReceiver(receiverID string, sink contract.EventSink) uuid.UUID {
	return r.add(r.receivers, receiverID, sink)
}

func (r *Registry) UnwatchConversation(conversationID string, id uuid.UUID) {
	r.remove(r.conversations, conversationID, id)
}

func (r *Registry) UnwatchReceiver(receiverID string, id uuid.UUID) {
	r.remove(r.receivers, receiverID, id)
}

// GetSinksForEvent returns every sink interested in evt, each at most once
// even if it watches both the conversation and the receiver.
// A Resync event targets all sinks.
func (r *Registry) GetSinksForEvent(evt domain.ChangeEvent) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matching []subscriptions
	if evt.Kind == domain.Resync {
		for _, subs := range r.conversations {
			matching = append(matching, subs)
		}
		for _, subs := range r.receivers {
			matching = append(matching, subs)
		}
	} else {
		if subs, ok := r.conversations[evt.ConversationID]; ok {
			matching = append(matching, subs)
		}
		if subs, ok := r.receivers[evt.ReceiverID]; ok {
			matching = append(matching, subs)
		}
	}

	seen := make(map[contract.EventSink]struct{})
	var sinks []contract.EventSink
	for _, subs := range matching {
		for _, sink := range subs {
			if _, dup := seen[sink]; dup {
				continue
			}
			seen[sink] = struct{}{}
			sinks = append(sinks, sink)
		}
	}
	return sinks
}

// Size returns the number of active watches.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	size := 0
	for _, subs := range r.conversations {
		size += len(subs)
	}
	for _, subs := range r.receivers {
		size += len(subs)
	}
	return size
}

func (r *Registry) add(index map[string]subscriptions, key string, sink contract.EventSink) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.New()
	if _, ok := index[key]; !ok {
		index[key] = make(subscriptions)
	}
	index[key][id] = sink
	return id
}

// remove leaves no empty set behind so the maps do not grow forever.
func (r *Registry) remove(index map[string]subscriptions, key string, id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if subs, ok := index[key]; ok {
		delete(subs, id)
		if len(subs) == 0 {
			delete(index, key)
		}
	}
}

package domain

// ChangeKind is the class of a push channel notification.
type ChangeKind int

const (
	// MessageInserted is emitted once a message has been appended.
	MessageInserted ChangeKind = iota + 1
	// MessageReadStateChanged is emitted when a message flips to read.
	MessageReadStateChanged
	// Resync asks every consumer to re-read the store, e.g. after the
	// subscription has been re-established.
	Resync
)

func (k ChangeKind) String() string {
	switch k {
	case MessageInserted:
		return "insert"
	case MessageReadStateChanged:
		return "update"
	case Resync:
		return "resync"
	default:
		return "unknown"
	}
}

// ChangeEvent is a refresh trigger. It only carries enough identity to
// know which filter matched and is never the payload of truth.
type ChangeEvent struct {
	Kind           ChangeKind
	ConversationID string
	ReceiverID     string
}

// Filter is a predicate over change events. Empty fields match anything.
type Filter struct {
	ConversationID string
	ReceiverID     string
}

func ByConversation(conversationID string) Filter {
	return Filter{ConversationID: conversationID}
}

func ByReceiver(receiverID string) Filter {
	return Filter{ReceiverID: receiverID}
}

func (f Filter) Matches(evt ChangeEvent) bool {
	if evt.Kind == Resync {
		return true
	}
	if f.ConversationID != "" && f.ConversationID != evt.ConversationID {
		return false
	}
	if f.ReceiverID != "" && f.ReceiverID != evt.ReceiverID {
		return false
	}
	return true
}

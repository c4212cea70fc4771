// Package messagingv1 is the wire contract of the marketchat.v1.Messaging
// service described by messaging.proto. Messages travel in the protobuf wire
// format; the json tags only serve debug logging.
package messagingv1

import "time"

type ListConversationsRequest struct{}

type ListConversationsResponse struct {
	Conversations []*ConversationSummary `json:"conversations"`
	UnreadTotal   int32                  `json:"unread_total"`
}

type ConversationSummary struct {
	ConversationID     string    `json:"conversation_id"`
	Title              string    `json:"title"`
	Role               string    `json:"role"`
	OtherParticipantID string    `json:"other_participant_id"`
	LastMessage        string    `json:"last_message"`
	LastMessageAt      time.Time `json:"last_message_at"`
	HasMessages        bool      `json:"has_messages"`
	UnreadCount        int32     `json:"unread_count"`
}

type UnreadCountRequest struct{}

type UnreadCountResponse struct {
	Count int32 `json:"count"`
}

type MarkReadRequest struct {
	ConversationID string `json:"conversation_id"`
}

type MarkReadResponse struct {
	Affected int32 `json:"affected"`
}

type WatchInboxRequest struct{}

// InboxFrame is pushed on every change of the conversation list or badge.
type InboxFrame struct {
	Conversations []*ConversationSummary `json:"conversations,omitempty"`
	UnreadTotal   int32                  `json:"unread_total"`
}

// ChatRequest carries exactly one of its fields. The first frame of a Chat
// stream must be Open.
type ChatRequest struct {
	Open  *OpenChat    `json:"open,omitempty"`
	Send  *SendMessage `json:"send,omitempty"`
	Retry *RetryChat   `json:"retry,omitempty"`
}

type OpenChat struct {
	ConversationID string `json:"conversation_id"`
}

type SendMessage struct {
	RequestID string `json:"request_id"`
	Content   string `json:"content"`
}

type RetryChat struct{}

// ChatResponse carries either a thread view or the outcome of one send.
type ChatResponse struct {
	Thread *Thread  `json:"thread,omitempty"`
	Ack    *SendAck `json:"ack,omitempty"`
}

type Thread struct {
	State              string     `json:"state"`
	ConversationID     string     `json:"conversation_id"`
	Title              string     `json:"title"`
	Role               string     `json:"role"`
	OtherParticipantID string     `json:"other_participant_id"`
	Messages           []*Message `json:"messages"`
	Error              string     `json:"error,omitempty"`
}

type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	Read       bool      `json:"read"`
}

type SendAck struct {
	RequestID string   `json:"request_id"`
	Message   *Message `json:"message,omitempty"`
	Code      string   `json:"code,omitempty"`
	Error     string   `json:"error,omitempty"`
}

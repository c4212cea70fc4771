package messagingv1

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

// wireMessage is implemented by every message of messaging.proto. Field
// numbers below must follow the .proto file and are never reused.
type wireMessage interface {
	appendWire(b []byte) []byte
	// consumeWire decodes one field and returns how many bytes of value it
	// used, negative on malformed input.
	consumeWire(num protowire.Number, typ protowire.Type, value []byte) (int, error)
}

var (
	_ wireMessage = (*ListConversationsRequest)(nil)
	_ wireMessage = (*ListConversationsResponse)(nil)
	_ wireMessage = (*ConversationSummary)(nil)
	_ wireMessage = (*UnreadCountRequest)(nil)
	_ wireMessage = (*UnreadCountResponse)(nil)
	_ wireMessage = (*MarkReadRequest)(nil)
	_ wireMessage = (*MarkReadResponse)(nil)
	_ wireMessage = (*WatchInboxRequest)(nil)
	_ wireMessage = (*InboxFrame)(nil)
	_ wireMessage = (*ChatRequest)(nil)
	_ wireMessage = (*OpenChat)(nil)
	_ wireMessage = (*SendMessage)(nil)
	_ wireMessage = (*RetryChat)(nil)
	_ wireMessage = (*ChatResponse)(nil)
	_ wireMessage = (*Thread)(nil)
	_ wireMessage = (*Message)(nil)
	_ wireMessage = (*SendAck)(nil)
)

func (*ListConversationsRequest) appendWire(b []byte) []byte { return b }

func (*ListConversationsRequest) consumeWire(num protowire.Number, typ protowire.Type, value []byte) (int, error) {
	return skip(num, typ, value)
}

func (r *ListConversationsResponse) appendWire(b []byte) []byte {
	for _, c := range r.Conversations {
		b = appendMessage(b, 1, c)
	}
	return appendInt32(b, 2, r.UnreadTotal)
}

func (r *ListConversationsResponse) consumeWire(num protowire.Number, typ protowire.Type, value []byte) (int, error) {
	switch {
	case num == 1 && typ == protowire.BytesType:
		item := new(ConversationSummary)
		r.Conversations = append(r.Conversations, item)
		return consumeMessage(value, item)
	case num == 2 && typ == protowire.VarintType:
		return consumeInt32(value, &r.UnreadTotal)
	default:
		return skip(num, typ, value)
	}
}

func (s *ConversationSummary) appendWire(b []byte) []byte {
	b = appendString(b, 1, s.ConversationID)
	b = appendString(b, 2, s.Title)
	b = appendString(b, 3, s.Role)
	b = appendString(b, 4, s.OtherParticipantID)
	b = appendString(b, 5, s.LastMessage)
	b = appendTime(b, 6, s.LastMessageAt)
	b = appendBool(b, 7, s.HasMessages)
	return appendInt32(b, 8, s.UnreadCount)
}

func (s *ConversationSummary) consumeWire(num protowire.Number, typ protowire.Type, value []byte) (int, error) {
	switch {
	case typ == protowire.BytesType && num == 1:
		return consumeString(value, &s.ConversationID)
	case typ == protowire.BytesType && num == 2:
		return consumeString(value, &s.Title)
	case typ == protowire.BytesType && num == 3:
		return consumeString(value, &s.Role)
	case typ == protowire.BytesType && num == 4:
		return consumeString(value, &s.OtherParticipantID)
	case typ == protowire.BytesType && num == 5:
		return consumeString(value, &s.LastMessage)
	case typ == protowire.BytesType && num == 6:
		return consumeTime(value, &s.LastMessageAt)
	case typ == protowire.VarintType && num == 7:
		return consumeBool(value, &s.HasMessages)
	case typ == protowire.VarintType && num == 8:
		return consumeInt32(value, &s.UnreadCount)
	default:
		return skip(num, typ, value)
	}
}

func (*UnreadCountRequest) appendWire(b []byte) []byte { return b }

func (*UnreadCountRequest) consumeWire(num protowire.Number, typ protowire.Type, value []byte) (int, error) {
	return skip(num, typ, value)
}

func (r *UnreadCountResponse) appendWire(b []byte) []byte {
	return appendInt32(b, 1, r.Count)
}

func (r *UnreadCountResponse) consumeWire(num protowire.Number, typ protowire.Type, value []byte) (int, error) {
	if num == 1 && typ == protowire.VarintType {
		return consumeInt32(value, &r.Count)
	}
	return skip(num, typ, value)
}

func (r *MarkReadRequest) appendWire(b []byte) []byte {
	return appendString(b, 1, r.ConversationID)
}

func (r *MarkReadRequest) consumeWire(num protowire.Number, typ protowire.Type, value []byte) (int, error) {
	if num == 1 && typ == protowire.BytesType {
		return consumeString(value, &r.ConversationID)
	}
	return skip(num, typ, value)
}

func (r *MarkReadResponse) appendWire(b []byte) []byte {
	return appendInt32(b, 1, r.Affected)
}

func (r *MarkReadResponse) consumeWire(num protowire.Number, typ protowire.Type, value []byte) (int, error) {
	if num == 1 && typ == protowire.VarintType {
		return consumeInt32(value, &r.Affected)
	}
	return skip(num, typ, value)
}

func (*WatchInboxRequest) appendWire(b []byte) []byte { return b }

func (*WatchInboxRequest) consumeWire(num protowire.Number, typ protowire.Type, value []byte) (int, error) {
	return skip(num, typ, value)
}

func (f *InboxFrame) appendWire(b []byte) []byte {
	for _, c := range f.Conversations {
		b = appendMessage(b, 1, c)
	}
	return appendInt32(b, 2, f.UnreadTotal)
}

func (f *InboxFrame) consumeWire(num protowire.Number, typ protowire.Type, value []byte) (int, error) {
	switch {
	case num == 1 && typ == protowire.BytesType:
		item := new(ConversationSummary)
		f.Conversations = append(f.Conversations, item)
		return consumeMessage(value, item)
	case num == 2 && typ == protowire.VarintType:
		return consumeInt32(value, &f.UnreadTotal)
	default:
		return skip(num, typ, value)
	}
}

func (r *ChatRequest) appendWire(b []byte) []byte {
	switch {
	case r.Open != nil:
		return appendMessage(b, 1, r.Open)
	case r.Send != nil:
		return appendMessage(b, 2, r.Send)
	case r.Retry != nil:
		return appendMessage(b, 3, r.Retry)
	default:
		return b
	}
}

// A oneof keeps the last member seen on the wire.
func (r *ChatRequest) consumeWire(num protowire.Number, typ protowire.Type, value []byte) (int, error) {
	if typ != protowire.BytesType {
		return skip(num, typ, value)
	}
	switch num {
	case 1:
		r.Open, r.Send, r.Retry = new(OpenChat), nil, nil
		return consumeMessage(value, r.Open)
	case 2:
		r.Open, r.Send, r.Retry = nil, new(SendMessage), nil
		return consumeMessage(value, r.Send)
	case 3:
		r.Open, r.Send, r.Retry = nil, nil, new(RetryChat)
		return consumeMessage(value, r.Retry)
	default:
		return skip(num, typ, value)
	}
}

func (o *OpenChat) appendWire(b []byte) []byte {
	return appendString(b, 1, o.ConversationID)
}

func (o *OpenChat) consumeWire(num protowire.Number, typ protowire.Type, value []byte) (int, error) {
	if num == 1 && typ == protowire.BytesType {
		return consumeString(value, &o.ConversationID)
	}
	return skip(num, typ, value)
}

func (m *SendMessage) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.RequestID)
	return appendString(b, 2, m.Content)
}

func (m *SendMessage) consumeWire(num protowire.Number, typ protowire.Type, value []byte) (int, error) {
	switch {
	case typ == protowire.BytesType && num == 1:
		return consumeString(value, &m.RequestID)
	case typ == protowire.BytesType && num == 2:
		return consumeString(value, &m.Content)
	default:
		return skip(num, typ, value)
	}
}

func (*RetryChat) appendWire(b []byte) []byte { return b }

func (*RetryChat) consumeWire(num protowire.Number, typ protowire.Type, value []byte) (int, error) {
	return skip(num, typ, value)
}

func (r *ChatResponse) appendWire(b []byte) []byte {
	switch {
	case r.Thread != nil:
		return appendMessage(b, 1, r.Thread)
	case r.Ack != nil:
		return appendMessage(b, 2, r.Ack)
	default:
		return b
	}
}

func (r *ChatResponse) consumeWire(num protowire.Number, typ protowire.Type, value []byte) (int, error) {
	if typ != protowire.BytesType {
		return skip(num, typ, value)
	}
	switch num {
	case 1:
		r.Thread, r.Ack = new(Thread), nil
		return consumeMessage(value, r.Thread)
	case 2:
		r.Thread, r.Ack = nil, new(SendAck)
		return consumeMessage(value, r.Ack)
	default:
		return skip(num, typ, value)
	}
}

func (t *Thread) appendWire(b []byte) []byte {
	b = appendString(b, 1, t.State)
	b = appendString(b, 2, t.ConversationID)
	b = appendString(b, 3, t.Title)
	b = appendString(b, 4, t.Role)
	b = appendString(b, 5, t.OtherParticipantID)
	for _, m := range t.Messages {
		b = appendMessage(b, 6, m)
	}
	return appendString(b, 7, t.Error)
}

func (t *Thread) consumeWire(num protowire.Number, typ protowire.Type, value []byte) (int, error) {
	if typ != protowire.BytesType {
		return skip(num, typ, value)
	}
	switch num {
	case 1:
		return consumeString(value, &t.State)
	case 2:
		return consumeString(value, &t.ConversationID)
	case 3:
		return consumeString(value, &t.Title)
	case 4:
		return consumeString(value, &t.Role)
	case 5:
		return consumeString(value, &t.OtherParticipantID)
	case 6:
		item := new(Message)
		t.Messages = append(t.Messages, item)
		return consumeMessage(value, item)
	case 7:
		return consumeString(value, &t.Error)
	default:
		return skip(num, typ, value)
	}
}

func (m *Message) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.ID)
	b = appendString(b, 2, m.SenderID)
	b = appendString(b, 3, m.ReceiverID)
	b = appendString(b, 4, m.Content)
	b = appendTime(b, 5, m.CreatedAt)
	return appendBool(b, 6, m.Read)
}

func (m *Message) consumeWire(num protowire.Number, typ protowire.Type, value []byte) (int, error) {
	switch {
	case typ == protowire.BytesType && num == 1:
		return consumeString(value, &m.ID)
	case typ == protowire.BytesType && num == 2:
		return consumeString(value, &m.SenderID)
	case typ == protowire.BytesType && num == 3:
		return consumeString(value, &m.ReceiverID)
	case typ == protowire.BytesType && num == 4:
		return consumeString(value, &m.Content)
	case typ == protowire.BytesType && num == 5:
		return consumeTime(value, &m.CreatedAt)
	case typ == protowire.VarintType && num == 6:
		return consumeBool(value, &m.Read)
	default:
		return skip(num, typ, value)
	}
}

func (a *SendAck) appendWire(b []byte) []byte {
	b = appendString(b, 1, a.RequestID)
	if a.Message != nil {
		b = appendMessage(b, 2, a.Message)
	}
	b = appendString(b, 3, a.Code)
	return appendString(b, 4, a.Error)
}

func (a *SendAck) consumeWire(num protowire.Number, typ protowire.Type, value []byte) (int, error) {
	if typ != protowire.BytesType {
		return skip(num, typ, value)
	}
	switch num {
	case 1:
		return consumeString(value, &a.RequestID)
	case 2:
		a.Message = new(Message)
		return consumeMessage(value, a.Message)
	case 3:
		return consumeString(value, &a.Code)
	case 4:
		return consumeString(value, &a.Error)
	default:
		return skip(num, typ, value)
	}
}

// walkFields decodes every field of an encoded message with field.
func walkFields(b []byte, field func(num protowire.Number, typ protowire.Type, value []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("decode tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		m, err := field(num, typ, b)
		if err != nil {
			return err
		}
		if m < 0 {
			return fmt.Errorf("decode field %d: %w", num, protowire.ParseError(m))
		}
		b = b[m:]
	}
	return nil
}

func skip(num protowire.Number, typ protowire.Type, value []byte) (int, error) {
	return protowire.ConsumeFieldValue(num, typ, value), nil
}

// Scalars equal to their zero value are not written, as in proto3.

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendInt32(b []byte, num protowire.Number, v int32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(int64(v)))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}

func appendMessage(b []byte, num protowire.Number, m wireMessage) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m.appendWire(nil))
}

// appendTime writes a google.protobuf.Timestamp. The zero time is left unset.
func appendTime(b []byte, num protowire.Number, t time.Time) []byte {
	if t.IsZero() {
		return b
	}
	var ts []byte
	if seconds := t.Unix(); seconds != 0 {
		ts = protowire.AppendTag(ts, 1, protowire.VarintType)
		ts = protowire.AppendVarint(ts, uint64(seconds))
	}
	if nanos := t.Nanosecond(); nanos != 0 {
		ts = protowire.AppendTag(ts, 2, protowire.VarintType)
		ts = protowire.AppendVarint(ts, uint64(nanos))
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, ts)
}

func consumeString(value []byte, dst *string) (int, error) {
	s, n := protowire.ConsumeString(value)
	if n >= 0 {
		*dst = s
	}
	return n, nil
}

func consumeInt32(value []byte, dst *int32) (int, error) {
	v, n := protowire.ConsumeVarint(value)
	if n >= 0 {
		*dst = int32(v)
	}
	return n, nil
}

func consumeBool(value []byte, dst *bool) (int, error) {
	v, n := protowire.ConsumeVarint(value)
	if n >= 0 {
		*dst = protowire.DecodeBool(v)
	}
	return n, nil
}

func consumeMessage(value []byte, m wireMessage) (int, error) {
	v, n := protowire.ConsumeBytes(value)
	if n < 0 {
		return n, nil
	}
	return n, walkFields(v, m.consumeWire)
}

func consumeTime(value []byte, dst *time.Time) (int, error) {
	v, n := protowire.ConsumeBytes(value)
	if n < 0 {
		return n, nil
	}
	var seconds, nanos int64
	err := walkFields(v, func(num protowire.Number, typ protowire.Type, field []byte) (int, error) {
		if typ != protowire.VarintType || (num != 1 && num != 2) {
			return skip(num, typ, field)
		}
		x, m := protowire.ConsumeVarint(field)
		if num == 1 {
			seconds = int64(x)
		} else {
			nanos = int64(int32(x))
		}
		return m, nil
	})
	*dst = time.Unix(seconds, nanos).UTC()
	return n, err
}

package repositories

import (
	"fmt"
	"market-chat/domain"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"
)

// Stored rows use the protobuf wire format so that fields can be added
// without rewriting existing values. Field numbers must never be reused.
const (
	messageFieldID           protowire.Number = 1
	messageFieldConversation protowire.Number = 2
	messageFieldSender       protowire.Number = 3
	messageFieldReceiver     protowire.Number = 4
	messageFieldContent      protowire.Number = 5
	messageFieldCreatedAt    protowire.Number = 6
	messageFieldRead         protowire.Number = 7
)

const (
	engagementFieldConversation protowire.Number = 1
	engagementFieldCustomer     protowire.Number = 2
	engagementFieldProvider     protowire.Number = 3
	engagementFieldTitle        protowire.Number = 4
	engagementFieldCreatedAt    protowire.Number = 5
)

func marshalMessage(m domain.Message) []byte {
	var b []byte
	b = appendString(b, messageFieldID, m.ID.String())
	b = appendString(b, messageFieldConversation, m.ConversationID)
	b = appendString(b, messageFieldSender, m.SenderID)
	b = appendString(b, messageFieldReceiver, m.ReceiverID)
	b = appendString(b, messageFieldContent, m.Content)
	b = protowire.AppendTag(b, messageFieldCreatedAt, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.CreatedAt.UnixNano()))
	b = protowire.AppendTag(b, messageFieldRead, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeBool(m.Read))
	return b
}

func unmarshalMessage(b []byte) (domain.Message, error) {
	var m domain.Message
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, value []byte) (int, error) {
		switch {
		case typ == protowire.BytesType && num <= messageFieldContent:
			s, n := protowire.ConsumeString(value)
			if n < 0 {
				return n, nil
			}
			switch num {
			case messageFieldID:
				id, err := uuid.Parse(s)
				if err != nil {
					return 0, fmt.Errorf("message id: %w", err)
				}
				m.ID = id
			case messageFieldConversation:
				m.ConversationID = s
			case messageFieldSender:
				m.SenderID = s
			case messageFieldReceiver:
				m.ReceiverID = s
			case messageFieldContent:
				m.Content = s
			}
			return n, nil
		case typ == protowire.VarintType && num == messageFieldCreatedAt:
			v, n := protowire.ConsumeVarint(value)
			m.CreatedAt = time.Unix(0, int64(v)).UTC()
			return n, nil
		case typ == protowire.VarintType && num == messageFieldRead:
			v, n := protowire.ConsumeVarint(value)
			m.Read = protowire.DecodeBool(v)
			return n, nil
		default:
			return protowire.ConsumeFieldValue(num, typ, value), nil
		}
	})
	return m, err
}

func marshalEngagement(e domain.Engagement) []byte {
	var b []byte
	b = appendString(b, engagementFieldConversation, e.ConversationID)
	b = appendString(b, engagementFieldCustomer, e.CustomerID)
	b = appendString(b, engagementFieldProvider, e.ProviderID)
	b = appendString(b, engagementFieldTitle, e.Title)
	b = protowire.AppendTag(b, engagementFieldCreatedAt, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(e.CreatedAt.UnixNano()))
	return b
}

func unmarshalEngagement(b []byte) (domain.Engagement, error) {
	var e domain.Engagement
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, value []byte) (int, error) {
		switch {
		case typ == protowire.BytesType && num <= engagementFieldTitle:
			s, n := protowire.ConsumeString(value)
			switch num {
			case engagementFieldConversation:
				e.ConversationID = s
			case engagementFieldCustomer:
				e.CustomerID = s
			case engagementFieldProvider:
				e.ProviderID = s
			case engagementFieldTitle:
				e.Title = s
			}
			return n, nil
		case typ == protowire.VarintType && num == engagementFieldCreatedAt:
			v, n := protowire.ConsumeVarint(value)
			e.CreatedAt = time.Unix(0, int64(v)).UTC()
			return n, nil
		default:
			return protowire.ConsumeFieldValue(num, typ, value), nil
		}
	})
	return e, err
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// consumeFields walks every field of an encoded record. The callback returns
// how many bytes of value it consumed, negative on malformed input.
func consumeFields(b []byte, field func(num protowire.Number, typ protowire.Type, value []byte) (int, error)) error {
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

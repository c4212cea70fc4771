// Package domain contains core concepts of the messaging core.
// This file defines Message records and the content rules.
// Messages are immutable once stored, except for the read flag.
package domain

import (
	"bytes"
	"market-chat/errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// MaxContentLength is counted in characters (runes), after trimming.
const MaxContentLength = 1000

const (
	reasonEmptyContent = "message cannot be empty"
	reasonTooLong      = "message too long"
)

var validate = validator.New()

// Message is one entry of a conversation's append-only log.
type Message struct {
	ID             uuid.UUID
	ConversationID string
	SenderID       string
	ReceiverID     string
	Content        string
	CreatedAt      time.Time
	Read           bool
}

// Before reports whether m comes before other in the store order:
// CreatedAt ascending, then ID ascending.
func (m Message) Before(other Message) bool {
	if !m.CreatedAt.Equal(other.CreatedAt) {
		return m.CreatedAt.Before(other.CreatedAt)
	}
	return bytes.Compare(m.ID[:], other.ID[:]) < 0
}

// IsAddressedTo reports whether the message was received by participantID.
func (m Message) IsAddressedTo(participantID string) bool {
	return m.ReceiverID == participantID
}

type content struct {
	Text string `validate:"required,max=1000"`
}

// NormalizeContent trims surrounding whitespace and checks the length rule.
// The returned error is a *errors.ValidationError with a user facing reason.
func NormalizeContent(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if err := validate.Struct(content{Text: trimmed}); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 && fieldErrs[0].Tag() == "max" {
			return "", errors.NewValidationError(reasonTooLong)
		}
		return "", errors.NewValidationError(reasonEmptyContent)
	}
	return trimmed, nil
}

// InsertOrdered merges msg into an already ordered slice, keeping the store
// order and ignoring a message whose ID is already present.
func InsertOrdered(messages []Message, msg Message) []Message {
	for _, existing := range messages {
		if existing.ID == msg.ID {
			return messages
		}
	}
	i := len(messages)
	for i > 0 && msg.Before(messages[i-1]) {
		i--
	}
	res := make([]Message, 0, len(messages)+1)
	res = append(res, messages[:i]...)
	res = append(res, msg)
	return append(res, messages[i:]...)
}

// MergeOrdered merges two slices already in store order in a single pass.
// A message present in both is kept once, as found in fresh.
func MergeOrdered(fresh, known []Message) []Message {
	inFresh := lo.KeyBy(fresh, func(m Message) uuid.UUID { return m.ID })
	res := make([]Message, 0, len(fresh)+len(known))
	i, j := 0, 0
	for i < len(fresh) || j < len(known) {
		if j < len(known) {
			if _, dup := inFresh[known[j].ID]; dup {
				j++
				continue
			}
		}
		if j == len(known) || (i < len(fresh) && fresh[i].Before(known[j])) {
			res = append(res, fresh[i])
			i++
			continue
		}
		res = append(res, known[j])
		j++
	}
	return res
}

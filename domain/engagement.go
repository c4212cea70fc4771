package domain

import (
	"fmt"
	"market-chat/errors"
	"time"
)

// Engagement is the external transactional record that allows two
// identities to talk to each other. One engagement is one conversation.
// CustomerID and ProviderID are the two participants.
type Engagement struct {
	ConversationID string    `validate:"required,excludes=:"`
	CustomerID     string    `validate:"required,excludes=:"`
	ProviderID     string    `validate:"required,excludes=:,nefield=CustomerID"`
	Title          string    `validate:"required"`
	CreatedAt      time.Time
}

func (e Engagement) Validate() error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrInvalidEngagement, err)
	}
	if e.CreatedAt.IsZero() {
		return fmt.Errorf("%w: missing creation time", errors.ErrInvalidEngagement)
	}
	return nil
}

func (e Engagement) HasParticipant(participantID string) bool {
	return participantID != "" && (e.CustomerID == participantID || e.ProviderID == participantID)
}

// Counterpart resolves the viewer's role and the other participant once.
// A viewer outside the engagement is not authorized.
func (e Engagement) Counterpart(viewer string) (Counterpart, error) {
	switch viewer {
	case "":
		return Counterpart{}, errors.ErrNotAuthorized
	case e.CustomerID:
		return Counterpart{Role: RoleCustomer, OtherID: e.ProviderID}, nil
	case e.ProviderID:
		return Counterpart{Role: RoleProvider, OtherID: e.CustomerID}, nil
	default:
		return Counterpart{}, errors.ErrNotAuthorized
	}
}

// Role is the viewer's side of an engagement.
type Role int

const (
	RoleCustomer Role = iota + 1
	RoleProvider
)

func (r Role) String() string {
	switch r {
	case RoleCustomer:
		return "customer"
	case RoleProvider:
		return "provider"
	default:
		return "unknown"
	}
}

// Counterpart is the viewer's role within a conversation together with the
// identity on the other side.
type Counterpart struct {
	Role    Role
	OtherID string
}

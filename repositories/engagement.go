package repositories

import (
	"context"
	"fmt"
	"market-chat/domain"
	"market-chat/errors"

	"github.com/dgraph-io/badger/v4"
)

const (
	engagementKeyPrefix  = "eng:"
	participantKeyPrefix = "part:"
)

type IEngagementRepository interface {
	SaveEngagement(ctx context.Context, engagement domain.Engagement) error
	GetEngagement(ctx context.Context, conversationID string) (domain.Engagement, error)
	ListForParticipant(ctx context.Context, participantID string) ([]domain.Engagement, error)
}

// EngagementRepository is the local copy of the engagement records owned by
// the marketplace. The messaging core only reads it; SaveEngagement is the
// entry point used by the owner of those records.
type EngagementRepository struct {
	db *badger.DB
}

func NewEngagementRepository(db *badger.DB) *EngagementRepository {
	return &EngagementRepository{db: db}
}

// SaveEngagement stores the record under "eng:{conversation}" and indexes it
// for both participants under "part:{participant}:{created_padded}:{conversation}",
// which keeps ListForParticipant in creation order.
func (r *EngagementRepository) SaveEngagement(ctx context.Context, engagement domain.Engagement) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := engagement.Validate(); err != nil {
		return err
	}
	engagement.CreatedAt = engagement.CreatedAt.UTC()
	err := r.db.Update(func(txn *badger.Txn) error {
		previous, err := getEngagementInTxn(txn, engagement.ConversationID)
		switch {
		case err == nil:
			for _, participantID := range []string{previous.CustomerID, previous.ProviderID} {
				if err = txn.Delete(participantKey(participantID, previous)); err != nil {
					return err
				}
			}
		case !errors.Is(err, errors.ErrConversationNotFound):
			return err
		}
		if err = txn.Set([]byte(engagementKeyPrefix+engagement.ConversationID), marshalEngagement(engagement)); err != nil {
			return err
		}
		for _, participantID := range []string{engagement.CustomerID, engagement.ProviderID} {
			if err = txn.Set(participantKey(participantID, engagement), nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Unavailable("save engagement", err)
	}
	return nil
}

func (r *EngagementRepository) GetEngagement(ctx context.Context, conversationID string) (domain.Engagement, error) {
	if err := ctx.Err(); err != nil {
		return domain.Engagement{}, err
	}
	var engagement domain.Engagement
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		engagement, err = getEngagementInTxn(txn, conversationID)
		return err
	})
	switch {
	case err == nil:
		return engagement, nil
	case errors.Is(err, errors.ErrConversationNotFound):
		return domain.Engagement{}, err
	default:
		return domain.Engagement{}, errors.Unavailable("get engagement", err)
	}
}

// ListForParticipant returns every engagement the participant belongs to,
// oldest first.
func (r *EngagementRepository) ListForParticipant(ctx context.Context, participantID string) ([]domain.Engagement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var engagements []domain.Engagement
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(participantKeyPrefix + participantID + ":")
		keys := collectKeys(txn, prefix, int(^uint(0)>>1))
		for _, key := range keys {
			conversationID := string(key[len(prefix)+20:])
			engagement, err := getEngagementInTxn(txn, conversationID)
			if errors.Is(err, errors.ErrConversationNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			engagements = append(engagements, engagement)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Unavailable("list engagements", err)
	}
	return engagements, nil
}

func getEngagementInTxn(txn *badger.Txn, conversationID string) (domain.Engagement, error) {
	item, err := txn.Get([]byte(engagementKeyPrefix + conversationID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Engagement{}, fmt.Errorf("%w: %s", errors.ErrConversationNotFound, conversationID)
	}
	if err != nil {
		return domain.Engagement{}, err
	}
	var engagement domain.Engagement
	err = item.Value(func(value []byte) error {
		engagement, err = unmarshalEngagement(value)
		return err
	})
	return engagement, err
}

// participantKey layout: "part:{participant}:" + 19 digits + ":" + conversation.
func participantKey(participantID string, engagement domain.Engagement) []byte {
	return []byte(fmt.Sprintf("%s%s:%019d:%s",
		participantKeyPrefix, participantID, engagement.CreatedAt.UnixNano(), engagement.ConversationID))
}

// Package channel turns storage changes into refresh triggers.
package channel

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"market-chat/contract"
	"market-chat/domain"
	"market-chat/repositories"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/pb"
	"github.com/google/uuid"
)

const (
	readyKeyPrefix     = "feed:ready:"
	readyProbeInterval = 20 * time.Millisecond
	readyMarkerTTL     = time.Minute
)

var _ contract.IPushChannel = (*BadgerChannel)(nil)

// BadgerChannel follows writes on the message rows through badger's key
// change subscription. A freshly written unread row is an insert, a row
// rewritten as read is a read state change.
type BadgerChannel struct {
	db  *badger.DB
	log *slog.Logger
}

func NewBadgerChannel(db *badger.DB, log *slog.Logger) *BadgerChannel {
	return &BadgerChannel{db: db, log: log}
}

// Subscribe narrows the watched key space to the conversation when the
// filter names one; the receiver part is checked on the decoded row.
//
// badger does not report when a subscription is registered, so a marker key
// private to this subscription is written until it comes back through the
// feed. Seeing it proves every later commit will be delivered.
func (c *BadgerChannel) Subscribe(ctx context.Context, filter domain.Filter, ready func(), handler func(domain.ChangeEvent)) error {
	marker := []byte(readyKeyPrefix + uuid.NewString())
	matches := []pb.Match{
		{Prefix: repositories.MessageKeyPrefix(filter.ConversationID)},
		{Prefix: marker},
	}
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	live := make(chan struct{})
	var once sync.Once
	go c.confirm(subCtx, marker, live)

	err := c.db.Subscribe(subCtx, func(list *badger.KVList) error {
		for _, kv := range list.GetKv() {
			if bytes.Equal(kv.GetKey(), marker) {
				once.Do(func() {
					close(live)
					ready()
				})
				continue
			}
			evt, ok := c.toEvent(kv)
			if ok && filter.Matches(evt) {
				handler(evt)
			}
		}
		return nil
	}, matches)
	if ctx.Err() != nil {
		return nil
	}
	if err == nil {
		err = badger.ErrDBClosed
	}
	return fmt.Errorf("badger subscription: %w", err)
}

// confirm writes the marker until the subscription sees it, then removes it.
func (c *BadgerChannel) confirm(ctx context.Context, marker []byte, live <-chan struct{}) {
	ticker := time.NewTicker(readyProbeInterval)
	defer ticker.Stop()
	for {
		err := c.db.Update(func(txn *badger.Txn) error {
			return txn.SetEntry(badger.NewEntry(marker, nil).WithTTL(readyMarkerTTL))
		})
		if err != nil {
			c.log.Debug("Unable to write subscription marker", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-live:
			if err = c.db.Update(func(txn *badger.Txn) error { return txn.Delete(marker) }); err != nil {
				c.log.Debug("Unable to remove subscription marker", "error", err)
			}
			return
		case <-ticker.C:
		}
	}
}

func (c *BadgerChannel) toEvent(kv *pb.KV) (domain.ChangeEvent, bool) {
	conversationID, ok := repositories.ConversationFromMessageKey(kv.GetKey())
	if !ok {
		return domain.ChangeEvent{}, false
	}
	message, err := repositories.DecodeMessage(kv.GetValue())
	if err != nil {
		c.log.Warn("Skipping undecodable message row", "key", string(kv.GetKey()), "error", err)
		return domain.ChangeEvent{}, false
	}
	kind := domain.MessageInserted
	if message.Read {
		kind = domain.MessageReadStateChanged
	}
	return domain.ChangeEvent{Kind: kind, ConversationID: conversationID, ReceiverID: message.ReceiverID}, true
}

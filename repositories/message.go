//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"market-chat/domain"
	"market-chat/errors"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const (
	messageKeyPrefix = "msg:"
	unreadKeyPrefix  = "unread:"

	maxConflictRetries = 5
	defaultReadBatch   = 512
	appendLockStripes  = 64
)

type IMessageRepository interface {
	StoreMessage(ctx context.Context, message domain.Message) (domain.Message, error)
	GetMessages(ctx context.Context, conversationID string) ([]domain.Message, error)
	GetLatest(ctx context.Context, conversationID string) (domain.Message, bool, error)
	CountUnread(ctx context.Context, conversationID, receiverID string) (int, error)
	CountUnreadForReceiver(ctx context.Context, receiverID string) (int, error)
	Snapshot(ctx context.Context, conversationID, receiverID string) (domain.ConversationSnapshot, error)
	MarkRead(ctx context.Context, conversationID, receiverID string) (int, error)
}

type MessageRepository struct {
	db        *badger.DB
	log       *slog.Logger
	now       func() time.Time
	readBatch int
	// Appends to one conversation are serialized. Conversations share a
	// fixed set of stripes so the lock table never grows.
	locks [appendLockStripes]sync.Mutex
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) *MessageRepository {
	return &MessageRepository{db: db, log: log, now: time.Now, readBatch: defaultReadBatch}
}

// WithClock replaces the server clock, mostly for tests.
func (m *MessageRepository) WithClock(now func() time.Time) *MessageRepository {
	m.now = now
	return m
}

// WithReadBatch bounds how many messages one MarkRead transaction flips.
func (m *MessageRepository) WithReadBatch(size int) *MessageRepository {
	if size > 0 {
		m.readBatch = size
	}
	return m
}

// StoreMessage appends a message to its conversation log.
// The key is formatted as "msg:{conversation}:{timestamp_padded}:{uuid}" to:
//  1. Keep chronological order using 19-digit zero padding (lexicographical order).
//  2. Break ties between messages sharing a timestamp with the uuid, which
//     gives a deterministic total order.
//
// The server assigns ID and CreatedAt. CreatedAt is moved one nanosecond past
// the current latest message when the clock has not advanced, so the new row
// is always last whatever its uuid.
// An unread index entry "unread:{receiver}:{conversation}:..." is written in
// the same transaction.
func (m *MessageRepository) StoreMessage(ctx context.Context, message domain.Message) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, err
	}
	lock := m.lockFor(message.ConversationID)
	lock.Lock()
	defer lock.Unlock()

	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	message.Read = false
	err := m.update(func(txn *badger.Txn) error {
		at := m.now().UTC()
		latest, found, err := latestInTxn(txn, message.ConversationID)
		if err != nil {
			return err
		}
		if found && !at.After(latest.CreatedAt) {
			at = latest.CreatedAt.Add(time.Nanosecond)
		}
		message.CreatedAt = at
		if err = txn.Set(messageKey(message.ConversationID, at, message.ID), marshalMessage(message)); err != nil {
			return err
		}
		return txn.Set(unreadKey(message.ReceiverID, message.ConversationID, at, message.ID), nil)
	})
	if err != nil {
		return domain.Message{}, errors.Unavailable("store message", err)
	}
	m.log.Debug("Message stored", "conversation_id", message.ConversationID, "message_id", message.ID)
	return message, nil
}

// GetMessages retrieves the whole conversation with a prefix scan.
// Thanks to the padded timestamp in the key, messages come out in store order.
func (m *MessageRepository) GetMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(messagePrefix(conversationID))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var message domain.Message
			err := it.Item().Value(func(value []byte) error {
				var err error
				message, err = unmarshalMessage(value)
				return err
			})
			if err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Unavailable("get messages", err)
	}
	return messages, nil
}

func (m *MessageRepository) GetLatest(ctx context.Context, conversationID string) (domain.Message, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, false, err
	}
	var (
		latest domain.Message
		found  bool
	)
	err := m.db.View(func(txn *badger.Txn) error {
		var err error
		latest, found, err = latestInTxn(txn, conversationID)
		return err
	})
	if err != nil {
		return domain.Message{}, false, errors.Unavailable("get latest message", err)
	}
	return latest, found, nil
}

func (m *MessageRepository) CountUnread(ctx context.Context, conversationID, receiverID string) (int, error) {
	return m.countKeys(ctx, unreadConversationPrefix(receiverID, conversationID))
}

func (m *MessageRepository) CountUnreadForReceiver(ctx context.Context, receiverID string) (int, error) {
	return m.countKeys(ctx, unreadReceiverPrefix(receiverID))
}

// Snapshot reads the latest message and the unread count in one read
// transaction, so both values describe the same point in time.
func (m *MessageRepository) Snapshot(ctx context.Context, conversationID, receiverID string) (domain.ConversationSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.ConversationSnapshot{}, err
	}
	var snapshot domain.ConversationSnapshot
	err := m.db.View(func(txn *badger.Txn) error {
		latest, found, err := latestInTxn(txn, conversationID)
		if err != nil {
			return err
		}
		if found {
			snapshot.Latest = &latest
		}
		snapshot.UnreadCount = countInTxn(txn, []byte(unreadConversationPrefix(receiverID, conversationID)))
		return nil
	})
	if err != nil {
		return domain.ConversationSnapshot{}, errors.Unavailable("conversation snapshot", err)
	}
	return snapshot, nil
}

// MarkRead flips every unread message addressed to receiverID in the
// conversation. Only rows indexed under the receiver are visited, so a
// caller can never touch messages it did not receive. The update is a
// predicate over the unread index: running it again affects nothing, and
// concurrent runs are resolved by badger's conflict detection and a retry.
func (m *MessageRepository) MarkRead(ctx context.Context, conversationID, receiverID string) (int, error) {
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		var affected, visited int
		err := m.update(func(txn *badger.Txn) error {
			affected, visited = 0, 0
			keys := collectKeys(txn, []byte(unreadConversationPrefix(receiverID, conversationID)), m.readBatch)
			visited = len(keys)
			for _, key := range keys {
				flipped, err := markRowRead(txn, conversationID, receiverID, key)
				if err != nil {
					return err
				}
				if flipped {
					affected++
				}
				if err = txn.Delete(key); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return total, errors.Unavailable("mark read", err)
		}
		total += affected
		if visited < m.readBatch {
			if total > 0 {
				m.log.Debug("Messages marked as read",
					"conversation_id", conversationID, "receiver_id", receiverID, "count", total)
			}
			return total, nil
		}
	}
}

func markRowRead(txn *badger.Txn, conversationID, receiverID string, unread []byte) (bool, error) {
	suffix := unread[len(unreadConversationPrefix(receiverID, conversationID)):]
	key := append([]byte(messagePrefix(conversationID)), suffix...)
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	var message domain.Message
	if err = item.Value(func(value []byte) error {
		message, err = unmarshalMessage(value)
		return err
	}); err != nil {
		return false, err
	}
	if message.Read || message.ReceiverID != receiverID {
		return false, nil
	}
	message.Read = true
	return true, txn.Set(key, marshalMessage(message))
}

func (m *MessageRepository) countKeys(ctx context.Context, prefix string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	count := 0
	err := m.db.View(func(txn *badger.Txn) error {
		count = countInTxn(txn, []byte(prefix))
		return nil
	})
	if err != nil {
		return 0, errors.Unavailable("count unread", err)
	}
	return count, nil
}

// update retries a read-write transaction when badger detects a conflict
// with a concurrently committed one.
func (m *MessageRepository) update(fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = m.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		m.log.Debug("Transaction conflict, retrying", "attempt", attempt+1)
	}
	return err
}

func (m *MessageRepository) lockFor(conversationID string) *sync.Mutex {
	return &m.locks[xxhash.Sum64String(conversationID)%appendLockStripes]
}

func latestInTxn(txn *badger.Txn, conversationID string) (domain.Message, bool, error) {
	prefix := []byte(messagePrefix(conversationID))
	options := badger.DefaultIteratorOptions
	options.Reverse = true
	options.PrefetchSize = 1
	it := txn.NewIterator(options)
	defer it.Close()

	// Every key of the prefix sorts before prefix+0xFF
	it.Seek(append(bytes.Clone(prefix), 0xFF))
	if !it.ValidForPrefix(prefix) {
		return domain.Message{}, false, nil
	}
	var latest domain.Message
	err := it.Item().Value(func(value []byte) error {
		var err error
		latest, err = unmarshalMessage(value)
		return err
	})
	if err != nil {
		return domain.Message{}, false, err
	}
	return latest, true, nil
}

func countInTxn(txn *badger.Txn, prefix []byte) int {
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = false
	options.Prefix = prefix
	it := txn.NewIterator(options)
	defer it.Close()
	count := 0
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		count++
	}
	return count
}

func collectKeys(txn *badger.Txn, prefix []byte, limit int) [][]byte {
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = false
	options.Prefix = prefix
	it := txn.NewIterator(options)
	defer it.Close()
	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix) && len(keys) < limit; it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys
}

func messagePrefix(conversationID string) string {
	return messageKeyPrefix + conversationID + ":"
}

func messageKey(conversationID string, at time.Time, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", messagePrefix(conversationID), at.UnixNano(), id))
}

func unreadReceiverPrefix(receiverID string) string {
	return unreadKeyPrefix + receiverID + ":"
}

func unreadConversationPrefix(receiverID, conversationID string) string {
	return unreadReceiverPrefix(receiverID) + conversationID + ":"
}

func unreadKey(receiverID, conversationID string, at time.Time, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", unreadConversationPrefix(receiverID, conversationID), at.UnixNano(), id))
}

// ConversationFromMessageKey extracts the conversation id of a "msg:" key.
func ConversationFromMessageKey(key []byte) (string, bool) {
	if !bytes.HasPrefix(key, []byte(messageKeyPrefix)) {
		return "", false
	}
	rest := key[len(messageKeyPrefix):]
	end := bytes.IndexByte(rest, ':')
	if end <= 0 {
		return "", false
	}
	return string(rest[:end]), true
}

// MessageKeyPrefix is the key space watched by the change feed.
func MessageKeyPrefix(conversationID string) []byte {
	if conversationID == "" {
		return []byte(messageKeyPrefix)
	}
	return []byte(messagePrefix(conversationID))
}

// DecodeMessage exposes the row codec to the change feed and inspection tools.
func DecodeMessage(value []byte) (domain.Message, error) {
	return unmarshalMessage(value)
}

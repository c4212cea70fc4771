package channel

import (
	"context"
	"log/slog"
	"market-chat/domain"
	"market-chat/repositories"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []domain.ChangeEvent
}

func (r *recorder) handle(evt domain.ChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recorder) snapshot() []domain.ChangeEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ChangeEvent(nil), r.events...)
}

func openDB(t *testing.T) *badger.DB {
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func subscribe(t *testing.T, filter domain.Filter) (*repositories.MessageRepository, *recorder) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	db := openDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	rec := &recorder{}
	result := make(chan error, 1)
	ready := make(chan struct{})
	go func() {
		result <- NewBadgerChannel(db, log).Subscribe(ctx, filter, func() { close(ready) }, rec.handle)
	}()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-result)
	})
	select {
	case <-ready:
	case <-time.After(time.Second):
		require.Fail(t, "Subscription never became live")
	}
	return repositories.NewMessageRepository(db, log), rec
}

func Test_Inserts_And_Reads_For_One_Receiver(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository, rec := subscribe(t, domain.ByReceiver("bob"))

	// Given one message for bob and one for alice
	_, err := repository.StoreMessage(ctx, domain.Message{ConversationID: "c1", SenderID: "alice", ReceiverID: "bob", Content: "Hello"})
	req.NoError(err)
	_, err = repository.StoreMessage(ctx, domain.Message{ConversationID: "c1", SenderID: "bob", ReceiverID: "alice", Content: "Hi"})
	req.NoError(err)

	// Then bob's filter only sees his insert
	inserted := domain.ChangeEvent{Kind: domain.MessageInserted, ConversationID: "c1", ReceiverID: "bob"}
	req.Eventually(func() bool { return len(rec.snapshot()) == 1 }, time.Second, 10*time.Millisecond)
	req.Equal(inserted, rec.snapshot()[0])

	// When bob reads the conversation
	_, err = repository.MarkRead(ctx, "c1", "bob")
	req.NoError(err)

	// Then a read state change follows
	req.Eventually(func() bool { return len(rec.snapshot()) == 2 }, time.Second, 10*time.Millisecond)
	req.Equal(domain.ChangeEvent{Kind: domain.MessageReadStateChanged, ConversationID: "c1", ReceiverID: "bob"}, rec.snapshot()[1])
}

func Test_Conversation_Filter_Ignores_Other_Conversations(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository, rec := subscribe(t, domain.ByConversation("c1"))

	_, err := repository.StoreMessage(ctx, domain.Message{ConversationID: "c10", SenderID: "alice", ReceiverID: "bob", Content: "elsewhere"})
	req.NoError(err)
	_, err = repository.StoreMessage(ctx, domain.Message{ConversationID: "c1", SenderID: "alice", ReceiverID: "bob", Content: "here"})
	req.NoError(err)

	req.Eventually(func() bool { return len(rec.snapshot()) >= 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	for _, evt := range rec.snapshot() {
		req.Equal("c1", evt.ConversationID)
	}
}

func Test_Ready_Marker_Is_Not_An_Event_And_Is_Cleaned_Up(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	db := openDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	rec := &recorder{}
	var readyCalls atomic.Int32
	result := make(chan error, 1)

	go func() {
		result <- NewBadgerChannel(db, log).Subscribe(ctx, domain.Filter{}, func() { readyCalls.Add(1) }, rec.handle)
	}()

	// Then ready fires once, no event is derived from the marker and it is removed
	req.Eventually(func() bool { return readyCalls.Load() == 1 }, time.Second, 10*time.Millisecond)
	req.Eventually(func() bool {
		found := false
		_ = db.View(func(txn *badger.Txn) error {
			options := badger.DefaultIteratorOptions
			options.Prefix = []byte(readyKeyPrefix)
			it := txn.NewIterator(options)
			defer it.Close()
			it.Rewind()
			found = it.Valid()
			return nil
		})
		return !found
	}, time.Second, 10*time.Millisecond)
	time.Sleep(3 * readyProbeInterval)
	req.Equal(int32(1), readyCalls.Load())
	req.Empty(rec.snapshot())

	cancel()
	req.NoError(<-result)
}

func Test_Subscription_Fails_When_The_Database_Closes(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	ready := make(chan struct{})
	result := make(chan error, 1)

	go func() {
		result <- NewBadgerChannel(db, log).Subscribe(context.Background(), domain.Filter{}, func() { close(ready) }, func(domain.ChangeEvent) {})
	}()
	<-ready

	// When the store goes away under a live subscription
	req.NoError(db.Close())

	// Then the loss is reported
	select {
	case err = <-result:
		req.Error(err)
	case <-time.After(2 * time.Second):
		req.Fail("Subscription outlived the database")
	}
}

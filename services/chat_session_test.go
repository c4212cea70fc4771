package services

import (
	"context"
	"log/slog"
	"market-chat/contract"
	"market-chat/domain"
	"market-chat/errors"
	"market-chat/mocks"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// captureWatch records the sink registered for a conversation and whether it
// was released.
type captureWatch struct {
	mu           sync.Mutex
	sink         contract.EventSink
	unsubscribed bool
}

func (c *captureWatch) watch(_ string, sink contract.EventSink) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sink = sink
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.unsubscribed = true
	}
}

func (c *captureWatch) released() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unsubscribed
}

func newWatchingNotifier(t *testing.T, conversationID string) (*mocks.MockINotifier, *captureWatch) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockINotifier(ctrl)
	capture := &captureWatch{}
	notifier.EXPECT().WatchConversation(conversationID, gomock.Any()).DoAndReturn(capture.watch).Times(1)
	return notifier, capture
}

func Test_Open_Loads_History_And_Marks_It_Read(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	conversationID := f.engagement(t, "alice", "bob", "Painting", time.Now().UTC())
	_, err := f.store.Append(ctx, conversationID, "alice", "bob", "Hello")
	req.NoError(err)
	_, err = f.store.Append(ctx, conversationID, "alice", "bob", "Are you free?")
	req.NoError(err)
	notifier, _ := newWatchingNotifier(t, conversationID)

	// When bob opens the conversation
	session := NewChatSession(logs.GetLoggerFromLevel(slog.LevelDebug), f.store, f.tracker, f.engagements, notifier)
	defer session.Close()
	req.NoError(session.Open(ctx, conversationID, "bob"))

	// Then the thread is ready, titled and fully read
	view := session.View()
	req.Equal(StateReady, view.State)
	req.Equal("Painting", view.Title)
	req.Equal(domain.Counterpart{Role: domain.RoleProvider, OtherID: "alice"}, view.Counterpart)
	req.Len(view.Messages, 2)
	for _, m := range view.Messages {
		req.True(m.Read)
	}
	unread, err := f.store.CountUnread(ctx, conversationID, "bob")
	req.NoError(err)
	req.Zero(unread)
}

func Test_Send_Appends_To_The_View(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	conversationID := f.engagement(t, "alice", "bob", "Painting", time.Now().UTC())
	notifier, _ := newWatchingNotifier(t, conversationID)
	session := NewChatSession(logs.GetLoggerFromLevel(slog.LevelDebug), f.store, f.tracker, f.engagements, notifier)
	defer session.Close()
	req.NoError(session.Open(ctx, conversationID, "alice"))

	sent, err := session.Send(ctx, " Hello ")

	req.NoError(err)
	req.Equal("bob", sent.ReceiverID)
	view := session.View()
	req.Equal(StateReady, view.State)
	req.Equal([]domain.Message{sent}, view.Messages)
	req.NoError(view.Err)
}

func Test_Send_Validation_Error_Keeps_History(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	conversationID := f.engagement(t, "alice", "bob", "Painting", time.Now().UTC())
	notifier, _ := newWatchingNotifier(t, conversationID)
	session := NewChatSession(logs.GetLoggerFromLevel(slog.LevelDebug), f.store, f.tracker, f.engagements, notifier)
	defer session.Close()
	req.NoError(session.Open(ctx, conversationID, "alice"))
	_, err := session.Send(ctx, "first")
	req.NoError(err)

	// When sending blank content
	_, err = session.Send(ctx, "   ")

	// Then the reason is surfaced and nothing moved
	req.ErrorIs(err, errors.ErrValidation)
	view := session.View()
	req.Equal(StateReady, view.State)
	req.EqualError(view.Err, "message cannot be empty")
	req.Len(view.Messages, 1)
	messages, err := f.store.ListByConversation(ctx, conversationID)
	req.NoError(err)
	req.Len(messages, 1)

	// And the next valid send clears it
	_, err = session.Send(ctx, "second")
	req.NoError(err)
	req.NoError(session.View().Err)
}

func Test_Incoming_Message_Refreshes_And_Marks_Read(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	conversationID := f.engagement(t, "alice", "bob", "Painting", time.Now().UTC())
	notifier, capture := newWatchingNotifier(t, conversationID)
	session := NewChatSession(logs.GetLoggerFromLevel(slog.LevelDebug), f.store, f.tracker, f.engagements, notifier)
	defer session.Close()
	req.NoError(session.Open(ctx, conversationID, "bob"))

	// Given alice writes while bob looks at the conversation
	_, err := f.store.Append(ctx, conversationID, "alice", "bob", "Are you there?")
	req.NoError(err)

	// When the notification arrives, twice
	evt := domain.ChangeEvent{Kind: domain.MessageInserted, ConversationID: conversationID, ReceiverID: "bob"}
	req.NoError(capture.sink.Consume(ctx, evt))
	req.NoError(capture.sink.Consume(ctx, evt))

	// Then the view shows it and nothing is left unread
	req.Eventually(func() bool {
		view := session.View()
		return len(view.Messages) == 1 && view.Messages[0].Read
	}, time.Second, 10*time.Millisecond)
	unread, err := f.store.CountUnread(ctx, conversationID, "bob")
	req.NoError(err)
	req.Zero(unread)
}

func Test_Own_Message_Notification_Does_Not_Mark_Read(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIMessageStore(ctrl)
	tracker := mocks.NewMockIReadTracker(ctrl)
	directory := mocks.NewMockIEngagementDirectory(ctrl)
	notifier, capture := newWatchingNotifier(t, "c1")
	refreshed := make(chan struct{})

	directory.EXPECT().GetEngagement(gomock.Any(), "c1").Return(domain.Engagement{
		ConversationID: "c1", CustomerID: "alice", ProviderID: "bob", Title: "Painting", CreatedAt: time.Now(),
	}, nil)
	store.EXPECT().ListByConversation(gomock.Any(), "c1").Return(nil, nil).Times(1)
	// Only the initial open marks read
	tracker.EXPECT().MarkRead(gomock.Any(), "c1", "alice").Return(0, nil).Times(1)

	session := NewChatSession(logs.GetLoggerFromLevel(slog.LevelDebug), store, tracker, directory, notifier)
	defer session.Close()
	req.NoError(session.Open(ctx, "c1", "alice"))

	// When the notification is about a message alice sent to bob
	store.EXPECT().ListByConversation(gomock.Any(), "c1").
		DoAndReturn(func(context.Context, string) ([]domain.Message, error) {
			close(refreshed)
			return nil, nil
		}).Times(1)
	req.NoError(capture.sink.Consume(ctx, domain.ChangeEvent{Kind: domain.MessageInserted, ConversationID: "c1", ReceiverID: "bob"}))

	select {
	case <-refreshed:
	case <-time.After(time.Second):
		req.Fail("Session did not refresh")
	}
}

func Test_Failed_Load_Goes_To_Error_Then_Retry(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIMessageStore(ctrl)
	tracker := mocks.NewMockIReadTracker(ctrl)
	directory := mocks.NewMockIEngagementDirectory(ctrl)
	notifier, _ := newWatchingNotifier(t, "c1")
	engagement := domain.Engagement{ConversationID: "c1", CustomerID: "alice", ProviderID: "bob", Title: "Painting", CreatedAt: time.Now()}
	message := domain.Message{ID: uuid.New(), ConversationID: "c1", SenderID: "bob", ReceiverID: "alice", Content: "Hi", CreatedAt: time.Now()}

	directory.EXPECT().GetEngagement(gomock.Any(), "c1").Return(engagement, nil).Times(2)
	gomock.InOrder(
		store.EXPECT().ListByConversation(gomock.Any(), "c1").Return(nil, errors.Unavailable("list", context.DeadlineExceeded)),
		store.EXPECT().ListByConversation(gomock.Any(), "c1").Return([]domain.Message{message}, nil),
	)
	tracker.EXPECT().MarkRead(gomock.Any(), "c1", "alice").Return(1, nil)

	session := NewChatSession(logs.GetLoggerFromLevel(slog.LevelDebug), store, tracker, directory, notifier)
	defer session.Close()

	// When the store is unreachable at open
	err := session.Open(ctx, "c1", "alice")

	// Then the session is in a recoverable error
	req.ErrorIs(err, errors.ErrStoreUnavailable)
	req.Equal(StateError, session.View().State)
	_, err = session.Send(ctx, "hello")
	req.ErrorIs(err, errors.ErrInvalidState)

	// When retrying
	req.NoError(session.Retry(ctx))

	view := session.View()
	req.Equal(StateReady, view.State)
	req.Len(view.Messages, 1)
	req.True(view.Messages[0].Read)
	req.ErrorIs(session.Retry(ctx), errors.ErrInvalidState)
}

func Test_Close_Stops_Everything(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	conversationID := f.engagement(t, "alice", "bob", "Painting", time.Now().UTC())
	notifier, capture := newWatchingNotifier(t, conversationID)
	session := NewChatSession(logs.GetLoggerFromLevel(slog.LevelDebug), f.store, f.tracker, f.engagements, notifier)
	req.NoError(session.Open(ctx, conversationID, "bob"))

	session.Close()
	session.Close()

	req.True(capture.released())
	req.Equal(StateClosed, session.View().State)
	_, err := session.Send(ctx, "too late")
	req.ErrorIs(err, errors.ErrSessionClosed)

	// A late notification is dropped silently
	_, err = f.store.Append(ctx, conversationID, "alice", "bob", "hello?")
	req.NoError(err)
	req.NoError(capture.sink.Consume(ctx, domain.ChangeEvent{Kind: domain.MessageInserted, ConversationID: conversationID, ReceiverID: "bob"}))
	time.Sleep(50 * time.Millisecond)
	req.Empty(session.View().Messages)
	unread, err := f.store.CountUnread(ctx, conversationID, "bob")
	req.NoError(err)
	req.Equal(1, unread)

	// And updates are closed after the last view
	for range session.Updates() {
	}
}

func Test_In_Flight_Send_Is_Discarded_After_Close(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIMessageStore(ctrl)
	tracker := mocks.NewMockIReadTracker(ctrl)
	directory := mocks.NewMockIEngagementDirectory(ctrl)
	notifier, _ := newWatchingNotifier(t, "c1")
	release := make(chan struct{})
	entered := make(chan struct{})

	directory.EXPECT().GetEngagement(gomock.Any(), "c1").Return(domain.Engagement{
		ConversationID: "c1", CustomerID: "alice", ProviderID: "bob", Title: "Painting", CreatedAt: time.Now(),
	}, nil)
	store.EXPECT().ListByConversation(gomock.Any(), "c1").Return(nil, nil)
	tracker.EXPECT().MarkRead(gomock.Any(), "c1", "alice").Return(0, nil)
	store.EXPECT().Append(gomock.Any(), "c1", "alice", "bob", "slow").
		DoAndReturn(func(context.Context, string, string, string, string) (domain.Message, error) {
			close(entered)
			<-release
			return domain.Message{ID: uuid.New(), ConversationID: "c1", SenderID: "alice", ReceiverID: "bob", Content: "slow", CreatedAt: time.Now()}, nil
		})

	session := NewChatSession(logs.GetLoggerFromLevel(slog.LevelDebug), store, tracker, directory, notifier)
	req.NoError(session.Open(ctx, "c1", "alice"))

	// Given a send is in flight
	result := make(chan error, 1)
	go func() {
		_, err := session.Send(ctx, "slow")
		result <- err
	}()
	<-entered
	req.Equal(StateSending, session.View().State)

	// When the session closes before the store answers
	session.Close()
	close(release)

	// Then the send completes but the view is left alone
	req.NoError(<-result)
	view := session.View()
	req.Equal(StateClosed, view.State)
	req.Empty(view.Messages)
}

func Test_Sends_Are_Serialized(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIMessageStore(ctrl)
	tracker := mocks.NewMockIReadTracker(ctrl)
	directory := mocks.NewMockIEngagementDirectory(ctrl)
	notifier, _ := newWatchingNotifier(t, "c1")
	var inFlight, maxInFlight atomic.Int32

	directory.EXPECT().GetEngagement(gomock.Any(), "c1").Return(domain.Engagement{
		ConversationID: "c1", CustomerID: "alice", ProviderID: "bob", Title: "Painting", CreatedAt: time.Now(),
	}, nil)
	store.EXPECT().ListByConversation(gomock.Any(), "c1").Return(nil, nil)
	tracker.EXPECT().MarkRead(gomock.Any(), "c1", "alice").Return(0, nil)
	store.EXPECT().Append(gomock.Any(), "c1", "alice", "bob", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, _, content string) (domain.Message, error) {
			current := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				seen := maxInFlight.Load()
				if current <= seen || maxInFlight.CompareAndSwap(seen, current) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			return domain.Message{ID: uuid.New(), ConversationID: "c1", SenderID: "alice", ReceiverID: "bob", Content: content, CreatedAt: time.Now()}, nil
		}).Times(3)

	session := NewChatSession(logs.GetLoggerFromLevel(slog.LevelDebug), store, tracker, directory, notifier)
	defer session.Close()
	req.NoError(session.Open(ctx, "c1", "alice"))

	// When three sends race
	var wg sync.WaitGroup
	for _, content := range []string{"one", "two", "three"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := session.Send(ctx, content)
			req.NoError(err)
		}()
	}
	wg.Wait()

	// Then they went through one at a time
	req.Equal(int32(1), maxInFlight.Load())
	req.Len(session.View().Messages, 3)
}

// writeDuringList runs during once, right after the first history read.
type writeDuringList struct {
	contract.IMessageStore
	once   sync.Once
	during func()
}

func (w *writeDuringList) ListByConversation(ctx context.Context, conversationID string) ([]domain.Message, error) {
	messages, err := w.IMessageStore.ListByConversation(ctx, conversationID)
	w.once.Do(w.during)
	return messages, err
}

func Test_Message_Stored_While_Opening_Is_Shown(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	conversationID := f.engagement(t, "alice", "bob", "Painting", time.Now().UTC())
	_, err := f.store.Append(ctx, conversationID, "bob", "alice", "Hello")
	req.NoError(err)
	notifier, capture := newWatchingNotifier(t, conversationID)

	// Given bob writes again between alice's history read and her mark read
	store := &writeDuringList{IMessageStore: f.store}
	store.during = func() {
		_, err := f.store.Append(ctx, conversationID, "bob", "alice", "Still there?")
		req.NoError(err)
		capture.mu.Lock()
		sink := capture.sink
		capture.mu.Unlock()
		if sink != nil {
			req.NoError(sink.Consume(ctx, domain.ChangeEvent{Kind: domain.MessageInserted, ConversationID: conversationID, ReceiverID: "alice"}))
		}
	}

	// When alice opens the conversation
	session := NewChatSession(logs.GetLoggerFromLevel(slog.LevelDebug), store, f.tracker, f.engagements, notifier)
	defer session.Close()
	req.NoError(session.Open(ctx, conversationID, "alice"))

	// Then both messages end up on screen, read, and nothing is left unread
	req.Eventually(func() bool {
		view := session.View()
		return view.State == StateReady && len(view.Messages) == 2 && view.Messages[0].Read && view.Messages[1].Read
	}, time.Second, 10*time.Millisecond)
	unread, err := f.store.CountUnread(ctx, conversationID, "alice")
	req.NoError(err)
	req.Zero(unread)
}

func Test_Stranger_Cannot_Retry_Into_A_Conversation(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	conversationID := f.engagement(t, "alice", "bob", "Painting", time.Now().UTC())
	notifier, capture := newWatchingNotifier(t, conversationID)
	session := NewChatSession(logs.GetLoggerFromLevel(slog.LevelDebug), f.store, f.tracker, f.engagements, notifier)
	defer session.Close()

	// When carol opens a conversation she is not part of
	err := session.Open(ctx, conversationID, "carol")

	// Then the failure is final: no retry and no more notifications
	req.ErrorIs(err, errors.ErrNotAuthorized)
	req.Equal(StateError, session.View().State)
	req.True(capture.released())
	err = session.Retry(ctx)
	req.ErrorIs(err, errors.ErrInvalidState)
	req.ErrorIs(err, errors.ErrNotAuthorized)
	req.Equal(StateError, session.View().State)
}

func Test_Unknown_Conversation_Is_Not_Retried(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	notifier, _ := newWatchingNotifier(t, "missing")
	session := NewChatSession(logs.GetLoggerFromLevel(slog.LevelDebug), f.store, f.tracker, f.engagements, notifier)
	defer session.Close()

	req.ErrorIs(session.Open(ctx, "missing", "alice"), errors.ErrConversationNotFound)
	req.ErrorIs(session.Retry(ctx), errors.ErrInvalidState)
}

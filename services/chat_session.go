package services

import (
	"context"
	"fmt"
	"log/slog"
	"market-chat/contract"
	"market-chat/domain"
	"market-chat/errors"
	"slices"
	"sync"
)

type SessionState int

const (
	StateLoading SessionState = iota + 1
	StateReady
	StateSending
	StateError
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSending:
		return "sending"
	case StateError:
		return "error"
	case StateClosed:
		return "closed"
	default:
		return "new"
	}
}

// ThreadView is what a client renders for an open conversation.
type ThreadView struct {
	State          SessionState
	ConversationID string
	Title          string
	Counterpart    domain.Counterpart
	Messages       []domain.Message
	Err            error
}

var _ contract.EventSink = (*ChatSession)(nil)

// ChatSession is one viewer looking at one conversation.
//
// Loading -> Ready, Ready -> Sending -> Ready, Ready -> Ready on refresh,
// any -> Error on a failed fetch, Error -> Loading on Retry. Closed is terminal,
// and so is an Error caused by a failure that retrying cannot fix.
type ChatSession struct {
	log         *slog.Logger
	store       contract.IMessageStore
	tracker     contract.IReadTracker
	engagements contract.IEngagementDirectory
	notifier    contract.INotifier

	sendMu sync.Mutex

	mu              sync.Mutex
	state           SessionState
	conversationID  string
	viewer          string
	engagement      domain.Engagement
	counterpart     domain.Counterpart
	messages        []domain.Message
	lastErr         error
	pendingMarkRead bool
	stale           bool
	unsubscribe     func()
	cancel          context.CancelFunc
	done            chan struct{}
	trigger         chan struct{}
	updates         chan ThreadView
}

func NewChatSession(log *slog.Logger, store contract.IMessageStore, tracker contract.IReadTracker,
	engagements contract.IEngagementDirectory, notifier contract.INotifier) *ChatSession {
	return &ChatSession{
		log:         log,
		store:       store,
		tracker:     tracker,
		engagements: engagements,
		notifier:    notifier,
		done:        make(chan struct{}),
		trigger:     make(chan struct{}, 1),
		updates:     make(chan ThreadView, 1),
	}
}

// Open starts following the thread, then loads it and marks it read for the
// viewer. ctx bounds the whole session, not only the initial load.
func (s *ChatSession) Open(ctx context.Context, conversationID, viewer string) error {
	s.mu.Lock()
	if s.state != 0 {
		s.mu.Unlock()
		return errors.ErrInvalidState
	}
	s.conversationID = conversationID
	s.viewer = viewer
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.setStateLocked(StateLoading, nil)
	// Watch before the first read: a message stored while loading is either
	// in the history or marks the session stale.
	s.unsubscribe = s.notifier.WatchConversation(conversationID, s)
	s.mu.Unlock()

	go s.loop(loopCtx)
	return s.load(ctx)
}

// Retry reloads a session stuck in Error. A failure that a reload cannot fix,
// such as a viewer outside the engagement, is refused.
func (s *ChatSession) Retry(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateError {
		s.mu.Unlock()
		return errors.ErrInvalidState
	}
	if !errors.IsRetryable(s.lastErr) {
		err := s.lastErr
		s.mu.Unlock()
		return fmt.Errorf("%w: %w", errors.ErrInvalidState, err)
	}
	s.stale = false
	s.setStateLocked(StateLoading, nil)
	s.mu.Unlock()
	return s.load(ctx)
}

func (s *ChatSession) load(ctx context.Context) error {
	engagement, err := s.engagements.GetEngagement(ctx, s.conversationID)
	if err != nil {
		return s.fail(err)
	}
	counterpart, err := engagement.Counterpart(s.viewer)
	if err != nil {
		return s.fail(err)
	}
	messages, err := s.store.ListByConversation(ctx, s.conversationID)
	if err != nil {
		return s.fail(err)
	}
	affected, err := s.tracker.MarkRead(ctx, s.conversationID, s.viewer)
	if err != nil {
		return s.fail(err)
	}
	if affected > 0 {
		messages = markReadLocally(messages, s.viewer)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return errors.ErrSessionClosed
	}
	s.engagement = engagement
	s.counterpart = counterpart
	s.messages = messages
	s.setStateLocked(StateReady, nil)
	if s.stale {
		s.stale = false
		s.scheduleLocked()
	}
	s.log.Debug("Chat session ready", "conversation_id", s.conversationID,
		"viewer", s.viewer, "messages", len(messages), "marked_read", affected)
	return nil
}

func (s *ChatSession) fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return errors.ErrSessionClosed
	}
	retryable := errors.IsRetryable(err)
	s.log.Warn("Chat session failed to load", "conversation_id", s.conversationID,
		"viewer", s.viewer, "retryable", retryable, "error", err)
	if !retryable && s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.setStateLocked(StateError, err)
	return err
}

// Send appends content as a message from the viewer to the counterpart.
// Only one send is in flight per session; a second call waits for the first.
// A failed send leaves history untouched and the session Ready.
func (s *ChatSession) Send(ctx context.Context, content string) (domain.Message, error) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	s.mu.Lock()
	switch s.state {
	case StateReady:
	case StateClosed:
		s.mu.Unlock()
		return domain.Message{}, errors.ErrSessionClosed
	default:
		state := s.state
		s.mu.Unlock()
		return domain.Message{}, fmt.Errorf("%w: session is %s", errors.ErrInvalidState, state)
	}
	receiverID := s.counterpart.OtherID
	s.setStateLocked(StateSending, s.lastErr)
	s.mu.Unlock()

	msg, err := s.store.Append(ctx, s.conversationID, s.viewer, receiverID, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		// Stored or not, a closed view is never touched again.
		return msg, err
	}
	if err != nil {
		s.setStateLocked(StateReady, err)
		return domain.Message{}, err
	}
	s.messages = domain.InsertOrdered(s.messages, msg)
	s.setStateLocked(StateReady, nil)
	return msg, nil
}

// Consume schedules a refresh. An insert addressed to the viewer also marks
// the conversation read since the viewer is looking at it.
func (s *ChatSession) Consume(_ context.Context, evt domain.ChangeEvent) error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil
	}
	if evt.Kind == domain.Resync || (evt.Kind == domain.MessageInserted && evt.ReceiverID == s.viewer) {
		s.pendingMarkRead = true
	}
	if s.state == StateReady || s.state == StateSending {
		s.scheduleLocked()
	} else {
		// Replayed once the load in progress lands on Ready
		s.stale = true
	}
	s.mu.Unlock()
	return nil
}

func (s *ChatSession) scheduleLocked() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

func (s *ChatSession) loop(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.trigger:
			s.refresh(ctx)
		}
	}
}

func (s *ChatSession) refresh(ctx context.Context) {
	s.mu.Lock()
	if s.state != StateReady && s.state != StateSending {
		s.mu.Unlock()
		return
	}
	markRead := s.pendingMarkRead
	s.pendingMarkRead = false
	s.mu.Unlock()

	if markRead {
		if _, err := s.tracker.MarkRead(ctx, s.conversationID, s.viewer); err != nil {
			s.refreshFailed(ctx, err)
			return
		}
	}
	messages, err := s.store.ListByConversation(ctx, s.conversationID)
	if err != nil {
		s.refreshFailed(ctx, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return
	}
	// Messages are never deleted, so anything known locally but missing from
	// the fetched log was stored after that read.
	s.messages = domain.MergeOrdered(messages, s.messages)
	s.setStateLocked(s.state, s.lastErr)
}

func (s *ChatSession) refreshFailed(ctx context.Context, err error) {
	if ctx.Err() != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.Warn("Chat session refresh failed", "conversation_id", s.conversationID, "viewer", s.viewer, "error", err)
	switch s.state {
	case StateReady:
		s.setStateLocked(StateError, err)
	case StateSending:
		// The send owns the state, it will land back on Ready.
		s.lastErr = err
	}
}

// Close unsubscribes and stops refreshing. It is idempotent.
func (s *ChatSession) Close() {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	opened := s.state != 0
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.setStateLocked(StateClosed, nil)
	close(s.updates)
	cancel := s.cancel
	s.mu.Unlock()

	if opened {
		cancel()
		<-s.done
	}
}

// View returns a copy of the current thread.
func (s *ChatSession) View() ThreadView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Updates delivers the latest view only. It is closed by Close.
func (s *ChatSession) Updates() <-chan ThreadView {
	return s.updates
}

func (s *ChatSession) viewLocked() ThreadView {
	return ThreadView{
		State:          s.state,
		ConversationID: s.conversationID,
		Title:          s.engagement.Title,
		Counterpart:    s.counterpart,
		Messages:       slices.Clone(s.messages),
		Err:            s.lastErr,
	}
}

func (s *ChatSession) setStateLocked(state SessionState, err error) {
	s.state = state
	s.lastErr = err
	if state == StateClosed {
		return
	}
	view := s.viewLocked()
	select {
	case <-s.updates:
	default:
	}
	s.updates <- view
}

func markReadLocally(messages []domain.Message, viewer string) []domain.Message {
	res := slices.Clone(messages)
	for i := range res {
		if res[i].IsAddressedTo(viewer) {
			res[i].Read = true
		}
	}
	return res
}

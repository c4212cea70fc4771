package domain

import (
	"sort"
	"time"
)

// NoMessagesYet is displayed for a conversation without any message.
const NoMessagesYet = "No messages yet"

// PlaceholderTime is the last message time of an empty conversation.
// It is the zero time, lower than any stored message.
var PlaceholderTime = time.Time{}

// ConversationSummary is the derived, viewer scoped view of one engagement.
type ConversationSummary struct {
	ConversationID      string
	Title               string
	Counterpart         Counterpart
	LastMessage         string
	LastMessageAt       time.Time
	HasMessages         bool
	UnreadCount         int
	EngagementCreatedAt time.Time
}

// ConversationSnapshot is what the store knows about one conversation for
// one receiver, read at a single point in time.
type ConversationSnapshot struct {
	Latest      *Message
	UnreadCount int
}

// NewConversationSummary joins an engagement with the store snapshot.
func NewConversationSummary(engagement Engagement, counterpart Counterpart, snapshot ConversationSnapshot) ConversationSummary {
	summary := ConversationSummary{
		ConversationID:      engagement.ConversationID,
		Title:               engagement.Title,
		Counterpart:         counterpart,
		LastMessage:         NoMessagesYet,
		LastMessageAt:       PlaceholderTime,
		UnreadCount:         snapshot.UnreadCount,
		EngagementCreatedAt: engagement.CreatedAt,
	}
	if snapshot.Latest != nil {
		summary.LastMessage = snapshot.Latest.Content
		summary.LastMessageAt = snapshot.Latest.CreatedAt
		summary.HasMessages = true
	}
	return summary
}

// SortSummaries orders by last message time descending. Empty conversations
// carry PlaceholderTime and therefore come last. Ties fall back to engagement
// creation order, then conversation id, so the order is total.
func SortSummaries(summaries []ConversationSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if !a.LastMessageAt.Equal(b.LastMessageAt) {
			return a.LastMessageAt.After(b.LastMessageAt)
		}
		if !a.EngagementCreatedAt.Equal(b.EngagementCreatedAt) {
			return a.EngagementCreatedAt.Before(b.EngagementCreatedAt)
		}
		return a.ConversationID < b.ConversationID
	})
}

// TotalUnread sums unread counts over summaries.
func TotalUnread(summaries []ConversationSummary) int {
	total := 0
	for _, s := range summaries {
		total += s.UnreadCount
	}
	return total
}

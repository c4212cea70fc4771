package main

import (
	"bytes"
	pb "market-chat/infrastructure/grpc/messagingv1"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRender_Lists_Conversations_In_Order(t *testing.T) {
	req := require.New(t)
	var out bytes.Buffer
	frame := &pb.InboxFrame{
		UnreadTotal: 2,
		Conversations: []*pb.ConversationSummary{
			{Title: "Painting", OtherParticipantID: "bob", Role: "customer", LastMessage: "Hello",
				LastMessageAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), HasMessages: true, UnreadCount: 2},
			{Title: "Plumbing", OtherParticipantID: "carol", Role: "provider", LastMessage: "No messages yet"},
		},
	}

	// When the frame is rendered without colours
	Render(&out, frame, false)

	// Then the badge comes first and rows keep the server order
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	req.Equal("Unread: 2", lines[0])
	req.Len(lines, 4)
	req.Contains(lines[2], "Painting")
	req.Contains(lines[2], "Hello")
	req.Contains(lines[3], "Plumbing")
	req.Contains(lines[3], "No messages yet")
}

func TestPreview_Truncates_Long_Content(t *testing.T) {
	req := require.New(t)

	req.Equal("short", preview("short"))
	long := preview(strings.Repeat("é", 100))
	req.Len([]rune(long), previewLength)
	req.True(strings.HasSuffix(long, "..."))
}

package main

import (
	"fmt"
	"io"
	pb "market-chat/infrastructure/grpc/messagingv1"
	"strconv"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

const previewLength = 40

var unreadStyle = color.New(color.FgYellow, color.OpBold)

// Render prints the unread badge and one row per conversation, in the order
// the server sent them.
func Render(w io.Writer, frame *pb.InboxFrame, colours bool) {
	badge := fmt.Sprintf("Unread: %d", frame.UnreadTotal)
	if colours && frame.UnreadTotal > 0 {
		badge = unreadStyle.Render(badge)
	}
	fmt.Fprintln(w, badge)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Title", "With", "Role", "Last message", "At", "Unread"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	table.AppendBulk(lo.Map(frame.Conversations, func(item *pb.ConversationSummary, _ int) []string {
		return row(item, colours)
	}))
	table.Render()
}

func row(summary *pb.ConversationSummary, colours bool) []string {
	at := "-"
	if summary.HasMessages {
		at = summary.LastMessageAt.Local().Format(time.DateTime)
	}
	unread := strconv.Itoa(int(summary.UnreadCount))
	if colours && summary.UnreadCount > 0 {
		unread = unreadStyle.Render(unread)
	}
	return []string{summary.Title, summary.OtherParticipantID, summary.Role, preview(summary.LastMessage), at, unread}
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength-3]) + "..."
}

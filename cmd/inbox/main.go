package main

import (
	"context"
	"fmt"
	pb "market-chat/infrastructure/grpc/messagingv1"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress string `envconfig:"INBOX_SERVER_ADDR" default:"localhost:8080"`
	Token         string `envconfig:"INBOX_TOKEN" required:"true"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"INFO"`
	// INBOX_COLOURS highlights conversations with unread messages
	Colours bool `envconfig:"INBOX_COLOURS" default:"true"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Inbox error: %v\n", err)
	}
	os.Exit(code)
}

// run follows the caller's inbox and reprints the conversation table on
// every frame until Ctrl+C or the server goes away.
func run() (int, error) {
	_ = godotenv.Load()
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := grpc.NewClient(config.ServerAddress, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close()
	}()

	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+config.Token)
	stream, err := pb.NewMessagingClient(conn).WatchInbox(ctx, &pb.WatchInboxRequest{})
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open inbox stream: %w", err)
	}
	log.Info("Watching inbox (Ctrl+C to quit)", "server", config.ServerAddress)

	for {
		frame, err := stream.Recv()
		if err != nil {
			if ctx.Err() != nil {
				return exitOK, nil
			}
			return exitRuntime, fmt.Errorf("stream error: %w", err)
		}
		// Clear the terminal before each redraw
		fmt.Print("\033[H\033[2J")
		Render(os.Stdout, frame, config.Colours)
	}
}

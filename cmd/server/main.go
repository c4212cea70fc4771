package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"market-chat/auth"
	"market-chat/channel"
	pb "market-chat/infrastructure/grpc/messagingv1"
	"market-chat/infrastructure/grpc/server"
	"market-chat/internal"
	"market-chat/repositories"
	"market-chat/runtime"
	"market-chat/runtime/workers"
	"market-chat/services"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	grpc3 "github.com/mama165/sdk-go/grpc"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires storage, the change feed and the gRPC surface, then blocks until
// a signal arrives or the server fails. Deferred cleanups run before main exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(ctx, config, logger))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if logger.Enabled(ctx, slog.LevelDebug) {
		endpoint := "/inspect"
		logger.Info("Debug Badger inspector available", "url", fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint))
		database.StartDebugServer(db, config.DebugPort, endpoint, MessageMapper)
	}

	// 3. Core services
	messageRepository := repositories.NewMessageRepository(db, logger)
	engagementRepository := repositories.NewEngagementRepository(db)
	store := services.NewMessageStore(logger, messageRepository, engagementRepository)
	tracker := services.NewReadTracker(logger, messageRepository)
	aggregator := services.NewAggregator(logger, store, engagementRepository, config.AggregationConcurrency)

	// 4. Change feed under supervision: a lost subscription is retried with backoff
	// and every sink gets a resync once it is back.
	notifier := runtime.NewNotifier(logger, channel.NewBadgerChannel(db, logger), runtime.NewRegistry(), config.SinkTimeout)
	supervisor := workers.NewSupervisor(logger).
		WithBackoff(config.RestartInterval, config.MaxRestartInterval)
	supervisor.Add(notifier)
	supervisorDone := make(chan struct{})
	go func() {
		defer close(supervisorDone)
		supervisor.Run(ctx)
	}()

	// 5. gRPC Server Setup
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	interceptor := auth.NewInterceptor(auth.NewTokens(config.JWTSecret))
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc3.UnaryLoggingInterceptor(logger),
			interceptor.Unary(),
		),
		grpc.ChainStreamInterceptor(interceptor.Stream()),
	)
	pb.RegisterMessagingServer(s, server.NewMessagingServer(logger, store, tracker, engagementRepository,
		aggregator, notifier, config.BadgeDebounce))

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting gRPC server", "address", address, "at", time.Now().UTC())
		for serviceName := range s.GetServiceInfo() {
			logger.Debug("gRPC exposed services", "name", serviceName)
		}
		if err := s.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 6. Wait for Stop or Error
	code := exitOK
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err = <-errChan:
		code = exitRuntime
	}

	// 7. Streams end first so no session outlives the change feed
	logger.Info("Shutting down gracefully...")
	s.GracefulStop()
	supervisor.Stop()
	<-supervisorDone
	logger.Info("Program stopped cleanly")

	return code, err
}

func buildBadgerOpts(ctx context.Context, config internal.Config, logger *slog.Logger) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)
	if logger.Enabled(ctx, slog.LevelDebug) {
		return options.WithLoggingLevel(badger.DEBUG).WithBypassLockGuard(true)
	}
	return options.WithLoggingLevel(badger.INFO)
}

// MessageMapper renders message rows in the debug inspector.
func MessageMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)
	if _, ok := repositories.ConversationFromMessageKey([]byte(key)); !ok {
		return row
	}
	message, err := repositories.DecodeMessage(val)
	if err != nil {
		return row
	}
	row.Type = "UNREAD"
	if message.Read {
		row.Type = "READ"
	}
	row.Detail = fmt.Sprintf("%s -> %s: %s", message.SenderID, message.ReceiverID, message.Content)
	return row
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"market-chat/auth"
	"market-chat/domain"
	"market-chat/internal"
	"market-chat/repositories"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
)

// seed registers one engagement and prints a bearer token for each participant.
// Run it while the server is stopped, badger holds a directory lock.
func main() {
	conversationID := flag.String("conversation", "", "Conversation id of the engagement")
	customerID := flag.String("customer", "", "Customer user id")
	providerID := flag.String("provider", "", "Provider user id")
	title := flag.String("title", "", "Engagement title")
	flag.Parse()

	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	engagement := domain.Engagement{
		ConversationID: *conversationID,
		CustomerID:     *customerID,
		ProviderID:     *providerID,
		Title:          *title,
		CreatedAt:      time.Now().UTC(),
	}
	if err = repositories.NewEngagementRepository(db).SaveEngagement(context.Background(), engagement); err != nil {
		log.Fatalf("Failed to save engagement: %v", err)
	}
	fmt.Printf("Engagement %q saved (%s <-> %s)\n", engagement.ConversationID, engagement.CustomerID, engagement.ProviderID)

	tokens := auth.NewTokens(config.JWTSecret)
	for _, userID := range []string{engagement.CustomerID, engagement.ProviderID} {
		token, err := tokens.Generate(userID, config.AuthTokenDuration)
		if err != nil {
			log.Fatalf("Failed to sign token for %s: %v", userID, err)
		}
		fmt.Printf("%s\t%s\n", userID, token)
	}
}

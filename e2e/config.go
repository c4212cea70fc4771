package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

// Config points the suite at a running server whose database already holds
// the engagement between CustomerID and ProviderID (see cmd/tools).
type Config struct {
	ServerAddr     string `envconfig:"E2E_SERVER_ADDR"`
	JWTSecret      string `envconfig:"JWT_SECRET"`
	ConversationID string `envconfig:"E2E_CONVERSATION_ID"`
	CustomerID     string `envconfig:"E2E_CUSTOMER_ID"`
	ProviderID     string `envconfig:"E2E_PROVIDER_ID"`
	// E2E_DEBUG_JSON allows dumping full gRPC request/response bodies as JSON
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}

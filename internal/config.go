package internal

import (
	"fmt"
	"time"
)

type Config struct {
	BadgerFilepath         string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel               string        `env:"LOG_LEVEL,required=true"`
	Host                   string        `env:"HOST,default=0.0.0.0"`
	Port                   int           `env:"PORT,default=8080"`
	DebugPort              int           `env:"DEBUG_PORT,default=8081"`
	SinkTimeout            time.Duration `env:"SINK_TIMEOUT,required=true"`
	RestartInterval        time.Duration `env:"RESTART_INTERVAL,required=true"`
	MaxRestartInterval     time.Duration `env:"MAX_RESTART_INTERVAL,required=true"`
	BadgeDebounce          time.Duration `env:"BADGE_DEBOUNCE,required=true"`
	AggregationConcurrency int           `env:"AGGREGATION_CONCURRENCY,required=true"`
	JWTSecret              string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration      time.Duration `env:"AUTH_TOKEN_DURATION,required=true"`
}

// Validate rejects values go-env accepts but the runtime cannot work with.
func (c Config) Validate() error {
	if c.AggregationConcurrency < 1 {
		return fmt.Errorf("AGGREGATION_CONCURRENCY must be at least 1, got %d", c.AggregationConcurrency)
	}
	if c.RestartInterval <= 0 || c.MaxRestartInterval < c.RestartInterval {
		return fmt.Errorf("RESTART_INTERVAL (%s) must be positive and not above MAX_RESTART_INTERVAL (%s)",
			c.RestartInterval, c.MaxRestartInterval)
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 bytes, got %d", len(c.JWTSecret))
	}
	return nil
}

// Package config defines the gateway's command-line configuration,
// following the teacher's plain flag.FlagSet convention (no cobra/viper).
package config

import (
	"flag"
	"time"
)

// Config holds every setting the gateway's entrypoint needs.
type Config struct {
	// UpstreamAddr is the Arrow peer's address this gateway dials out to.
	UpstreamAddr string
	// HealthAddr is the address the health/status HTTP endpoint listens on.
	HealthAddr string
	// DialTimeout bounds how long connect() waits to reach a local service.
	DialTimeout time.Duration
	// LogLevel selects the logger's minimum level.
	LogLevel string
	// Development enables the logger's human-readable console preset.
	Development bool
}

// Default returns the configuration used when no flags are given.
func Default() Config {
	return Config{
		UpstreamAddr: "127.0.0.1:8900",
		HealthAddr:   "127.0.0.1:8901",
		DialTimeout:  10 * time.Second,
		LogLevel:     "info",
	}
}

// Parse registers the gateway's flags on fs and parses args into a Config
// seeded with Default.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Default()

	fs.StringVar(&cfg.UpstreamAddr, "upstream", cfg.UpstreamAddr, "address of the upstream Arrow peer")
	fs.StringVar(&cfg.HealthAddr, "health-addr", cfg.HealthAddr, "address the health endpoint listens on")
	fs.DurationVar(&cfg.DialTimeout, "dial-timeout", cfg.DialTimeout, "timeout for connecting to a local service")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn, or error")
	fs.BoolVar(&cfg.Development, "dev", cfg.Development, "use the human-readable development log encoder")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

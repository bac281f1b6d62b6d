package config

import (
	"flag"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(flag.NewFlagSet("gateway", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("TestParseDefaults: Parse: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("TestParseDefaults: cfg = %+v, want %+v", cfg, Default())
	}
}

func TestParseOverrides(t *testing.T) {
	args := []string{
		"-upstream", "10.0.0.1:9000",
		"-health-addr", "0.0.0.0:9001",
		"-dial-timeout", "5s",
		"-log-level", "debug",
		"-dev",
	}

	cfg, err := Parse(flag.NewFlagSet("gateway", flag.ContinueOnError), args)
	if err != nil {
		t.Fatalf("TestParseOverrides: Parse: %v", err)
	}

	want := Config{
		UpstreamAddr: "10.0.0.1:9000",
		HealthAddr:   "0.0.0.0:9001",
		DialTimeout:  5 * time.Second,
		LogLevel:     "debug",
		Development:  true,
	}
	if cfg != want {
		t.Fatalf("TestParseOverrides: cfg = %+v, want %+v", cfg, want)
	}
}

func TestParseRejectsUnknownFlag(t *testing.T) {
	_, err := Parse(flag.NewFlagSet("gateway", flag.ContinueOnError), []string{"-nope"})
	if err == nil {
		t.Fatalf("TestParseRejectsUnknownFlag: Parse succeeded for an unknown flag")
	}
}

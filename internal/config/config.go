package config

import (
	"flag"
	"os"
)

// Config holds all match runner configuration.
type Config struct {
	// I/O ("-" means stdin/stdout)
	InputPath  string
	OutputPath string

	// Logging
	LogLevel string
	Quiet    bool
}

func Load() *Config {
	c := &Config{}

	flag.StringVar(&c.InputPath, "input", envStr("MATCH_INPUT", "-"), "Command file path, - for stdin")
	flag.StringVar(&c.OutputPath, "output", envStr("MATCH_OUTPUT", "-"), "Output file path, - for stdout")
	flag.StringVar(&c.LogLevel, "log-level", envStr("MATCH_LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	flag.BoolVar(&c.Quiet, "quiet", false, "Suppress all logging")

	flag.Parse()

	return c
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

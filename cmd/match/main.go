// Command match runs the limit-order matching engine as a batch job:
// it reads a command sequence (INSERT/AMEND/PULL lines), matches to
// exhaustion after every command, and writes the trade ledger followed
// by the per-symbol book snapshot.
//
// Usage:
//
//	match                          # read stdin, write stdout
//	match -input orders.csv        # read a command file
//	match -input orders.csv -output fills.csv
//
// Any malformed or rejected command aborts the run with no partial
// output and a non-zero exit code.
package main

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/okeefe/matching-engine/go-match/internal/config"
	"github.com/okeefe/matching-engine/go-match/internal/wire"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg)
	defer logger.Sync()

	runID := uuid.NewString()
	logger.Info("match run starting",
		zap.String("run_id", runID),
		zap.String("input", cfg.InputPath),
		zap.String("output", cfg.OutputPath))

	lines, err := readLines(cfg.InputPath)
	if err != nil {
		logger.Error("read input", zap.String("run_id", runID), zap.Error(err))
		os.Exit(1)
	}

	start := time.Now()
	out, err := wire.Run(lines)
	if err != nil {
		logger.Error("run aborted", zap.String("run_id", runID), zap.Error(err))
		os.Exit(1)
	}

	if err := writeLines(cfg.OutputPath, out); err != nil {
		logger.Error("write output", zap.String("run_id", runID), zap.Error(err))
		os.Exit(1)
	}

	logger.Info("match run complete",
		zap.String("run_id", runID),
		zap.Int("commands", len(lines)),
		zap.Int("output_lines", len(out)),
		zap.Duration("elapsed", time.Since(start)))
}

// newLogger builds a production JSON logger on stderr so log lines
// never interleave with result output on stdout.
func newLogger(cfg *config.Config) *zap.Logger {
	if cfg.Quiet {
		return zap.NewNop()
	}
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := zcfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		os.Exit(1)
	}
	return logger
}

func readLines(path string) ([]string, error) {
	in := os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}

	var lines []string
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func writeLines(path string, lines []string) error {
	out := os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	w := bufio.NewWriter(out)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return w.Flush()
}

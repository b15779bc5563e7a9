package simulate

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/pickup/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "season_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the season simulator.
func ShowHelp() {
	os.Stdout.WriteString(`Pickup Season Simulator
=======================

Generates a synthetic league with hidden true skills, plays a season of
pickup games against a running service instance, and verifies that the
final leaderboard tracks true skill.

Usage:
  go run cmd/simulate/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -players int
        Number of players in the league (default 40)
  -games int
        Number of games to simulate (default 500)
  -top int
        Number of leaderboard entries to verify (default 40)
  -workers int
        Number of concurrent submitters (default NumCPU)
  -timeout duration
        HTTP request timeout (default 30s)
  -seed int
        Random seed for a reproducible season (default 1)
  -log string
        Log file for simulation output
  -verbose
        Enable per-game logging
`)
}

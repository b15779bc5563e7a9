package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/pickup/internal/simulate"
)

// Default configuration constants.
const (
	defaultNumPlayers = 40
	defaultNumGames   = 500
	defaultTopN       = 40
	defaultSeed       = 1
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numPlayers = flag.Int("players", defaultNumPlayers, "Number of players in the league")
		numGames   = flag.Int("games", defaultNumGames, "Number of games to simulate")
		topN       = flag.Int("top", defaultTopN, "Number of leaderboard entries to verify")
		workers    = flag.Int("workers", runtime.NumCPU(), "Number of concurrent submitters")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed       = flag.Int64("seed", defaultSeed, "Random seed for a reproducible season")
		logFile    = flag.String("log", "", "Log file for simulation output")
		verbose    = flag.Bool("verbose", false, "Enable per-game logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return
	}

	// Setup logging
	if err := simulate.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &simulate.Config{
		BaseURL:    *baseURL,
		NumPlayers: *numPlayers,
		NumGames:   *numGames,
		TopN:       *topN,
		Workers:    *workers,
		Timeout:    *timeout,
		Seed:       *seed,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	// Run the season
	if err := simulate.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return
	}
}

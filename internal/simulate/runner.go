package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/okian/pickup/pkg/logger"
)

// settleDelay lets the trainer fold the last samples before verification.
const settleDelay = 2 * time.Second

// Run executes the complete season simulation.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting pickup season simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("players", config.NumPlayers),
		logger.Int("games", config.NumGames),
		logger.Int("workers", config.Workers),
		logger.Any("seed", config.Seed),
	)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate the league and the season
	rng := rand.New(rand.NewSource(config.Seed)) //nolint:gosec // reproducible simulation, not crypto
	league := generateLeague(rng, config.NumPlayers)
	games := make([]Game, config.NumGames)
	for i := range games {
		games[i] = generateGame(rng, league)
	}

	// Step 3: Register players
	if err := registerPlayers(ctx, config, league, stats); err != nil {
		return fmt.Errorf("player registration failed: %w", err)
	}

	// Step 4: Submit games concurrently
	if err := submitGames(ctx, config, games, stats); err != nil {
		return fmt.Errorf("game submission failed: %w", err)
	}

	// Step 5: Wait for trailing work to settle
	logger.Get().Info(ctx, "waiting for ratings to settle")
	time.Sleep(settleDelay)

	// Step 6: Get leaderboard
	entries, err := getLeaderboard(ctx, config)
	if err != nil {
		return fmt.Errorf("leaderboard retrieval failed: %w", err)
	}

	// Step 7: Verify convergence
	if err := verifyResults(ctx, league, entries, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	return nil
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Get().Info(ctx, "season simulation complete",
		logger.Int("playersRegistered", int(stats.PlayersRegistered)),
		logger.Int("gamesSubmitted", int(stats.GamesSubmitted)),
		logger.Int("gamesRated", int(stats.GamesRated)),
		logger.Int("gamesDuplicate", int(stats.GamesDuplicate)),
		logger.Int("gamesFailed", int(stats.GamesFailed)),
		logger.Float64("rankCorrelation", stats.RankCorrelation),
		logger.String("duration", stats.Duration.String()),
	)
}

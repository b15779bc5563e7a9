// Package simulate drives a synthetic pickup season against a running
// service instance and verifies that ratings converge toward each
// player's hidden true skill.
package simulate

import "time"

// Config holds the simulation parameters.
type Config struct {
	// BaseURL of the running service.
	BaseURL string

	// NumPlayers is the size of the synthetic league.
	NumPlayers int

	// NumGames is how many games to play across the season.
	NumGames int

	// TopN is how many leaderboard entries to fetch for verification.
	TopN int

	// Workers is the number of concurrent submitters.
	Workers int

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// Seed makes the generated season reproducible.
	Seed int64

	// LogFile receives a copy of runner output.
	LogFile string

	// Verbose enables per-game logging.
	Verbose bool
}

// Stats accumulates simulation results.
type Stats struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	PlayersRegistered int64
	GamesSubmitted    int64
	GamesRated        int64
	GamesDuplicate    int64
	GamesFailed       int64

	// RankCorrelation is the Spearman correlation between hidden true
	// skill and the final leaderboard order.
	RankCorrelation float64
}

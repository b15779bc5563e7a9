// Package repository defines the player rating state store and errors.
package repository

import (
	"context"

	"github.com/okian/pickup/internal/domain/model"
)

// Entry represents one row of the rating leaderboard.
type Entry struct {
	Rank       int     `json:"rank"`
	PlayerID   string  `json:"player_id"`
	Rating     float64 `json:"rating"`
	Confidence float64 `json:"confidence"`
	GamesRated int     `json:"games_rated"`
}

// Store provides access to PlayerRatingState. Mutation of
// rating/confidence/games_rated happens only inside Update, whose
// callback runs under the locks covering every referenced player; two
// concurrent game completions touching the same player serialize there.
type Store interface {
	// Put upserts a player's state. Registration path; not for rating
	// updates.
	Put(ctx context.Context, state model.PlayerRatingState) error

	// Get returns a copy of one player's state.
	// Returns ErrNotFound if the player is unknown.
	Get(ctx context.Context, playerID string) (model.PlayerRatingState, error)

	// GetMany returns copies for all ids, in input order.
	// Returns ErrNotFound if any id is unknown.
	GetMany(ctx context.Context, playerIDs []string) ([]model.PlayerRatingState, error)

	// Update runs fn over the states of the given players under their
	// locks and persists the mutated states when fn succeeds.
	Update(ctx context.Context, playerIDs []string, fn func(states map[string]*model.PlayerRatingState) error) error

	// AppendPerformance records one game performance score for a player.
	AppendPerformance(ctx context.Context, playerID string, score float64)

	// RecentPerformance returns up to limit recent performance scores,
	// newest first. Unknown players yield nil.
	RecentPerformance(ctx context.Context, playerID string, limit int) []float64

	// TopN returns the top-N entries ordered by rating desc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Rank returns the current rank and rating for a player.
	// Returns ErrNotFound if the player is unknown.
	Rank(ctx context.Context, playerID string) (Entry, error)

	// All returns copies of every stored state, id-ascending. Candidate
	// pool for discovery queries.
	All(ctx context.Context) []model.PlayerRatingState

	// Count returns the number of players tracked.
	Count(ctx context.Context) int
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/pickup/internal/adapters/repository"
	"github.com/okian/pickup/internal/domain/match"
	"github.com/okian/pickup/internal/domain/model"
	"github.com/okian/pickup/internal/domain/predict"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// RegisterPlayer upserts a player profile.
	RegisterPlayer(ctx context.Context, state model.PlayerRatingState) error

	// GetPlayer returns one player's current state.
	GetPlayer(ctx context.Context, playerID string) (model.PlayerRatingState, error)

	// RateGame applies a completed game to every participant's rating.
	RateGame(ctx context.Context, outcome model.GameOutcome) (map[string]model.RatingDelta, error)

	// Predict returns the win probability for side A plus derived lines.
	Predict(ctx context.Context, sideA, sideB []string) (float64, predict.Lines, error)

	// AssignTeams splits a roster into two balanced sides.
	AssignTeams(ctx context.Context, roster []string, gameType model.GameType) (model.TeamAssignment, error)

	// FindMatches ranks discovery candidates for a player.
	FindMatches(ctx context.Context, playerID string, mode match.Mode, limit int) ([]match.Match, error)

	// Read operations expose leaderboard data.
	TopN(ctx context.Context, n int) ([]Entry, error)
	Rank(ctx context.Context, playerID string) (Entry, error)
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = repository.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	playersHandler     *PlayersHandler
	gamesHandler       *GamesHandler
	predictHandler     *PredictHandler
	teamsHandler       *TeamsHandler
	matchesHandler     *MatchesHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		playersHandler:     NewPlayersHandler(deps),
		gamesHandler:       NewGamesHandler(deps),
		predictHandler:     NewPredictHandler(deps),
		teamsHandler:       NewTeamsHandler(deps),
		matchesHandler:     NewMatchesHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		rankHandler:        NewRankHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandlePostPlayer, "players"))
	mux.HandleFunc("/players/", MetricsMiddleware(s.playersHandler.HandleGetPlayer, "players"))
	mux.HandleFunc("/games", MetricsMiddleware(s.gamesHandler.HandlePostGame, "games"))
	mux.HandleFunc("/predict", MetricsMiddleware(s.predictHandler.HandlePostPredict, "predict"))
	mux.HandleFunc("/teams", MetricsMiddleware(s.teamsHandler.HandlePostTeams, "teams"))
	mux.HandleFunc("/matches", MetricsMiddleware(s.matchesHandler.HandleGetMatches, "matches"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
}

// playerRequest mirrors the JSON schema for POST /players.
type playerRequest struct {
	PlayerID     string  `json:"player_id"`
	Position     string  `json:"position"`
	HeightInches float64 `json:"height_inches"`
	WeightPounds float64 `json:"weight_pounds"`

	// SelfRating is the self-reported skill on registration. It seeds
	// the initial rating only; it never moves an existing one.
	SelfRating float64 `json:"self_rating"`
}

func (p playerRequest) validate() error {
	switch {
	case strings.TrimSpace(p.PlayerID) == "":
		return errors.New("missing player_id")
	case p.Position != "" && !model.Position(p.Position).Valid():
		return errors.New("invalid position; must be PG, SG, SF, PF or C")
	case p.SelfRating != 0 && (p.SelfRating < model.MinRating || p.SelfRating > model.MaxRating):
		return errors.New("self_rating out of range")
	case p.HeightInches < 0 || p.WeightPounds < 0:
		return errors.New("negative physical attribute")
	}
	return nil
}

func (p playerRequest) toState() model.PlayerRatingState {
	pos := model.Position(p.Position)
	if pos == "" {
		pos = model.SmallForward
	}
	return model.PlayerRatingState{
		PlayerID:     p.PlayerID,
		Rating:       p.SelfRating,
		Position:     pos,
		HeightInches: p.HeightInches,
		WeightPounds: p.WeightPounds,
	}
}

// gameRequest mirrors the JSON schema for POST /games.
type gameRequest struct {
	OutcomeID string                    `json:"outcome_id"`
	GameType  string                    `json:"game_type"`
	SideA     []string                  `json:"side_a"`
	SideB     []string                  `json:"side_b"`
	ScoreA    int                       `json:"score_a"`
	ScoreB    int                       `json:"score_b"`
	Stats     map[string]model.StatLine `json:"stats,omitempty"`
	PlayedAt  string                    `json:"played_at,omitempty"`
}

func (g gameRequest) validate() error {
	switch {
	case strings.TrimSpace(g.OutcomeID) == "":
		return errors.New("missing outcome_id")
	case !model.GameType(g.GameType).Valid():
		return errors.New("invalid game_type")
	case len(g.SideA) == 0 || len(g.SideB) == 0:
		return errors.New("both sides must have players")
	case g.ScoreA == g.ScoreB:
		return errors.New("ties are not rated")
	case g.ScoreA < 0 || g.ScoreB < 0:
		return errors.New("negative score")
	}
	if g.PlayedAt != "" {
		if _, err := time.Parse(time.RFC3339, g.PlayedAt); err != nil {
			return errors.New("invalid played_at; must be RFC3339")
		}
	}
	return nil
}

func (g gameRequest) toOutcome() model.GameOutcome {
	playedAt := time.Now().UTC()
	if g.PlayedAt != "" {
		if t, err := time.Parse(time.RFC3339, g.PlayedAt); err == nil {
			playedAt = t
		}
	}
	return model.GameOutcome{
		OutcomeID: g.OutcomeID,
		GameType:  model.GameType(g.GameType),
		SideA:     g.SideA,
		SideB:     g.SideB,
		ScoreA:    g.ScoreA,
		ScoreB:    g.ScoreB,
		Stats:     g.Stats,
		PlayedAt:  playedAt,
	}
}

// sidesRequest mirrors the JSON schema for POST /predict.
type sidesRequest struct {
	SideA []string `json:"side_a"`
	SideB []string `json:"side_b"`
}

func (s sidesRequest) validate() error {
	if len(s.SideA) == 0 || len(s.SideB) == 0 {
		return errors.New("both sides must have players")
	}
	return nil
}

// teamsRequest mirrors the JSON schema for POST /teams.
type teamsRequest struct {
	Roster   []string `json:"roster"`
	GameType string   `json:"game_type"`
}

func (t teamsRequest) validate() error {
	switch {
	case !model.GameType(t.GameType).Valid():
		return errors.New("invalid game_type")
	case len(t.Roster) == 0:
		return errors.New("missing roster")
	}
	return nil
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound allows the API to translate upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

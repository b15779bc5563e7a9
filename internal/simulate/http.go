package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/pickup/internal/domain/model"
	"github.com/okian/pickup/pkg/logger"
)

// HTTPClient wraps http.Client with a timeout.
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// checkServiceHealth verifies the service answers before the season starts.
func checkServiceHealth(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("service unreachable: %w", err)
	}
	drainAndClose(resp)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status: %d", resp.StatusCode)
	}
	return nil
}

type playerPayload struct {
	PlayerID     string  `json:"player_id"`
	Position     string  `json:"position"`
	HeightInches float64 `json:"height_inches"`
	WeightPounds float64 `json:"weight_pounds"`
	SelfRating   float64 `json:"self_rating"`
}

// registerPlayers submits the whole league via POST /players.
func registerPlayers(ctx context.Context, config *Config, league []Player, stats *Stats) error {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/players"

	for _, p := range league {
		payload := playerPayload{
			PlayerID:     p.ID,
			Position:     string(p.Position),
			HeightInches: p.HeightInches,
			WeightPounds: p.WeightPounds,
			SelfRating:   p.SelfRating,
		}
		resp, err := client.Post(ctx, url, payload)
		if err != nil {
			return fmt.Errorf("failed to register player: %w", err)
		}
		drainAndClose(resp)
		if resp.StatusCode != http.StatusCreated {
			return fmt.Errorf("unexpected register status: %d", resp.StatusCode)
		}
		atomic.AddInt64(&stats.PlayersRegistered, 1)
	}
	logger.Get().Info(ctx, "league registered", logger.Int("players", len(league)))
	return nil
}

type gamePayload struct {
	OutcomeID string                    `json:"outcome_id"`
	GameType  string                    `json:"game_type"`
	SideA     []string                  `json:"side_a"`
	SideB     []string                  `json:"side_b"`
	ScoreA    int                       `json:"score_a"`
	ScoreB    int                       `json:"score_b"`
	Stats     map[string]model.StatLine `json:"stats"`
}

type gameAck struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// submitGames pushes the season's games through a worker pool.
func submitGames(ctx context.Context, config *Config, games []Game, stats *Stats) error {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/games"

	gameChan := make(chan Game, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for game := range gameChan {
				select {
				case <-ctx.Done():
					return
				default:
					submitSingleGame(ctx, client, url, game, config, stats)
				}
			}
		}()
	}

	for _, game := range games {
		select {
		case <-ctx.Done():
			close(gameChan)
			wg.Wait()
			return fmt.Errorf("context cancelled during submission: %w", ctx.Err())
		case gameChan <- game:
		}
	}
	close(gameChan)
	wg.Wait()

	logger.Get().Info(ctx, "season submitted",
		logger.Int("rated", int(atomic.LoadInt64(&stats.GamesRated))),
		logger.Int("duplicate", int(atomic.LoadInt64(&stats.GamesDuplicate))),
		logger.Int("failed", int(atomic.LoadInt64(&stats.GamesFailed))),
	)
	return nil
}

func submitSingleGame(ctx context.Context, client *HTTPClient, url string, game Game, config *Config, stats *Stats) {
	payload := gamePayload{
		OutcomeID: game.OutcomeID,
		GameType:  string(game.GameType),
		SideA:     game.SideA,
		SideB:     game.SideB,
		ScoreA:    game.ScoreA,
		ScoreB:    game.ScoreB,
		Stats:     game.Stats,
	}

	atomic.AddInt64(&stats.GamesSubmitted, 1)
	resp, err := client.Post(ctx, url, payload)
	if err != nil {
		atomic.AddInt64(&stats.GamesFailed, 1)
		return
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		atomic.AddInt64(&stats.GamesFailed, 1)
		if config.Verbose {
			logger.Get().Warn(ctx, "game rejected",
				logger.String("outcomeID", game.OutcomeID),
				logger.Int("status", resp.StatusCode),
				logger.String("body", string(body)),
			)
		}
		return
	}

	var ack gameAck
	if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
		atomic.AddInt64(&stats.GamesDuplicate, 1)
		return
	}
	atomic.AddInt64(&stats.GamesRated, 1)
}

// leaderboardEntry mirrors the service's leaderboard row.
type leaderboardEntry struct {
	Rank       int     `json:"rank"`
	PlayerID   string  `json:"player_id"`
	Rating     float64 `json:"rating"`
	Confidence float64 `json:"confidence"`
	GamesRated int     `json:"games_rated"`
}

// getLeaderboard fetches the final top-N standings.
func getLeaderboard(ctx context.Context, config *Config) ([]leaderboardEntry, error) {
	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/leaderboard?limit=%d", config.BaseURL, config.TopN)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("leaderboard fetch failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("leaderboard read failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected leaderboard status: %d", resp.StatusCode)
	}

	var entries []leaderboardEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("leaderboard decode failed: %w", err)
	}
	return entries, nil
}

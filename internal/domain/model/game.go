package model

import "time"

// GameType tags an outcome or roster with its format.
type GameType string

// Supported game formats.
const (
	FiveOnFive   GameType = "5v5"
	ThreeOnThree GameType = "3v3"
	TwoOnTwo     GameType = "2v2"
	OneOnOne     GameType = "1v1"
)

// SideSize returns the number of players per side, or 0 for an unknown type.
func (g GameType) SideSize() int {
	switch g {
	case FiveOnFive:
		return 5
	case ThreeOnThree:
		return 3
	case TwoOnTwo:
		return 2
	case OneOnOne:
		return 1
	}
	return 0
}

// Valid reports whether the game type is one of the supported formats.
func (g GameType) Valid() bool { return g.SideSize() > 0 }

// StatLine is one player's box score for a single game.
type StatLine struct {
	Points      int `json:"points"`
	Rebounds    int `json:"rebounds"`
	Assists     int `json:"assists"`
	Steals      int `json:"steals"`
	Blocks      int `json:"blocks"`
	Turnovers   int `json:"turnovers"`
	FGMade      int `json:"fg_made"`
	FGAttempted int `json:"fg_attempted"`
	ThreeMade   int `json:"three_made"`
	FTMade      int `json:"ft_made"`
	FTAttempted int `json:"ft_attempted"`
}

// GameOutcome is the ephemeral input to a rating update: who played on
// which side, the format, and the final score. Scores cannot be equal;
// ties are rejected upstream and again by the engine.
type GameOutcome struct {
	OutcomeID string   `json:"outcome_id"` // unique id for idempotency
	GameType  GameType `json:"game_type"`
	SideA     []string `json:"side_a"`
	SideB     []string `json:"side_b"`
	ScoreA    int      `json:"score_a"`
	ScoreB    int      `json:"score_b"`

	// Stats is optional per-player box score data keyed by player id,
	// consumed by learned-model feature extraction only.
	Stats map[string]StatLine `json:"stats,omitempty"`

	PlayedAt time.Time `json:"played_at"`
}

// Margin returns the absolute score margin.
func (o GameOutcome) Margin() int {
	m := o.ScoreA - o.ScoreB
	if m < 0 {
		return -m
	}
	return m
}

// SideAWon reports whether side A scored more points.
func (o GameOutcome) SideAWon() bool { return o.ScoreA > o.ScoreB }

// RatingDelta reports how one player's state moved during an update.
type RatingDelta struct {
	PlayerID      string  `json:"player_id"`
	OldRating     float64 `json:"old_rating"`
	NewRating     float64 `json:"new_rating"`
	OldConfidence float64 `json:"old_confidence"`
	NewConfidence float64 `json:"new_confidence"`
}

// TeamAssignment is the immutable result of balancing a full roster.
// Computed once at start time; never recomputed mid-game.
type TeamAssignment struct {
	AssignmentID    string   `json:"assignment_id"`
	GameType        GameType `json:"game_type"`
	SideA           []string `json:"side_a"` // sorted ascending
	SideB           []string `json:"side_b"` // sorted ascending
	WinProbabilityA float64  `json:"win_probability_a"`
	Strategy        string   `json:"strategy"` // exhaustive, sampled, or greedy
}

// TrainingSample is one completed game flattened into the feature vector
// and label the learned win-probability model trains on.
type TrainingSample struct {
	OutcomeID string    `json:"outcome_id"`
	Features  []float64 `json:"features"`
	SideAWon  bool      `json:"side_a_won"`
}

// Package model contains domain models passed between layers.
package model

// Position is a player's preferred on-court role.
type Position string

// Recognized positions. Unknown values are treated as SF (wing) by
// consumers that need a default.
const (
	PointGuard    Position = "PG"
	ShootingGuard Position = "SG"
	SmallForward  Position = "SF"
	PowerForward  Position = "PF"
	Center        Position = "C"
)

// IsGuard reports whether the position plays in the backcourt.
func (p Position) IsGuard() bool { return p == PointGuard || p == ShootingGuard }

// IsBig reports whether the position plays in the frontcourt paint.
func (p Position) IsBig() bool { return p == PowerForward || p == Center }

// Valid reports whether the position is one of the recognized roles.
func (p Position) Valid() bool {
	switch p {
	case PointGuard, ShootingGuard, SmallForward, PowerForward, Center:
		return true
	}
	return false
}

// Rating bounds. Every stored rating stays inside this range; updates that
// would leave it are clamped, not rejected.
const (
	MinRating     = 1.0
	MaxRating     = 10.0
	DefaultRating = 5.0
)

// StatAverages holds rolling per-game averages for one game type.
type StatAverages struct {
	Points       float64 `json:"points"`
	Rebounds     float64 `json:"rebounds"`
	Assists      float64 `json:"assists"`
	Steals       float64 `json:"steals"`
	Blocks       float64 `json:"blocks"`
	Turnovers    float64 `json:"turnovers"`
	FieldGoalPct float64 `json:"field_goal_pct"`
	Games        int     `json:"games"`
}

// PlayerRatingState is the per-player state the rating engine owns.
// Rating, Confidence and GamesRated are mutated exclusively through
// rating updates; everything else reads them.
type PlayerRatingState struct {
	PlayerID   string  `json:"player_id"`
	Rating     float64 `json:"rating"`     // always within [MinRating, MaxRating]
	Confidence float64 `json:"confidence"` // [0,1], never decreases
	GamesRated int     `json:"games_rated"`

	Position Position `json:"position"`

	// Physical attributes feed similarity scoring and auxiliary
	// win-probability features only, never the Elo update.
	HeightInches float64 `json:"height_inches,omitempty"`
	WeightPounds float64 `json:"weight_pounds,omitempty"`

	Wins   int `json:"wins"`
	Losses int `json:"losses"`

	// RecentStats keys are GameType values ("5v5", "3v3", "2v2").
	RecentStats map[GameType]StatAverages `json:"recent_stats,omitempty"`
}

// TotalGames is the experience count used for confidence and K decay.
func (p PlayerRatingState) TotalGames() int { return p.GamesRated }

// WinRate returns the fraction of rated games won.
func (p PlayerRatingState) WinRate() float64 {
	total := p.Wins + p.Losses
	if total == 0 {
		return 0.5
	}
	return float64(p.Wins) / float64(total)
}

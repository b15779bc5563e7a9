// Package match ranks candidate players against a target: similar
// profiles for opponent discovery, complementary profiles for finding
// teammates. Read-only over rating state; results are plain ranked
// slices the caller can truncate freely.
package match

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/okian/pickup/internal/domain/model"
)

// Mode selects the ranking objective.
type Mode string

// Supported modes.
const (
	ModeSimilar       Mode = "similar"
	ModeComplementary Mode = "complementary"
)

// Feature weights for similar mode: skill dominates, then height, then
// position and experience.
const (
	weightSkill      = 3.0
	weightHeight     = 1.0
	weightPosition   = 0.5
	weightExperience = 0.3
)

// defaultSkillTolerance gates candidates whose rating sits too far from
// the target's to be a sensible pairing in either mode.
const defaultSkillTolerance = 1.5

// Match pairs a ranked candidate with its score. For similar mode the
// score is a distance (lower is better); for complementary mode it is a
// fit score (higher is better). Results arrive best-first either way.
type Match struct {
	Player model.PlayerRatingState `json:"player"`
	Score  float64                 `json:"score"`
}

// Option applies a configuration option to the Matcher.
type Option func(*Matcher)

// WithSkillTolerance sets the maximum rating gap for candidates.
// Zero disables the gate.
func WithSkillTolerance(tolerance float64) Option {
	return func(m *Matcher) {
		if tolerance >= 0 {
			m.skillTolerance = tolerance
		}
	}
}

// Matcher ranks candidates for a target player.
type Matcher struct {
	skillTolerance float64
}

// New constructs a Matcher.
func New(opts ...Option) *Matcher {
	m := &Matcher{skillTolerance: defaultSkillTolerance}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Find ranks the pool against the target for the given mode. The target
// itself is skipped if present in the pool.
func (m *Matcher) Find(_ context.Context, target model.PlayerRatingState, pool []model.PlayerRatingState, mode Mode) ([]Match, error) {
	switch mode {
	case ModeSimilar:
		return m.similar(target, pool), nil
	case ModeComplementary:
		return m.complementary(target, pool), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

// similar ranks by weighted Euclidean distance over normalized
// skill/height/position/experience features; lower distance first.
func (m *Matcher) similar(target model.PlayerRatingState, pool []model.PlayerRatingState) []Match {
	tf := features(target)
	out := make([]Match, 0, len(pool))
	for _, c := range pool {
		if c.PlayerID == target.PlayerID {
			continue
		}
		if m.outsideTolerance(target, c) {
			continue
		}
		out = append(out, Match{Player: c, Score: distance(tf, features(c))})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score < out[j].Score
		}
		return out[i].Player.PlayerID < out[j].Player.PlayerID
	})
	return out
}

// complementary rewards role features the target lacks while still
// demanding comparable overall skill: a 3.0 and a 9.0 are not
// complementary just because their positions differ.
func (m *Matcher) complementary(target model.PlayerRatingState, pool []model.PlayerRatingState) []Match {
	myStats := careerLine(target)
	out := make([]Match, 0, len(pool))
	for _, c := range pool {
		if c.PlayerID == target.PlayerID {
			continue
		}
		if m.outsideTolerance(target, c) {
			continue
		}
		out = append(out, Match{Player: c, Score: complementScore(target, myStats, c)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Player.PlayerID < out[j].Player.PlayerID
	})
	return out
}

func (m *Matcher) outsideTolerance(target, c model.PlayerRatingState) bool {
	return m.skillTolerance > 0 && math.Abs(c.Rating-target.Rating) > m.skillTolerance
}

// featureVec is the normalized similarity embedding.
type featureVec struct {
	skill, height, position, experience float64
}

func features(p model.PlayerRatingState) featureVec {
	height := p.HeightInches
	if height <= 0 {
		height = 70 // league-average default for unrecorded heights
	}
	return featureVec{
		skill:      (p.Rating - model.MinRating) / (model.MaxRating - model.MinRating),
		height:     (height - 60) / 36.0,
		position:   positionOrdinal(p.Position) / 4.0,
		experience: math.Min(1.0, float64(p.GamesRated)/30.0),
	}
}

// positionOrdinal places positions on the guard-to-big axis.
func positionOrdinal(pos model.Position) float64 {
	switch pos {
	case model.PointGuard:
		return 0
	case model.ShootingGuard:
		return 1
	case model.SmallForward:
		return 2
	case model.PowerForward:
		return 3
	case model.Center:
		return 4
	}
	return 2
}

func distance(a, b featureVec) float64 {
	return math.Sqrt(
		weightSkill*(a.skill-b.skill)*(a.skill-b.skill) +
			weightHeight*(a.height-b.height)*(a.height-b.height) +
			weightPosition*(a.position-b.position)*(a.position-b.position) +
			weightExperience*(a.experience-b.experience)*(a.experience-b.experience),
	)
}

// complementScore combines need-fill bonuses, a position-diversity bonus
// awarded only for a basketball-meaningful split (guard with big), and a
// penalty for the overall skill gap.
func complementScore(target model.PlayerRatingState, myStats model.StatAverages, c model.PlayerRatingState) float64 {
	theirStats := careerLine(c)
	score := 0.0

	// Reward stats they bring that the target lacks.
	if myStats.Rebounds < 3 && theirStats.Rebounds > 4 {
		score += 2.0 * math.Min(theirStats.Rebounds/6, 1.5)
	}
	if myStats.Assists < 1.5 && theirStats.Assists > 2.5 {
		score += 2.0 * math.Min(theirStats.Assists/4, 1.5)
	}
	if myStats.Points < 4 && theirStats.Points > 6 {
		score += 1.5 * math.Min(theirStats.Points/10, 1.2)
	}

	// Guard-big pairing bonuses in both directions.
	if target.Position.IsGuard() && c.Position.IsBig() {
		score += 1.5 * (theirStats.Rebounds/5 + theirStats.Blocks/1.5)
	}
	if target.Position.IsBig() && c.Position.IsGuard() {
		score += 1.5 * (theirStats.Assists/3 + theirStats.Steals/1.5)
	}
	if c.Position != "" && c.Position != target.Position {
		score += 0.8
	}

	// Different stat profiles complement; identical ones compete.
	score += 0.5 * (math.Abs(myStats.Points-theirStats.Points)/10 +
		math.Abs(myStats.Rebounds-theirStats.Rebounds)/5 +
		math.Abs(myStats.Assists-theirStats.Assists)/3)

	// Comparable overall skill still matters in this mode.
	score -= math.Abs(target.Rating - c.Rating)

	return score
}

// careerLine flattens per-game-type averages into one weighted line.
func careerLine(p model.PlayerRatingState) model.StatAverages {
	var out model.StatAverages
	for _, s := range p.RecentStats {
		g := float64(s.Games)
		out.Points += s.Points * g
		out.Rebounds += s.Rebounds * g
		out.Assists += s.Assists * g
		out.Steals += s.Steals * g
		out.Blocks += s.Blocks * g
		out.Games += s.Games
	}
	if out.Games == 0 {
		return model.StatAverages{}
	}
	g := float64(out.Games)
	out.Points /= g
	out.Rebounds /= g
	out.Assists /= g
	out.Steals /= g
	out.Blocks /= g
	return out
}

package rating

import (
	"math"

	"github.com/okian/pickup/internal/domain/model"
)

// Per-game-type baselines for an average player in a pickup game to 15.
// Full-court 5v5 is harder to score in than the short formats, so the
// same box score means more in 5v5.
type gameBaseline struct {
	points, rebounds, assists, steals, blocks, turnovers, scale float64
}

var gameBaselines = map[model.GameType]gameBaseline{
	model.FiveOnFive:   {points: 3.0, rebounds: 2.0, assists: 1.0, steals: 0.5, blocks: 0.3, turnovers: 1.0, scale: 1.0},
	model.ThreeOnThree: {points: 5.0, rebounds: 3.0, assists: 1.5, steals: 0.8, blocks: 0.5, turnovers: 1.2, scale: 1.5},
	model.TwoOnTwo:     {points: 7.5, rebounds: 4.0, assists: 2.0, steals: 1.0, blocks: 0.6, turnovers: 1.5, scale: 2.0},
}

// positionWeights scales how much each stat matters for a role: a center
// is judged on rebounds and rim protection, a point guard on playmaking
// and ball security.
type positionWeights struct {
	points, rebounds, assists, steals, blocks, turnovers float64
}

var positionWeightTable = map[model.Position]positionWeights{
	model.PointGuard:    {points: 0.8, rebounds: 0.4, assists: 1.8, steals: 1.2, blocks: 0.2, turnovers: 1.2},
	model.ShootingGuard: {points: 1.4, rebounds: 0.5, assists: 0.9, steals: 1.0, blocks: 0.3, turnovers: 0.8},
	model.SmallForward:  {points: 1.2, rebounds: 1.0, assists: 0.8, steals: 1.0, blocks: 0.5, turnovers: 0.7},
	model.PowerForward:  {points: 1.0, rebounds: 1.5, assists: 0.6, steals: 0.6, blocks: 1.2, turnovers: 0.6},
	model.Center:        {points: 0.9, rebounds: 1.8, assists: 0.4, steals: 0.4, blocks: 1.5, turnovers: 0.5},
}

func weightsFor(pos model.Position) positionWeights {
	if w, ok := positionWeightTable[pos]; ok {
		return w
	}
	return positionWeightTable[model.SmallForward]
}

// PerformanceScore synthesizes one box score into a single 0-10 game
// rating: a pickup-calibrated efficiency metric, position-normalized,
// adjusted for true-shooting efficiency, opponent strength, margin, and
// outcome. It never feeds the Elo update directly; it backs the
// learned-model features and sandbagging detection.
func PerformanceScore(stats model.StatLine, gameType model.GameType, won bool, opponentMean float64, pos model.Position) float64 {
	base, ok := gameBaselines[gameType]
	if !ok {
		base = gameBaselines[model.FiveOnFive]
	}
	w := weightsFor(pos)

	missedFG := math.Max(float64(stats.FGAttempted-stats.FGMade), 0)
	missedFT := math.Max(float64(stats.FTAttempted-stats.FTMade), 0)

	perPoints := float64(stats.Points)
	perAssists := float64(stats.Assists) * 1.5
	perRebounds := float64(stats.Rebounds) * 1.2
	perSteals := float64(stats.Steals) * 2.5
	perBlocks := float64(stats.Blocks) * 2.5
	perTurnovers := float64(stats.Turnovers) * -2.0
	perMisses := missedFG*-1.0 + missedFT*-0.5

	normalized := perPoints*w.points +
		perAssists*w.assists +
		perRebounds*w.rebounds +
		perSteals*w.steals +
		perBlocks*w.blocks +
		perTurnovers*w.turnovers +
		perMisses

	// True-shooting variant centered around 52%.
	tsAttempts := 2.0 * (float64(stats.FGAttempted) + 0.44*float64(stats.FTAttempted) + 1)
	tsPct := 0.5
	if tsAttempts > 0 {
		tsPct = float64(stats.Points) / tsAttempts
	}
	effBonus := math.Tanh((tsPct - 0.52) * 6)

	raw := (normalized / math.Max(base.scale, 1.0)) * (1.0 + effBonus*0.5)

	// Match context: performance against stronger opposition counts for
	// more, and winners get a small clutch premium.
	difficulty := 1.0 + (opponentMean-model.DefaultRating)*0.05
	winBonus := 0.9
	if won {
		winBonus = 1.1
	}

	// Map onto the 0-10 scale. The tails compress asymptotically toward
	// the bounds so extreme lines keep their ordering instead of pinning
	// at 0 or 10.
	perf := raw / 15.0 * 10.0 * difficulty * winBonus
	switch {
	case perf > 9.0:
		over := perf - 9.0
		perf = 9.0 + over/(1.0+over)
	case perf < 1.0:
		under := 1.0 - perf
		perf = 1.0 - under/(1.0+under)
	}

	return math.Max(0, math.Min(10, perf))
}

package simulate

import (
	"context"
	"fmt"
	"sort"

	"github.com/okian/pickup/pkg/logger"
)

// minAcceptableCorrelation is the Spearman floor for a passing season.
// Elo over a few hundred noisy pickup games will not be perfect, but it
// should strongly track true skill.
const minAcceptableCorrelation = 0.5

// verifyResults checks that the leaderboard order tracks hidden true
// skill via Spearman rank correlation over the fetched entries.
func verifyResults(ctx context.Context, league []Player, entries []leaderboardEntry, stats *Stats) error {
	if len(entries) == 0 {
		return fmt.Errorf("empty leaderboard")
	}

	skillByID := make(map[string]float64, len(league))
	for _, p := range league {
		skillByID[p.ID] = p.TrueSkill
	}

	// True-skill rank across the whole league.
	ranked := make([]Player, len(league))
	copy(ranked, league)
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].TrueSkill > ranked[j].TrueSkill })
	trueRank := make(map[string]int, len(ranked))
	for i, p := range ranked {
		trueRank[p.ID] = i + 1
	}

	var sumD2 float64
	n := 0
	for _, e := range entries {
		tr, ok := trueRank[e.PlayerID]
		if !ok {
			return fmt.Errorf("leaderboard contains unknown player %s", e.PlayerID)
		}
		d := float64(e.Rank - tr)
		sumD2 += d * d
		n++
	}
	if n < 2 {
		return fmt.Errorf("too few leaderboard entries to correlate: %d", n)
	}

	nf := float64(n)
	correlation := 1 - (6*sumD2)/(nf*(nf*nf-1))
	stats.RankCorrelation = correlation

	logger.Get().Info(ctx, "rank correlation computed",
		logger.Float64("spearman", correlation),
		logger.Int("entries", n),
	)

	if correlation < minAcceptableCorrelation {
		return fmt.Errorf("rank correlation %.3f below floor %.2f", correlation, minAcceptableCorrelation)
	}
	return nil
}

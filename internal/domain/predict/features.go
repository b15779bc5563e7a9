package predict

import (
	"fmt"
	"math"

	"github.com/okian/pickup/internal/domain/model"
)

// FeatureCount is the length of the learned model's input vector.
// Every entry is an antisymmetric difference (A minus B), which is what
// lets a zero-bias logistic model satisfy the symmetry invariant exactly.
const FeatureCount = 9

// Feature vector indices.
const (
	featSkillDiff = iota
	featHeightDiff
	featWeightDiff
	featPointsDiff
	featReboundsDiff
	featAssistsDiff
	featWinRateDiff
	featExperienceDiff
	featEntropyDiff
)

// teamFeatures aggregates one side into scalar features.
type teamFeatures struct {
	avgSkill   float64
	avgHeight  float64
	avgWeight  float64
	ppg        float64
	rpg        float64
	apg        float64
	winRate    float64
	totalGames float64
	posEntropy float64
}

// ExtractFeatures builds the learned-model input for a matchup. It fails
// with ErrFeatureExtraction when any player is missing the data a
// feature needs; callers recover by falling back to the baseline.
func ExtractFeatures(sideA, sideB []model.PlayerRatingState) ([]float64, error) {
	fa, err := extractTeam(sideA)
	if err != nil {
		return nil, err
	}
	fb, err := extractTeam(sideB)
	if err != nil {
		return nil, err
	}

	v := make([]float64, FeatureCount)
	v[featSkillDiff] = fa.avgSkill - fb.avgSkill
	v[featHeightDiff] = (fa.avgHeight - fb.avgHeight) / 12.0
	v[featWeightDiff] = (fa.avgWeight - fb.avgWeight) / 50.0
	v[featPointsDiff] = fa.ppg - fb.ppg
	v[featReboundsDiff] = fa.rpg - fb.rpg
	v[featAssistsDiff] = fa.apg - fb.apg
	v[featWinRateDiff] = fa.winRate - fb.winRate
	v[featExperienceDiff] = (fa.totalGames - fb.totalGames) / 50.0
	v[featEntropyDiff] = fa.posEntropy - fb.posEntropy
	return v, nil
}

func extractTeam(side []model.PlayerRatingState) (teamFeatures, error) {
	if len(side) == 0 {
		return teamFeatures{}, fmt.Errorf("%w: empty side", ErrFeatureExtraction)
	}

	var f teamFeatures
	var wins, games int
	positions := make([]model.Position, 0, len(side))

	for _, p := range side {
		if p.HeightInches <= 0 || p.WeightPounds <= 0 {
			return teamFeatures{}, fmt.Errorf("%w: %s missing physicals", ErrFeatureExtraction, p.PlayerID)
		}
		avg, ok := careerAverages(p)
		if !ok {
			return teamFeatures{}, fmt.Errorf("%w: %s has no stat history", ErrFeatureExtraction, p.PlayerID)
		}

		f.avgSkill += p.Rating
		f.avgHeight += p.HeightInches
		f.avgWeight += p.WeightPounds
		f.ppg += avg.Points
		f.rpg += avg.Rebounds
		f.apg += avg.Assists
		wins += p.Wins
		games += p.Wins + p.Losses
		f.totalGames += float64(p.GamesRated)
		positions = append(positions, p.Position)
	}

	n := float64(len(side))
	f.avgSkill /= n
	f.avgHeight /= n
	f.avgWeight /= n
	f.ppg /= n
	f.rpg /= n
	f.apg /= n
	if games > 0 {
		f.winRate = float64(wins) / float64(games)
	} else {
		f.winRate = 0.5
	}
	f.posEntropy = positionEntropy(positions)
	return f, nil
}

// careerAverages flattens a player's per-game-type rolling averages into
// one games-weighted line.
func careerAverages(p model.PlayerRatingState) (model.StatAverages, bool) {
	var out model.StatAverages
	for _, s := range p.RecentStats {
		g := float64(s.Games)
		out.Points += s.Points * g
		out.Rebounds += s.Rebounds * g
		out.Assists += s.Assists * g
		out.Games += s.Games
	}
	if out.Games == 0 {
		return model.StatAverages{}, false
	}
	g := float64(out.Games)
	out.Points /= g
	out.Rebounds /= g
	out.Assists /= g
	return out, true
}

// positionEntropy measures role diversity on a side, normalized to [0,1].
// A team of five point guards scores 0; a spread of roles scores high.
func positionEntropy(positions []model.Position) float64 {
	if len(positions) == 0 {
		return 0
	}
	counts := make(map[model.Position]int, len(positions))
	for _, p := range positions {
		if p == "" {
			p = model.SmallForward
		}
		counts[p]++
	}
	n := float64(len(positions))
	entropy := 0.0
	for _, c := range counts {
		frac := float64(c) / n
		entropy -= frac * math.Log2(frac+1e-9)
	}
	return math.Min(entropy/2.5, 1.0)
}

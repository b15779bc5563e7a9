package simulate

import (
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/okian/pickup/internal/domain/model"
)

// Archetype skill bands. True skill drives simulated outcomes; the
// service never sees it.
const (
	casualSkillMin    = 1.5
	casualSkillRange  = 2.0
	regularSkillMin   = 3.5
	regularSkillRange = 2.5
	varsitySkillMin   = 6.0
	varsitySkillRange = 2.0
	eliteSkillMin     = 8.0
	eliteSkillRange   = 1.8
)

// Archetype mix, out of 100.
const (
	casualShare  = 30
	regularShare = 45
	varsityShare = 20
)

// selfReportNoise is the spread of self-rating around true skill.
// Hoopers are not reliable narrators.
const selfReportNoise = 1.5

// Player is one synthetic league member.
type Player struct {
	ID           string
	TrueSkill    float64
	Position     model.Position
	HeightInches float64
	WeightPounds float64
	SelfRating   float64
}

var positionCycle = []model.Position{
	model.PointGuard,
	model.ShootingGuard,
	model.SmallForward,
	model.PowerForward,
	model.Center,
}

// Physical baselines per position index (PG..C).
var (
	baseHeights = []float64{71, 73, 76, 78, 81}
	baseWeights = []float64{165, 180, 200, 220, 240}
)

// generateLeague builds a league with a realistic skill pyramid.
func generateLeague(rng *rand.Rand, numPlayers int) []Player {
	players := make([]Player, numPlayers)
	for i := range players {
		var skill float64
		switch roll := rng.Intn(100); {
		case roll < casualShare:
			skill = casualSkillMin + rng.Float64()*casualSkillRange
		case roll < casualShare+regularShare:
			skill = regularSkillMin + rng.Float64()*regularSkillRange
		case roll < casualShare+regularShare+varsityShare:
			skill = varsitySkillMin + rng.Float64()*varsitySkillRange
		default:
			skill = eliteSkillMin + rng.Float64()*eliteSkillRange
		}

		posIdx := i % len(positionCycle)
		self := skill + (rng.Float64()*2-1)*selfReportNoise
		players[i] = Player{
			ID:           uuid.New().String(),
			TrueSkill:    clamp(skill, model.MinRating, model.MaxRating),
			Position:     positionCycle[posIdx],
			HeightInches: baseHeights[posIdx] + rng.Float64()*4 - 2,
			WeightPounds: baseWeights[posIdx] + rng.Float64()*30 - 15,
			SelfRating:   clamp(self, model.MinRating, model.MaxRating),
		}
	}
	return players
}

// Game type mix, out of 100.
const (
	fivesShare  = 50
	threesShare = 25
	twosShare   = 15
)

// Pickup target scores per format.
var targetScores = map[model.GameType]int{
	model.FiveOnFive:   21,
	model.ThreeOnThree: 15,
	model.TwoOnTwo:     11,
	model.OneOnOne:     11,
}

// Game is one simulated outcome plus the hidden context it came from.
type Game struct {
	OutcomeID string
	GameType  model.GameType
	SideA     []string
	SideB     []string
	ScoreA    int
	ScoreB    int
	Stats     map[string]model.StatLine
}

// generateGame samples a roster, decides the winner from true skill and
// fabricates a box score consistent with the final margin.
func generateGame(rng *rand.Rand, league []Player) Game {
	gameType := pickGameType(rng)
	size := gameType.SideSize()

	picked := rng.Perm(len(league))[:size*2]
	sideA := make([]Player, 0, size)
	sideB := make([]Player, 0, size)
	for i, idx := range picked {
		if i < size {
			sideA = append(sideA, league[idx])
		} else {
			sideB = append(sideB, league[idx])
		}
	}

	// True-skill logistic decides the winner; noise keeps upsets alive.
	diff := meanSkill(sideA) - meanSkill(sideB)
	pA := 1.0 / (1.0 + math.Pow(10, -diff/4.0))
	aWins := rng.Float64() < pA

	target := targetScores[gameType]
	margin := 1 + rng.Intn(4) + int(math.Abs(diff)*1.5)
	if margin >= target {
		margin = target - 1
	}
	scoreA, scoreB := target, target-margin
	if !aWins {
		scoreA, scoreB = scoreB, scoreA
	}

	stats := make(map[string]model.StatLine, size*2)
	fillStats(rng, sideA, scoreA, stats)
	fillStats(rng, sideB, scoreB, stats)

	return Game{
		OutcomeID: uuid.New().String(),
		GameType:  gameType,
		SideA:     ids(sideA),
		SideB:     ids(sideB),
		ScoreA:    scoreA,
		ScoreB:    scoreB,
		Stats:     stats,
	}
}

func pickGameType(rng *rand.Rand) model.GameType {
	switch roll := rng.Intn(100); {
	case roll < fivesShare:
		return model.FiveOnFive
	case roll < fivesShare+threesShare:
		return model.ThreeOnThree
	case roll < fivesShare+threesShare+twosShare:
		return model.TwoOnTwo
	default:
		return model.OneOnOne
	}
}

// fillStats distributes a side's points by skill share and fabricates
// the rest of the box line around each player's scoring load.
func fillStats(rng *rand.Rand, side []Player, teamScore int, out map[string]model.StatLine) {
	var totalSkill float64
	for _, p := range side {
		totalSkill += p.TrueSkill
	}

	remaining := teamScore
	for i, p := range side {
		points := remaining
		if i < len(side)-1 {
			share := p.TrueSkill / totalSkill
			points = int(float64(teamScore)*share + rng.Float64())
			if points > remaining {
				points = remaining
			}
			remaining -= points
		}

		fgMade := points / 2
		fgAtt := fgMade + 1 + rng.Intn(4)
		line := model.StatLine{
			Points:      points,
			Rebounds:    rng.Intn(6),
			Assists:     rng.Intn(5),
			Steals:      rng.Intn(3),
			Blocks:      rng.Intn(2),
			Turnovers:   rng.Intn(4),
			FGMade:      fgMade,
			FGAttempted: fgAtt,
			FTMade:      points - fgMade*2,
			FTAttempted: points - fgMade*2 + rng.Intn(2),
		}
		if line.FTMade < 0 {
			line.FTMade = 0
			line.FTAttempted = rng.Intn(2)
		}
		if p.Position.IsBig() {
			line.Rebounds += rng.Intn(5)
			line.Blocks += rng.Intn(2)
		}
		if p.Position.IsGuard() {
			line.Assists += rng.Intn(4)
			line.Steals += rng.Intn(2)
		}
		out[p.ID] = line
	}
}

func meanSkill(side []Player) float64 {
	var sum float64
	for _, p := range side {
		sum += p.TrueSkill
	}
	return sum / float64(len(side))
}

func ids(side []Player) []string {
	out := make([]string, len(side))
	for i, p := range side {
		out[i] = p.ID
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package predict

import (
	"fmt"
	"math"
)

// Lines presents a win probability in sportsbook terms: vig-free
// American moneyline odds and an approximate point spread.
type Lines struct {
	WinProbability float64 `json:"win_probability"`
	Moneyline      string  `json:"moneyline"`
	Spread         string  `json:"spread"`
}

// Spread constants: the inverse of the logistic spread model, 15 points
// of spread per decade of odds.
const spreadScale = 15.0

// ToLines converts a probability into display odds.
func ToLines(winProb float64) Lines {
	var odds int
	switch {
	case winProb > 0.99:
		odds = -10000
	case winProb >= 0.5:
		odds = int(-(winProb / (1.0 - winProb)) * 100)
	case winProb < 0.01:
		odds = 10000
	default:
		odds = int(((1.0 - winProb) / winProb) * 100)
	}

	var spread float64
	if winProb > 0.001 && winProb < 0.999 {
		spread = -spreadScale * math.Log10(1.0/winProb-1.0)
	} else if winProb >= 0.5 {
		spread = 20.0
	} else {
		spread = -20.0
	}
	// Betting convention: the favorite lays points, shown negative.
	bettingSpread := -math.Round(spread*10) / 10
	if bettingSpread == 0 {
		bettingSpread = 0.0 // avoid -0.0
	}

	return Lines{
		WinProbability: math.Round(winProb*1000) / 1000,
		Moneyline:      signed(odds),
		Spread:         signedFloat(bettingSpread),
	}
}

func signed(v int) string {
	if v > 0 {
		return fmt.Sprintf("+%d", v)
	}
	return fmt.Sprintf("%d", v)
}

func signedFloat(v float64) string {
	if v > 0 {
		return fmt.Sprintf("+%.1f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

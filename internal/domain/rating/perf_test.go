package rating_test

import (
	"testing"

	"github.com/okian/pickup/internal/domain/model"
	"github.com/okian/pickup/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPerformanceScore(t *testing.T) {
	Convey("Given box scores from a 5v5 run", t, func() {
		bigLine := model.StatLine{
			Points: 18, Rebounds: 6, Assists: 4, Steals: 2, Blocks: 1,
			Turnovers: 1, FGMade: 8, FGAttempted: 12, FTMade: 2, FTAttempted: 2,
		}
		quietLine := model.StatLine{
			Points: 2, Rebounds: 1, Turnovers: 3, FGMade: 1, FGAttempted: 7,
		}

		Convey("When scoring a dominant line against a quiet one", func() {
			big := rating.PerformanceScore(bigLine, model.FiveOnFive, true, 5.0, model.SmallForward)
			quiet := rating.PerformanceScore(quietLine, model.FiveOnFive, true, 5.0, model.SmallForward)

			Convey("Then the dominant line scores higher", func() {
				So(big, ShouldBeGreaterThan, quiet)
			})

			Convey("Then both land on the 0-10 scale", func() {
				So(big, ShouldBeBetweenOrEqual, 0, 10)
				So(quiet, ShouldBeBetweenOrEqual, 0, 10)
			})
		})

		Convey("When the same line comes in a win and a loss", func() {
			won := rating.PerformanceScore(bigLine, model.FiveOnFive, true, 5.0, model.SmallForward)
			lost := rating.PerformanceScore(bigLine, model.FiveOnFive, false, 5.0, model.SmallForward)

			Convey("Then the win is worth more", func() {
				So(won, ShouldBeGreaterThan, lost)
			})
		})

		Convey("When the same line comes against stronger opposition", func() {
			tough := rating.PerformanceScore(bigLine, model.FiveOnFive, true, 8.0, model.SmallForward)
			soft := rating.PerformanceScore(bigLine, model.FiveOnFive, true, 2.0, model.SmallForward)

			Convey("Then opponent difficulty raises the score", func() {
				So(tough, ShouldBeGreaterThan, soft)
			})
		})

		Convey("When a monster line pushes past the ceiling", func() {
			monster := model.StatLine{
				Points: 40, Rebounds: 15, Assists: 10, Steals: 5, Blocks: 4,
				FGMade: 16, FGAttempted: 20, FTMade: 6, FTAttempted: 7,
			}
			won := rating.PerformanceScore(monster, model.FiveOnFive, true, 5.0, model.SmallForward)
			lost := rating.PerformanceScore(monster, model.FiveOnFive, false, 5.0, model.SmallForward)
			tough := rating.PerformanceScore(monster, model.FiveOnFive, true, 8.0, model.SmallForward)

			Convey("Then the win and difficulty premiums survive compression", func() {
				So(won, ShouldBeLessThan, 10)
				So(won, ShouldBeGreaterThan, lost)
				So(tough, ShouldBeGreaterThan, won)
			})
		})

		Convey("When a rebounding line is scored for different roles", func() {
			boardLine := model.StatLine{
				Points: 6, Rebounds: 12, Blocks: 3, FGMade: 3, FGAttempted: 5,
			}
			asCenter := rating.PerformanceScore(boardLine, model.FiveOnFive, true, 5.0, model.Center)
			asGuard := rating.PerformanceScore(boardLine, model.FiveOnFive, true, 5.0, model.PointGuard)

			Convey("Then the role that owns those stats scores higher", func() {
				So(asCenter, ShouldBeGreaterThan, asGuard)
			})
		})
	})
}

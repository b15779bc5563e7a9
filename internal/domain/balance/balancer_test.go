package balance_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/okian/pickup/internal/domain/balance"
	"github.com/okian/pickup/internal/domain/model"
	"github.com/okian/pickup/internal/domain/predict"
	. "github.com/smartystreets/goconvey/convey"
)

// roster builds bare states where only the rating matters.
func roster(ratings ...float64) []model.PlayerRatingState {
	out := make([]model.PlayerRatingState, len(ratings))
	for i, r := range ratings {
		out[i] = model.PlayerRatingState{
			PlayerID: fmt.Sprintf("p%02d", i),
			Rating:   r,
		}
	}
	return out
}

// failingEstimator forces the balancer onto its deterministic floor.
type failingEstimator struct{}

func (failingEstimator) Predict(_ context.Context, _, _ []model.PlayerRatingState) (float64, error) {
	return 0, errors.New("estimator down")
}

func TestBalancerAssign(t *testing.T) {
	ctx := context.Background()

	Convey("Given a balancer over the baseline estimator", t, func() {
		baseline := predict.NewBaseline(predict.WithAuxiliaryFeatures(false))
		b := balance.New(baseline)

		Convey("When a lopsided ten-player run is split", func() {
			players := roster(9, 8, 7, 6, 2, 2, 1, 1, 1, 1)
			assignment, err := b.Assign(ctx, players, model.FiveOnFive)

			Convey("Then the partition is a valid disjoint cover", func() {
				So(err, ShouldBeNil)
				So(len(assignment.SideA), ShouldEqual, 5)
				So(len(assignment.SideB), ShouldEqual, 5)

				all := make(map[string]int, 10)
				for _, id := range assignment.SideA {
					all[id]++
				}
				for _, id := range assignment.SideB {
					all[id]++
				}
				So(len(all), ShouldEqual, 10)
				for _, count := range all {
					So(count, ShouldEqual, 1)
				}
			})

			Convey("Then the split beats stacking the best five together", func() {
				So(err, ShouldBeNil)
				naive, perr := baseline.Predict(ctx, players[:5], players[5:])
				So(perr, ShouldBeNil)

				found := math.Abs(assignment.WinProbabilityA - 0.5)
				stacked := math.Abs(naive - 0.5)
				So(found, ShouldBeLessThan, stacked)
				So(assignment.WinProbabilityA, ShouldBeBetween, 0.35, 0.65)
			})

			Convey("Then the exhaustive strategy is reported", func() {
				So(err, ShouldBeNil)
				So(assignment.Strategy, ShouldEqual, balance.StrategyExhaustive)
			})
		})

		Convey("When the same roster is split twice", func() {
			players := roster(9.1, 8.4, 7.2, 6.6, 5.9, 5.1, 3.3, 2.8, 2.2, 1.4)
			first, err1 := b.Assign(ctx, players, model.FiveOnFive)
			second, err2 := b.Assign(ctx, players, model.FiveOnFive)

			Convey("Then the partition is reproducible", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first.SideA, ShouldResemble, second.SideA)
				So(first.SideB, ShouldResemble, second.SideB)
				So(first.WinProbabilityA, ShouldEqual, second.WinProbabilityA)
			})

			Convey("Then each assignment still gets its own id", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first.AssignmentID, ShouldNotEqual, second.AssignmentID)
			})
		})

		Convey("When a 1v1 roster is split", func() {
			assignment, err := b.Assign(ctx, roster(6, 4), model.OneOnOne)

			Convey("Then each side holds one player", func() {
				So(err, ShouldBeNil)
				So(len(assignment.SideA), ShouldEqual, 1)
				So(len(assignment.SideB), ShouldEqual, 1)
			})
		})

		Convey("When the roster size does not fit the format", func() {
			_, err := b.Assign(ctx, roster(5, 5, 5), model.TwoOnTwo)

			Convey("Then the roster is rejected as incomplete", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, balance.ErrRosterIncomplete), ShouldBeTrue)
			})
		})

		Convey("When a player appears twice", func() {
			players := roster(5, 5, 5, 5)
			players[3].PlayerID = players[0].PlayerID
			_, err := b.Assign(ctx, players, model.TwoOnTwo)

			Convey("Then the roster is rejected as invalid", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, balance.ErrInvalidRoster), ShouldBeTrue)
			})
		})

		Convey("When the game type is unknown", func() {
			_, err := b.Assign(ctx, roster(5, 5), model.GameType("7v7"))

			Convey("Then the roster is rejected as invalid", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, balance.ErrInvalidRoster), ShouldBeTrue)
			})
		})
	})

	Convey("Given a balancer forced past exhaustive reach", t, func() {
		b := balance.New(failingEstimator{},
			balance.WithExhaustiveLimit(2),
			balance.WithSampleBudget(50),
		)

		Convey("When the estimator fails and sampling cannot improve", func() {
			assignment, err := b.Assign(ctx, roster(10, 9, 8, 7), model.TwoOnTwo)

			Convey("Then the snake draft pairs best with worst", func() {
				So(err, ShouldBeNil)
				So(assignment.SideA, ShouldResemble, []string{"p00", "p03"})
				So(assignment.SideB, ShouldResemble, []string{"p01", "p02"})
				So(assignment.WinProbabilityA, ShouldEqual, 0.5)
			})
		})
	})
}

package trainer_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/okian/pickup/internal/adapters/mq/queue"
	"github.com/okian/pickup/internal/adapters/mq/trainer"
	"github.com/okian/pickup/internal/domain/predict"
	"github.com/okian/pickup/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// fillQueue loads n outcomes where the stronger side won.
func fillQueue(ctx context.Context, q queue.Queue, n int) {
	for i := 0; i < n; i++ {
		features := make([]float64, predict.FeatureCount)
		diff := 1.0 + float64(i%4)*0.5
		aWon := i%2 == 0
		if !aWon {
			diff = -diff
		}
		features[0] = diff
		q.Enqueue(ctx, queue.Sample{
			OutcomeID: fmt.Sprintf("outcome-%d", i),
			Features:  features,
			SideAWon:  aWon,
		})
	}
}

func TestTrainer(t *testing.T) {
	_ = logger.Init()
	ctx := context.Background()

	Convey("Given a trainer over a sample queue", t, func() {
		q := queue.NewInMemoryQueue()
		handle := predict.NewModelHandle()
		tr := trainer.New(q, handle, trainer.WithInterval(time.Hour))

		Convey("When the corpus is below the minimum", func() {
			fillQueue(ctx, q, predict.MinTrainingGames-1)
			tr.RetrainNow(ctx)

			Convey("Then no model is installed but samples are retained", func() {
				So(handle.Load(), ShouldBeNil)
				So(tr.CorpusSize(), ShouldEqual, predict.MinTrainingGames-1)
				So(q.Len(ctx), ShouldEqual, 0)
			})

			Convey("And one more game tips it over", func() {
				fillQueue(ctx, q, 1)
				tr.RetrainNow(ctx)

				So(handle.Load(), ShouldNotBeNil)
				So(handle.Load().Samples, ShouldEqual, predict.MinTrainingGames)
			})
		})

		Convey("When new samples arrive after a fit", func() {
			fillQueue(ctx, q, 30)
			tr.RetrainNow(ctx)
			first := handle.Load()

			fillQueue(ctx, q, 10)
			tr.RetrainNow(ctx)
			second := handle.Load()

			Convey("Then a fresh model replaces the old artifact", func() {
				So(first, ShouldNotBeNil)
				So(second, ShouldNotEqual, first)
				So(second.Samples, ShouldEqual, 40)
			})
		})

		Convey("When nothing new arrived since the last fit", func() {
			fillQueue(ctx, q, 30)
			tr.RetrainNow(ctx)
			first := handle.Load()
			tr.RetrainNow(ctx)

			Convey("Then the artifact is left alone", func() {
				So(handle.Load(), ShouldEqual, first)
			})
		})
	})

	Convey("Given a trainer with bounded history", t, func() {
		q := queue.NewInMemoryQueue()
		handle := predict.NewModelHandle()
		tr := trainer.New(q, handle,
			trainer.WithInterval(time.Hour),
			trainer.WithMaxHistory(25),
		)

		Convey("When the corpus outgrows the bound", func() {
			fillQueue(ctx, q, 40)
			tr.RetrainNow(ctx)

			Convey("Then only the newest samples are retained", func() {
				So(tr.CorpusSize(), ShouldEqual, 25)
			})
		})
	})

	Convey("Given a running trainer loop", t, func() {
		q := queue.NewInMemoryQueue()
		handle := predict.NewModelHandle()
		tr := trainer.New(q, handle, trainer.WithInterval(time.Hour))

		go tr.Run(ctx)
		fillQueue(ctx, q, 30)

		Convey("When the trainer shuts down", func() {
			err := tr.Shutdown(ctx)

			Convey("Then the final pass trains on the pending samples", func() {
				So(err, ShouldBeNil)
				So(handle.Load(), ShouldNotBeNil)
				So(handle.Load().Samples, ShouldEqual, 30)
			})
		})
	})
}

package queue_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/okian/pickup/internal/adapters/mq/queue"
	. "github.com/smartystreets/goconvey/convey"
)

func sample(id string) queue.Sample {
	return queue.Sample{
		OutcomeID: id,
		Features:  []float64{1, 0, 0, 0, 0, 0, 0, 0, 0},
		SideAWon:  true,
	}
}

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new in-memory sample queue", t, func() {
		q := queue.NewInMemoryQueue()

		Convey("When enqueueing samples", func() {
			So(q.Enqueue(ctx, sample("o1")), ShouldBeTrue)
			So(q.Enqueue(ctx, sample("o2")), ShouldBeTrue)

			Convey("Then the length tracks the buffer", func() {
				So(q.Len(ctx), ShouldEqual, 2)
			})

			Convey("And draining returns everything in order and empties it", func() {
				drained := q.Drain(ctx)
				So(len(drained), ShouldEqual, 2)
				So(drained[0].OutcomeID, ShouldEqual, "o1")
				So(drained[1].OutcomeID, ShouldEqual, "o2")
				So(q.Len(ctx), ShouldEqual, 0)
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then further enqueues fail", func() {
				So(q.Enqueue(ctx, sample("late")), ShouldBeFalse)
			})
		})
	})

	Convey("Given a queue at capacity", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))
		So(q.Enqueue(ctx, sample("o1")), ShouldBeTrue)
		So(q.Enqueue(ctx, sample("o2")), ShouldBeTrue)

		Convey("When one more sample arrives", func() {
			ok := q.Enqueue(ctx, sample("overflow"))

			Convey("Then it is dropped instead of blocking", func() {
				So(ok, ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})

		Convey("When the queue is drained and refilled", func() {
			q.Drain(ctx)
			for i := 0; i < 2; i++ {
				So(q.Enqueue(ctx, sample(fmt.Sprintf("r%d", i))), ShouldBeTrue)
			}

			Convey("Then capacity applies to the live buffer only", func() {
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})
	})
}

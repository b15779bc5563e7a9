package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)
			registryOpt := WithPrometheusRegistry(prometheus.NewRegistry())

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(registryOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording rating metrics", func() {
			Convey("Then it should record rating updates", func() {
				So(func() {
					RecordRatingUpdates(2)
					RecordRatingUpdates(10)
				}, ShouldNotPanic)
			})

			Convey("And it should record rejected outcomes", func() {
				So(func() {
					RecordOutcomeRejected()
					RecordOutcomeRejected()
				}, ShouldNotPanic)
			})

			Convey("And it should record duplicate outcomes", func() {
				So(func() {
					RecordOutcomeDuplicate()
				}, ShouldNotPanic)
			})

			Convey("And it should observe rating deltas", func() {
				So(func() {
					ObserveRatingDelta(0.12)
					ObserveRatingDelta(-0.08)
					ObserveRatingDelta(0.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording prediction metrics", func() {
			Convey("Then it should record predictions", func() {
				So(func() {
					RecordPrediction()
					RecordPrediction()
				}, ShouldNotPanic)
			})

			Convey("And it should record fallbacks by reason", func() {
				So(func() {
					RecordPredictionFallback("no_model")
					RecordPredictionFallback("feature_extraction")
				}, ShouldNotPanic)
			})
		})

		Convey("When recording balancer metrics", func() {
			Convey("Then it should record assignments by strategy", func() {
				So(func() {
					RecordAssignment("exhaustive")
					RecordAssignment("sampled")
				}, ShouldNotPanic)
			})

			Convey("And it should observe partitions evaluated", func() {
				So(func() {
					ObservePartitionsEvaluated(126)
					ObservePartitionsEvaluated(500)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording trainer metrics", func() {
			So(func() {
				RecordTrainerRun(0.5)
				RecordTrainerError()
				UpdateTrainingQueueSize(42)
				RecordTrainingSampleDropped()
			}, ShouldNotPanic)
		})

		Convey("When recording store metrics", func() {
			So(func() {
				UpdateStoreShardCount(8)
				UpdateTotalPlayers(100)
				RecordStoreUpdateLatency(1.5)
				RecordStoreQueryLatency(0.2)
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP metrics", func() {
			Convey("Then it should record HTTP requests", func() {
				So(func() {
					RecordHTTPRequest("/healthz", "GET", "200")
					RecordHTTPRequest("/games", "POST", "200")
					RecordHTTPRequest("/leaderboard", "GET", "200")
				}, ShouldNotPanic)
			})

			Convey("And it should record HTTP request duration", func() {
				So(func() {
					RecordHTTPRequestDuration("/healthz", "GET", "200", 5.0)
					RecordHTTPRequestDuration("/games", "POST", "200", 10.0)
					RecordHTTPRequestDuration("/leaderboard", "GET", "200", 15.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1024 * 1024)
				UpdateSystemGoroutineCount(32)
			}, ShouldNotPanic)
		})
	})
}

func TestMetricsRegistry(t *testing.T) {
	Convey("Given the metrics registry", t, func() {
		Convey("When getting the global registry", func() {
			registry := GetRegistry()

			Convey("Then it should not be nil", func() {
				So(registry, ShouldNotBeNil)
			})

			Convey("And it should gather without error", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(families, ShouldNotBeNil)
			})
		})
	})
}

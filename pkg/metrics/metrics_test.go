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
			registryOpt := WithPrometheusRegistry(prometheus.NewRegistry())

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(registryOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics helpers", t, func() {
		Convey("When recording pipeline metrics", func() {
			Convey("Then none of them should panic", func() {
				So(func() {
					RecordTaskSubmitted("RateLocationQuality")
					RecordTaskRejected("familiarity")
					RecordPointsAwarded(20)
					RecordStaleSubmission()
					RecordOwnerChange()
					RecordTriggerSpawned()
					RecordTriggerFailed()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording reconciliation metrics", func() {
			Convey("Then none of them should panic", func() {
				So(func() {
					RecordScoreUpdateQueued()
					RecordScoreUpdateReconciled()
					RecordScoreUpdateDropped()
					UpdateRetryQueueSize(3)
					UpdateReconcilerCount(2)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording store metrics", func() {
			Convey("Then none of them should panic", func() {
				So(func() {
					UpdateStoreShardCount(8)
					RecordStoreRecordAdded("location")
					RecordStoreUpdateLatency(1.5)
					RecordStoreQueryLatency(0.5)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP metrics", func() {
			Convey("Then none of them should panic", func() {
				So(func() {
					RecordHTTPRequest("tasks", "POST", "201")
					RecordHTTPRequestDuration("tasks", "POST", "201", 2.5)
				}, ShouldNotPanic)
			})
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Given the custom registry", t, func() {
		Convey("When metrics have been recorded", func() {
			RecordTaskSubmitted("AddProduct")

			Convey("Then the registry gathers the metric families", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}

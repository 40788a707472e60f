package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then collectors should be registered under the default namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.linesScanned.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "gradeparse_service_lines_scanned_total")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the custom naming should apply", func() {
				manager.queueSize.Set(3)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				So(testutil.ToFloat64(manager.queueSize), ShouldEqual, 3)
			})
		})

		Convey("When the same options register twice on one registry", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then promauto should panic on the duplicate", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording extraction metrics", func() {
			before := testutil.ToFloat64(globalManager.linesRejected.WithLabelValues("too_few_numbers"))
			RecordLinesScanned(4)
			RecordLineRejected("too_few_numbers")
			RecordCoursesExtracted("local", 3)
			RecordExtractLatency("local", 0.4)
			RecordExtractFallback()

			Convey("Then counters should move", func() {
				after := testutil.ToFloat64(globalManager.linesRejected.WithLabelValues("too_few_numbers"))
				So(after-before, ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.coursesExtracted.WithLabelValues("local")), ShouldBeGreaterThanOrEqualTo, 3)
			})
		})

		Convey("When recording the remaining metrics", func() {
			Convey("Then nothing should panic", func() {
				So(func() {
					RecordRemoteLatency(120)
					RecordRemoteError("rate_limited")
					RecordRemoteCacheHit()
					RecordImportDuplicate()
					UpdateStoredCourses(7)
					RecordStoreLatency("add", 0.2)
					UpdateQueueSize(2)
					UpdateQueueCapacity(100)
					RecordQueueEnqueue()
					RecordQueueDequeue()
					RecordQueueEnqueueError()
					UpdateWorkerCount(4)
					RecordWorkerProcessingLatency(3)
					RecordJobFinished("done")
					RecordHTTPRequest("parse", "POST", "200")
					RecordHTTPRequestDuration("parse", "POST", "200", 1.5)
					RecordHTTPError("parse", "POST", "invalid_body")
					UpdateSystemMemoryUsage(1024)
					UpdateSystemGoroutineCount(10)
					RecordSystemGCPauseTime(0.3)
				}, ShouldNotPanic)
				So(testutil.ToFloat64(globalManager.storedCourses), ShouldEqual, 7)
			})
		})

		Convey("When asking for the registry", func() {
			Convey("Then it should be the custom one", func() {
				So(GetRegistry(), ShouldEqual, customRegistry)
			})
		})
	})
}

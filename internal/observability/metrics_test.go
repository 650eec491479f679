package observability

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-assignment/internal/domain"
)

func TestMetrics(t *testing.T) {
	Convey("Given a metrics registry", t, func() {
		m := NewMetrics(WithNamespace("unit"), WithBuckets([]float64{0.1, 1}))

		Convey("assignments are counted by status and tier", func() {
			m.RecordAssignment(domain.AssignmentStatusAssigned, domain.TierAvailableStrong)
			m.RecordAssignment(domain.AssignmentStatusAssigned, domain.TierAvailableStrong)
			m.RecordAssignment(domain.AssignmentStatusFallback, domain.TierFallback)

			So(testutil.ToFloat64(m.assignments.WithLabelValues("Assigned", "1")), ShouldEqual, 2.0)
			So(testutil.ToFloat64(m.assignments.WithLabelValues("Assigned (Fallback)", "6")), ShouldEqual, 1.0)
		})

		Convey("analysis sources and availability outcomes are counted", func() {
			m.RecordSkillAnalysis(domain.SkillAnalysisFallback)
			m.RecordAvailability(AvailabilityFailOpen)
			m.RecordPipelineFailure("record")

			So(testutil.ToFloat64(m.skillAnalyses.WithLabelValues("fallback")), ShouldEqual, 1.0)
			So(testutil.ToFloat64(m.availability.WithLabelValues("fail_open")), ShouldEqual, 1.0)
			So(testutil.ToFloat64(m.pipelineFailures.WithLabelValues("record")), ShouldEqual, 1.0)
		})

		Convey("dependency calls are split by result", func() {
			m.ObserveDependency("calendar", nil, 20*time.Millisecond)
			m.ObserveDependency("calendar", errors.New("timeout"), time.Second)

			So(testutil.CollectAndCount(m.dependencyLatency), ShouldEqual, 2)
		})

		Convey("the handler exposes namespaced series", func() {
			m.RecordRequest("/health/live", "GET", 200, time.Millisecond)

			rec := httptest.NewRecorder()
			m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
			So(rec.Code, ShouldEqual, 200)
			So(rec.Body.String(), ShouldContainSubstring, `unit_http_requests_total{method="GET",path="/health/live",status="200"} 1`)
		})
	})

	Convey("A nil registry records nothing and does not panic", t, func() {
		var m *Metrics
		So(func() {
			m.RecordRequest("/", "GET", 200, 0)
			m.RecordError("/", "GET", "X")
			m.RecordAssignment(domain.AssignmentStatusAssigned, 1)
			m.RecordSkillAnalysis(domain.SkillAnalysisInference)
			m.RecordAvailability(AvailabilityFree)
			m.ObserveDependency("x", nil, 0)
			m.RecordPipelineFailure("publish")
		}, ShouldNotPanic)
		So(m.Registry(), ShouldBeNil)
	})
}

func TestRequestLogger(t *testing.T) {
	Convey("The request logger records the route template", t, func() {
		m := NewMetrics(WithNamespace("rl"))
		app := fiber.New()
		app.Use(RequestLogger(zap.NewNop(), m))
		app.Get("/api/v1/tickets/:ticket_id/assignments", func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusNoContent)
		})

		resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/tickets/TKT-9/assignments", nil), -1)
		So(err, ShouldBeNil)
		_, _ = io.Copy(io.Discard, resp.Body)
		So(resp.StatusCode, ShouldEqual, fiber.StatusNoContent)

		So(testutil.ToFloat64(m.requests.WithLabelValues("/api/v1/tickets/:ticket_id/assignments", "GET", "204")), ShouldEqual, 1.0)
	})
}

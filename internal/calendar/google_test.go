package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"google.golang.org/api/option"

	"github.com/spec-kit/ticket-assignment/internal/config"
)

func freeBusyServer(t *testing.T, handler func(req map[string]any) (int, any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "freeBusy") {
			http.NotFound(w, r)
			return
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		status, resp := handler(body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server) *GoogleClient {
	client, err := NewGoogleClientWithOptions(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestGoogleClientBusyPeriods(t *testing.T) {
	from := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 3, 17, 0, 0, 0, time.UTC)

	Convey("Given a free/busy endpoint", t, func() {
		Convey("busy intervals are returned for the technician", func() {
			var seen map[string]any
			srv := freeBusyServer(t, func(req map[string]any) (int, any) {
				seen = req
				return http.StatusOK, map[string]any{
					"calendars": map[string]any{
						"tech@company.com": map[string]any{
							"busy": []map[string]string{{"start": "2026-03-02T10:00:00Z", "end": "2026-03-02T11:00:00Z"}},
						},
					},
				}
			})

			periods, err := newTestClient(t, srv).BusyPeriods(context.Background(), "tech@company.com", from, to)
			So(err, ShouldBeNil)
			So(periods, ShouldHaveLength, 1)
			So(periods[0].Start, ShouldEqual, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
			So(seen["timeMin"], ShouldEqual, "2026-03-02T09:00:00Z")
			So(seen["timeMax"], ShouldEqual, "2026-03-03T17:00:00Z")
		})

		Convey("an empty busy list means free", func() {
			srv := freeBusyServer(t, func(map[string]any) (int, any) {
				return http.StatusOK, map[string]any{
					"calendars": map[string]any{"tech@company.com": map[string]any{"busy": []any{}}},
				}
			})

			periods, err := newTestClient(t, srv).BusyPeriods(context.Background(), "tech@company.com", from, to)
			So(err, ShouldBeNil)
			So(periods, ShouldBeEmpty)
		})

		Convey("calendar level errors are surfaced", func() {
			srv := freeBusyServer(t, func(map[string]any) (int, any) {
				return http.StatusOK, map[string]any{
					"calendars": map[string]any{"tech@company.com": map[string]any{
						"errors": []map[string]string{{"domain": "global", "reason": "notFound"}},
					}},
				}
			})

			_, err := newTestClient(t, srv).BusyPeriods(context.Background(), "tech@company.com", from, to)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "notFound")
		})

		Convey("HTTP failures are surfaced", func() {
			srv := freeBusyServer(t, func(map[string]any) (int, any) {
				return http.StatusInternalServerError, map[string]any{"error": map[string]any{"code": 500, "message": "boom"}}
			})

			_, err := newTestClient(t, srv).BusyPeriods(context.Background(), "tech@company.com", from, to)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Without credentials the client is not constructed", t, func() {
		_, err := NewGoogleClient(context.Background(), config.CalendarConfig{})
		So(err, ShouldEqual, ErrNotConfigured)
	})
}

package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/spec-kit/ticket-assignment/internal/config"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memoryCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func completionServer(t *testing.T, failures int32, content string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if n <= failures {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream busy","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestCompletionClient(t *testing.T) {
	Convey("Given an OpenAI-compatible endpoint", t, func() {
		payload := `{"required_skills":["SQL Database"],"complexity_level":3}`

		Convey("the reply content is returned", func() {
			srv, calls := completionServer(t, 0, payload)
			client := NewCompletionClient(config.SkillInferenceConfig{BaseURL: srv.URL + "/v1", Model: "test-model"}, nil, nil)

			out, err := client.Complete(context.Background(), "prompt")
			So(err, ShouldBeNil)
			So(out, ShouldEqual, payload)
			So(atomic.LoadInt32(calls), ShouldEqual, 1)
		})

		Convey("server errors are retried", func() {
			srv, calls := completionServer(t, 1, payload)
			client := NewCompletionClient(config.SkillInferenceConfig{
				BaseURL:      srv.URL + "/v1",
				Model:        "test-model",
				MaxRetries:   2,
				RetryDelayMS: 1,
			}, nil, nil)

			out, err := client.Complete(context.Background(), "prompt")
			So(err, ShouldBeNil)
			So(out, ShouldEqual, payload)
			So(atomic.LoadInt32(calls), ShouldEqual, 2)
		})

		Convey("retries stop after the budget", func() {
			srv, calls := completionServer(t, 10, payload)
			client := NewCompletionClient(config.SkillInferenceConfig{
				BaseURL:      srv.URL + "/v1",
				Model:        "test-model",
				MaxRetries:   1,
				RetryDelayMS: 1,
			}, nil, nil)

			_, err := client.Complete(context.Background(), "prompt")
			So(err, ShouldNotBeNil)
			So(atomic.LoadInt32(calls), ShouldEqual, 2)
		})

		Convey("cached completions skip the endpoint", func() {
			srv, calls := completionServer(t, 0, payload)
			cache := &memoryCache{data: map[string]string{}}
			client := NewCompletionClient(config.SkillInferenceConfig{
				BaseURL:         srv.URL + "/v1",
				Model:           "test-model",
				CacheTTLSeconds: 60,
			}, cache, nil)

			first, err := client.Complete(context.Background(), "prompt")
			So(err, ShouldBeNil)
			second, err := client.Complete(context.Background(), "prompt")
			So(err, ShouldBeNil)
			So(second, ShouldEqual, first)
			So(atomic.LoadInt32(calls), ShouldEqual, 1)
		})

		Convey("an empty reply is an error", func() {
			srv, _ := completionServer(t, 0, "  ")
			client := NewCompletionClient(config.SkillInferenceConfig{BaseURL: srv.URL + "/v1", Model: "test-model"}, nil, nil)

			_, err := client.Complete(context.Background(), "prompt")
			So(err, ShouldEqual, ErrEmptyCompletion)
		})
	})
}

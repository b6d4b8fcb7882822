package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/questionhub/qa-server-go/internal/errors"
	"github.com/questionhub/qa-server-go/internal/metrics"
)

func testProfanityConfig(url string) ProfanityConfig {
	return ProfanityConfig{
		APIURL:        url,
		APIKey:        "test-key",
		Timeout:       2 * time.Second,
		RetryBase:     time.Millisecond,
		MaxBackoff:    5 * time.Millisecond,
		MaxAttempts:   5,
		RatePerSecond: 1000,
	}
}

func TestProfanityClient_Check(t *testing.T) {
	t.Run("returns censored content", func(t *testing.T) {
		var gotKey, gotCensorChar, gotBody, gotMethod string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotKey = r.Header.Get("apikey")
			gotCensorChar = r.URL.Query().Get("censor_character")
			body, _ := io.ReadAll(r.Body)
			gotBody = string(body)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"content":"what the shit","bad_words_total":1,"bad_words_list":[],"censored_content":"what the ****"}`))
		}))
		defer server.Close()

		m := metrics.NewRegistry()
		client := NewProfanityClient(testProfanityConfig(server.URL), m)

		censored, err := client.Check(context.Background(), "what the shit")
		require.NoError(t, err)
		assert.Equal(t, "what the ****", censored)
		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "test-key", gotKey)
		assert.Equal(t, "*", gotCensorChar)
		assert.Equal(t, "what the shit", gotBody)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.ModerationRequests.WithLabelValues(metrics.OutcomeSuccess)))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.ModerationAttempts))
	})

	t.Run("client error is not retried", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"bad request body"}`))
		}))
		defer server.Close()

		client := NewProfanityClient(testProfanityConfig(server.URL), nil)

		_, err := client.Check(context.Background(), "hello")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeModerationClient, apperrors.GetCode(err))
		assert.Equal(t, int32(1), calls.Load())

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		upstream, ok := appErr.Upstream()
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, upstream.Status)
		assert.Equal(t, "bad request body", upstream.Message)
	})

	t.Run("server error retried until attempts run out", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"message":"try later"}`))
		}))
		defer server.Close()

		m := metrics.NewRegistry()
		client := NewProfanityClient(testProfanityConfig(server.URL), m)

		_, err := client.Check(context.Background(), "hello")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeModerationServer, apperrors.GetCode(err))
		assert.Equal(t, int32(5), calls.Load())
		assert.Equal(t, 5.0, testutil.ToFloat64(m.ModerationAttempts))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.ModerationRequests.WithLabelValues(metrics.OutcomeServerError)))

		appErr, _ := apperrors.AsAppError(err)
		upstream, ok := appErr.Upstream()
		require.True(t, ok)
		assert.Equal(t, http.StatusServiceUnavailable, upstream.Status)
		assert.Equal(t, "try later", upstream.Message)
	})

	t.Run("recovers after transient failures", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch calls.Add(1) {
			case 1:
				w.WriteHeader(http.StatusTooManyRequests)
			case 2:
				w.WriteHeader(http.StatusBadGateway)
			default:
				_, _ = w.Write([]byte(`{"censored_content":"clean"}`))
			}
		}))
		defer server.Close()

		client := NewProfanityClient(testProfanityConfig(server.URL), nil)

		censored, err := client.Check(context.Background(), "clean")
		require.NoError(t, err)
		assert.Equal(t, "clean", censored)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		client := NewProfanityClient(testProfanityConfig(url), nil)

		_, err := client.Check(context.Background(), "hello")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeModerationTransport, apperrors.GetCode(err))
	})

	t.Run("success status with unusable body", func(t *testing.T) {
		tests := []struct {
			name string
			body string
		}{
			{name: "not json", body: "<html>oops</html>"},
			{name: "missing censored_content", body: `{"content":"hello"}`},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				var calls atomic.Int32
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					calls.Add(1)
					_, _ = w.Write([]byte(tc.body))
				}))
				defer server.Close()

				client := NewProfanityClient(testProfanityConfig(server.URL), nil)

				_, err := client.Check(context.Background(), "hello")
				require.Error(t, err)
				assert.Equal(t, apperrors.ErrCodeExternal, apperrors.GetCode(err))
				assert.Equal(t, int32(1), calls.Load())
			})
		}
	})

	t.Run("error message falls back to body then status text", func(t *testing.T) {
		assert.Equal(t, "quota", errorMessage(http.StatusForbidden, []byte(`{"message":"quota"}`)))
		assert.Equal(t, "plain failure", errorMessage(http.StatusForbidden, []byte(" plain failure \n")))
		assert.Equal(t, "Forbidden", errorMessage(http.StatusForbidden, nil))
	})

	t.Run("missing api key fails without a request", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		}))
		defer server.Close()

		cfg := testProfanityConfig(server.URL)
		cfg.APIKey = ""
		client := NewProfanityClient(cfg, nil)

		_, err := client.Check(context.Background(), "hello")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeModerationTransport, apperrors.GetCode(err))
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewProfanityClient(testProfanityConfig(server.URL), nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.Check(ctx, "hello")
		require.Error(t, err)
		assert.True(t, apperrors.IsModeration(err))
	})
}

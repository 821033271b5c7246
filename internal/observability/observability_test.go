package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContextDefaultsToNop(t *testing.T) {
	require.NotNil(t, FromContext(context.Background()))

	logger := zap.NewExample()
	ctx := WithLogger(context.Background(), logger)
	require.Same(t, logger, FromContext(ctx))
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger("chatty")
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	require.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = NewLogger("DEBUG")
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestRequestLoggerLevelsByStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := chi.NewRouter()
	r.Use(InjectLogger(zap.New(core)))
	r.Use(TraceMiddleware)
	r.Use(RequestLogger)
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Post("/booking/next", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	req = httptest.NewRequest(http.MethodPost, "/booking/next", nil)
	req.Header.Set("HX-Request", "true")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 2)
	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
	require.EqualValues(t, 200, entries[0].ContextMap()["status"])
	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
	require.Equal(t, "/booking/next", entries[1].ContextMap()["route"])
	require.Equal(t, true, entries[1].ContextMap()["htmx"])
}

func TestClipDropsControlRunesAndMarksTruncation(t *testing.T) {
	require.Equal(t, "/bookingnext", clip("/booking\r\nnext", pathRunes))
	require.Equal(t, "abc...", clip("abcdef", 3))
	require.Equal(t, "abc", clip("abc", 3))
	require.Equal(t, "नमस...", clip("नमस्ते", 3))
	require.Equal(t, "/", logPath(""))
	require.Equal(t, "POST", logMethod("post"))
	require.Len(t, []rune(logUserAgent(strings.Repeat("x", 500))), userAgentRunes+len(clipMarker))
}

func TestRequestLoggerClipsHostileInput(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := chi.NewRouter()
	r.Use(InjectLogger(zap.New(core)))
	r.Use(RequestLogger)
	r.Get("/*", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/"+strings.Repeat("a", 300), nil)
	req.URL.Path = "/fake\nlevel=error" + req.URL.Path
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	path, _ := entries[0].ContextMap()["path"].(string)
	require.NotContains(t, path, "\n")
	require.True(t, strings.HasPrefix(path, "/fakelevel=error/"), path)
	require.True(t, strings.HasSuffix(path, clipMarker), path)
}

func TestMetricsHandlerExposesSeries(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.ObserveStep(1, "advanced")
	m.ObserveSubmission("sent")
	m.ObserveGateReveal(2.6)
	done := m.GateStarted()
	done()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	require.Contains(t, body, `acweb_booking_steps_total{result="advanced",step="1"} 1`)
	require.Contains(t, body, `acweb_booking_submissions_total{result="sent"} 1`)
	require.Contains(t, body, "acweb_gate_reveal_seconds_count 1")
	require.Contains(t, body, "acweb_gate_active 0")
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveStep(2, "invalid")
	m.ObserveSubmission("missing")
	m.ObserveGateReveal(1)
	m.GateStarted()()
}

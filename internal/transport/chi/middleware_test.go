package chi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	logpkg "github.com/kailas-cloud/dogreid/internal/logger"
)

func TestJSONRecoverer(t *testing.T) {
	h := JSONRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
}

func TestWideEvent(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	var ctxLoggerSet bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logpkg.FromContext(r.Context()).Info("inside")
		ctxLoggerSet = true
		w.WriteHeader(http.StatusAccepted)
	})
	h := chiMiddleware.RequestID(WideEvent(zap.New(core))(inner))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/search", http.NoBody))

	if !ctxLoggerSet {
		t.Fatal("handler not called")
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}

	lines := logs.FilterMessage("http_request").All()
	if len(lines) != 1 {
		t.Fatalf("expected 1 canonical line, got %d", len(lines))
	}
	fields := lines[0].ContextMap()
	if fields["status"] != int64(http.StatusAccepted) {
		t.Errorf("status field = %v", fields["status"])
	}
	if fields["request_id"] == "" {
		t.Error("request_id missing")
	}
	if logs.FilterMessage("inside").Len() != 1 {
		t.Error("request logger not propagated through context")
	}
}

func TestInternalError_CarriesRequestID(t *testing.T) {
	id := &mockIdentifier{err: errors.New("session crashed")}
	h := chiMiddleware.RequestID(WideEvent(zap.NewNop())(
		newTestRouter(NewServer(id, &mockMatcher{}, &mockHealth{}, nil)),
	))

	body, ct := multipartBody(t, "image", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/search", body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	resp := decode[ErrorResponse](t, rr)
	if resp.RequestID == "" || resp.RequestID != rr.Header().Get("X-Request-ID") {
		t.Errorf("request_id = %q, header = %q", resp.RequestID, rr.Header().Get("X-Request-ID"))
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/heartmarshall/wikidefine/pkg/ctxutil"
)

func TestRequestID_ReuseIncoming(t *testing.T) {
	const incoming = "req-from-proxy"

	var got string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ctxutil.RequestIDFromCtx(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	rec := httptest.NewRecorder()
	RequestID()(handler).ServeHTTP(rec, req)

	if got != incoming {
		t.Errorf("context request id = %q, want %q", got, incoming)
	}
	if h := rec.Header().Get(RequestIDHeader); h != incoming {
		t.Errorf("%s header = %q, want %q", RequestIDHeader, h, incoming)
	}
}

func TestRequestID_GenerateNew(t *testing.T) {
	var got string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ctxutil.RequestIDFromCtx(r.Context())
	})

	rec := httptest.NewRecorder()
	RequestID()(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if _, err := uuid.Parse(got); err != nil {
		t.Errorf("expected a UUID request id, got %q: %v", got, err)
	}
	if h := rec.Header().Get(RequestIDHeader); h != got {
		t.Errorf("%s header = %q, want %q", RequestIDHeader, h, got)
	}
}

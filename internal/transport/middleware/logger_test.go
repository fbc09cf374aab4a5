package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/heartmarshall/wikidefine/pkg/ctxutil"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantLevel string
		wantParts []string
	}{
		{
			name:      "ok",
			status:    http.StatusOK,
			body:      `{"word":"cat"}`,
			wantLevel: "INFO",
			wantParts: []string{`"status":200`, `"bytes":14`, `"path":"/words/cat"`, `"query":"language=English"`},
		},
		{
			name:      "not found",
			status:    http.StatusNotFound,
			wantLevel: "INFO",
			wantParts: []string{`"status":404`},
		},
		{
			name:      "server error",
			status:    http.StatusInternalServerError,
			wantLevel: "ERROR",
			wantParts: []string{`"status":500`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			req := httptest.NewRequest(http.MethodGet, "/words/cat?language=English", nil)
			req = req.WithContext(ctxutil.WithRequestID(req.Context(), "rid-123"))
			Logger(logger)(handler).ServeHTTP(httptest.NewRecorder(), req)

			out := buf.String()
			parts := append([]string{"http.request", `"level":"` + tt.wantLevel + `"`, `"request_id":"rid-123"`}, tt.wantParts...)
			for _, p := range parts {
				if !strings.Contains(out, p) {
					t.Errorf("log %q does not contain %q", out, p)
				}
			}
		})
	}
}

func TestLogger_ImplicitStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	Logger(logger)(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/live", nil))

	if !strings.Contains(buf.String(), `"status":200`) {
		t.Errorf("expected status 200 in %q", buf.String())
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/heartmarshall/carehome-backend/pkg/ctxutil"
)

func TestRequestID_ReuseIncoming(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"uuid", uuid.NewString()},
		{"scheduler run id", "cron-drain:2024-01-01T10.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var inCtx string
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				inCtx = ctxutil.RequestIDFromCtx(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/notifications/drain", nil)
			req.Header.Set(RequestIDHeader, tt.id)
			rec := httptest.NewRecorder()

			RequestID()(handler).ServeHTTP(rec, req)

			if inCtx != tt.id {
				t.Errorf("context request id = %q, want %q", inCtx, tt.id)
			}
			if got := rec.Header().Get(RequestIDHeader); got != tt.id {
				t.Errorf("%s = %q, want %q", RequestIDHeader, got, tt.id)
			}
		})
	}
}

func TestRequestID_GenerateNew(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
	}{
		{"missing", ""},
		{"too long", strings.Repeat("a", maxRequestIDLen+1)},
		{"spaces", "drain run 1"},
		{"control bytes", "abc\x1bdef"},
		{"log injection", "abc\"level=error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var inCtx string
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				inCtx = ctxutil.RequestIDFromCtx(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/workflow/events", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()

			RequestID()(handler).ServeHTTP(rec, req)

			got := rec.Header().Get(RequestIDHeader)
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("%s = %q, want a generated UUID", RequestIDHeader, got)
			}
			if inCtx != got {
				t.Errorf("context request id = %q, header = %q", inCtx, got)
			}
		})
	}
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/segmentio/kafka-go"

	"redactor/pkg/filter"
	"redactor/pkg/models"
)

type chanWriter struct {
	msgs chan kafka.Message
}

func (w *chanWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		w.msgs <- m
	}
	return nil
}

func Test_requestIDMiddlewareHeaderExists(t *testing.T) {
	api := &API{}
	wantID := "test-req-id-123"
	handler := api.requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotID := GetRequestID(r.Context()); gotID != wantID {
			t.Errorf("want request id in context %q, got %q", wantID, gotID)
		}
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "ok")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", wantID)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("want status code %v, got %v", http.StatusOK, rr.Code)
	}
	if got := rr.Header().Get("X-Request-Id"); got != wantID {
		t.Errorf("want X-Request-Id header %q, got %q", wantID, got)
	}
}

func Test_requestIDMiddlewareHeaderNotExists(t *testing.T) {
	api := &API{}
	handler := api.requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID := GetRequestID(r.Context())
		if gotID == "" {
			t.Error("want non-empty request id in context when header is missing")
		}
		if _, err := uuid.FromString(gotID); err != nil {
			t.Errorf("want valid UUID for generated request id, got %q", gotID)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Header().Get("X-Request-Id") == "" {
		t.Error("want non-empty X-Request-Id header when header is missing")
	}
}

func Test_loggingMiddleware(t *testing.T) {
	kw := &chanWriter{msgs: make(chan kafka.Message, 1)}
	api := New("redactor", filter.New(testTerms), kw)

	req := httptest.NewRequest(http.MethodPost, "/filter", bytes.NewReader(newTestComment(t, "bomb and bad")))
	req.Header.Set("X-Request-Id", testRequestID)
	req.Header.Set("X-Forwarded-For", "10.0.0.1")
	rr := httptest.NewRecorder()
	api.Router().ServeHTTP(rr, req)

	var msg kafka.Message
	select {
	case msg = <-kw.msgs:
	case <-time.After(5 * time.Second):
		t.Fatal("no log entry written to Kafka")
	}

	var entry models.LogEntry
	if err := json.Unmarshal(msg.Value, &entry); err != nil {
		t.Fatalf("failed to unmarshal log entry: %v", err)
	}

	if entry.RequestID != testRequestID {
		t.Errorf("want request id %q, got %q", testRequestID, entry.RequestID)
	}
	if entry.Service != "redactor" {
		t.Errorf("want service %q, got %q", "redactor", entry.Service)
	}
	if entry.StatusCode != http.StatusOK {
		t.Errorf("want status code %v, got %v", http.StatusOK, entry.StatusCode)
	}
	if entry.Path != "/filter" || entry.Method != http.MethodPost {
		t.Errorf("want POST /filter, got %s %s", entry.Method, entry.Path)
	}
	if entry.IP != "10.0.0.1" {
		t.Errorf("want ip 10.0.0.1, got %q", entry.IP)
	}
	if entry.Redactions != 2 {
		t.Errorf("want 2 redactions, got %d", entry.Redactions)
	}
}

func Test_shorten(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abcdef", "abcdef"},
		{testRequestID, "9b4f6c..."},
	}

	for _, tt := range tests {
		if got := shorten(tt.in); got != tt.want {
			t.Errorf("shorten(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

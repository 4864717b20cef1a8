package logger

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseLogger(t *testing.T) {
	rr := httptest.NewRecorder()
	lw := New(rr)

	if lw.Status() != http.StatusOK {
		t.Errorf("want default status %v, got %v", http.StatusOK, lw.Status())
	}

	lw.Header().Set("X-Test", "1")
	lw.WriteHeader(http.StatusUnprocessableEntity)
	io.WriteString(lw, "hello")

	if lw.Status() != http.StatusUnprocessableEntity {
		t.Errorf("want status %v, got %v", http.StatusUnprocessableEntity, lw.Status())
	}
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("want recorded status %v, got %v", http.StatusUnprocessableEntity, rr.Code)
	}
	if lw.Written() != 5 {
		t.Errorf("want 5 bytes written, got %d", lw.Written())
	}
	if rr.Header().Get("X-Test") != "1" {
		t.Error("header set through the wrapper did not reach the underlying writer")
	}
}

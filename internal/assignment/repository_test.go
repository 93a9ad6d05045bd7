package assignment

import (
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"syscall"
	"testing"

	"github.com/campus-insights/campus-insights/internal/platform/httpx"
)

func TestClassifyMapsDialFailureToUnavailable(t *testing.T) {
	dialErr := &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}
	err := classify(dialErr, "load assignments")
	if !errors.Is(err, httpx.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	rec := httptest.NewRecorder()
	httpx.RespondError(rec, err)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for a store outage, got %d", rec.Code)
	}
}

func TestClassifyKeepsQueryFailuresInternal(t *testing.T) {
	err := classify(errors.New("syntax error at or near"), "load assignments")
	if errors.Is(err, httpx.ErrUnavailable) {
		t.Fatalf("query failure must not look retryable: %v", err)
	}

	rec := httptest.NewRecorder()
	httpx.RespondError(rec, err)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

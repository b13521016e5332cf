package logging

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddlewareStampsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(DEBUG, &buf)
	handler := NewHTTPLogger(logger).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	id := rec.Header().Get(RequestIDHeader)
	if id == "" {
		t.Fatalf("expected request id header")
	}
	entries := decodeEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry got %d", len(entries))
	}
	if entries[0].Level != "WARN" || entries[0].RequestID != id || entries[0].Category != "http" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}

func TestMiddlewareKeepsIncomingRequestID(t *testing.T) {
	logger := Discard()
	handler := NewHTTPLogger(logger).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "upstream-id" {
		t.Fatalf("expected upstream id, got %q", got)
	}
}

func TestRecoverAnswers500AndLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(DEBUG, &buf)
	handler := Recover(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("render exploded")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/dialog/confirm", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
	entries := decodeEntries(t, &buf)
	if len(entries) != 1 || entries[0].Error != "render exploded" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

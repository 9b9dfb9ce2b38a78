// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
)

func TestRecovererPanics(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{name: "string", value: "nil map write"},
		{name: "error", value: errors.New("index out of range")},
		{name: "integer", value: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			last := captureLog(t)
			handler := chimw.RequestID(Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic(tt.value)
			})))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/posts", nil))

			if rr.Code != http.StatusInternalServerError {
				t.Fatalf("status: got %d, want 500", rr.Code)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
				t.Errorf("Content-Type: got %q", ct)
			}
			var body map[string]string
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["error"] != "Internal Server Error" {
				t.Errorf("error: got %q", body["error"])
			}

			rec := last()
			if rec["msg"] != "panic recovered" || rec["level"] != "ERROR" {
				t.Errorf("record: msg=%v level=%v", rec["msg"], rec["level"])
			}
			if id, _ := rec["request_id"].(string); id == "" {
				t.Error("request_id missing from panic record")
			}
			if stack, _ := rec["stack"].(string); !strings.Contains(stack, "goroutine") {
				t.Error("stack trace missing from panic record")
			}
		})
	}
}

// TestRecovererAbortHandler checks that http.ErrAbortHandler is re-raised
// so net/http can drop the connection quietly.
func TestRecovererAbortHandler(t *testing.T) {
	handler := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Errorf("recovered %v, want http.ErrAbortHandler", rec)
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/posts", nil))
	t.Error("ServeHTTP returned without panicking")
}

func TestRecovererPassThrough(t *testing.T) {
	handler := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "/api/admin/posts/1")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"1"}`))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/admin/posts", nil))

	if rr.Code != http.StatusCreated {
		t.Errorf("status: got %d, want 201", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != "/api/admin/posts/1" {
		t.Errorf("Location: got %q", got)
	}
	if rr.Body.String() != `{"id":"1"}` {
		t.Errorf("body: got %q", rr.Body.String())
	}
}

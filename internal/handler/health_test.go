package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// mockHealthChecker is a mock implementation of HealthChecker for testing.
type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) Ping(ctx context.Context) error {
	return m.err
}

func doReadyz(t *testing.T, h *HealthHandler) (int, HealthResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	h.Readyz(rec, req)

	var response HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return rec.Code, response
}

func TestHealthHandler_Healthz(t *testing.T) {
	h := NewHealthHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	h.Healthz(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	var response HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Status != "ok" {
		t.Errorf("expected status 'ok', got %s", response.Status)
	}
}

func TestHealthHandler_Readyz(t *testing.T) {
	tests := []struct {
		name         string
		db           HealthChecker
		cache        HealthChecker
		wantCode     int
		wantPostgres string
		wantRedis    string
	}{
		{
			name:         "all healthy",
			db:           &mockHealthChecker{},
			cache:        &mockHealthChecker{},
			wantCode:     http.StatusOK,
			wantPostgres: "ok",
			wantRedis:    "ok",
		},
		{
			name:         "cache disabled",
			db:           &mockHealthChecker{},
			wantCode:     http.StatusOK,
			wantPostgres: "ok",
			wantRedis:    "disabled",
		},
		{
			name:         "database down",
			db:           &mockHealthChecker{err: errors.New("connection refused")},
			cache:        &mockHealthChecker{},
			wantCode:     http.StatusServiceUnavailable,
			wantPostgres: "error: connection refused",
			wantRedis:    "ok",
		},
		{
			name:         "cache down",
			db:           &mockHealthChecker{},
			cache:        &mockHealthChecker{err: errors.New("timeout")},
			wantCode:     http.StatusServiceUnavailable,
			wantPostgres: "ok",
			wantRedis:    "error: timeout",
		},
		{
			name:         "no database",
			wantCode:     http.StatusServiceUnavailable,
			wantPostgres: "not configured",
			wantRedis:    "disabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, response := doReadyz(t, NewHealthHandler(tt.db, tt.cache))

			if code != tt.wantCode {
				t.Errorf("expected status %d, got %d", tt.wantCode, code)
			}
			if response.Checks["postgres"] != tt.wantPostgres {
				t.Errorf("postgres check = %q, want %q", response.Checks["postgres"], tt.wantPostgres)
			}
			if response.Checks["redis"] != tt.wantRedis {
				t.Errorf("redis check = %q, want %q", response.Checks["redis"], tt.wantRedis)
			}
		})
	}
}

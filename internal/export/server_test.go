package export

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"concierge-chef/internal/planner"
)

type mockPlanSource struct {
	plans map[string]*planner.WeeklyPlan
}

func (m *mockPlanSource) Latest(_ context.Context, userID string) (*planner.WeeklyPlan, error) {
	return m.plans[userID], nil
}

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	secret := "test-secret"
	source := &mockPlanSource{plans: map[string]*planner.WeeklyPlan{
		"alice": {
			WeekStart: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
			TotalCost: 42.5,
		},
	}}

	mux := http.NewServeMux()
	NewServer(source, secret).RegisterHandlers(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, secret
}

func TestHandleLatestPlan(t *testing.T) {
	srv, secret := newTestServer(t)

	t.Run("Unauthorized", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/plans/latest")
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected 401 without token, got %d", resp.StatusCode)
		}
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, err := MintToken("other-secret", "alice", time.Hour)
		if err != nil {
			t.Fatalf("Failed to mint token: %v", err)
		}
		req, _ := http.NewRequest("GET", srv.URL+"/plans/latest", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected 401 with wrong secret, got %d", resp.StatusCode)
		}
	})

	t.Run("ServesLatestPlan", func(t *testing.T) {
		token, err := MintToken(secret, "alice", time.Hour)
		if err != nil {
			t.Fatalf("Failed to mint token: %v", err)
		}
		req, _ := http.NewRequest("GET", srv.URL+"/plans/latest", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}

		var plan planner.WeeklyPlan
		if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
			t.Fatalf("Failed to decode plan: %v", err)
		}
		if plan.TotalCost != 42.5 {
			t.Errorf("Expected total cost 42.5, got %f", plan.TotalCost)
		}
	})

	t.Run("NoPlanStored", func(t *testing.T) {
		token, err := MintToken(secret, "bob", time.Hour)
		if err != nil {
			t.Fatalf("Failed to mint token: %v", err)
		}
		req, _ := http.NewRequest("GET", srv.URL+"/plans/latest", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected 404 for user without a plan, got %d", resp.StatusCode)
		}
	})
}

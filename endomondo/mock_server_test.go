package endomondo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newMockServer creates an httptest.Server configured to respond
// dynamically to the Endomondo API routes with literal mock JSON
// payloads.
func newMockServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	// 1. Session - Login (POST) and CSRF token acquisition (GET)
	mux.HandleFunc("/rest/session", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			http.SetCookie(w, &http.Cookie{Name: "CSRF_TOKEN", Value: "test-csrf-token", Path: "/"})
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{}`))
		case http.MethodPost:
			var creds struct {
				Email    string `json:"email"`
				Password string `json:"password"`
				Remember bool   `json:"remember"`
			}
			if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
				t.Errorf("failed to decode login body: %v", err)
			}
			if !creds.Remember {
				t.Error("expected remember=true in login body")
			}

			w.Header().Set("Content-Type", "application/json")
			switch {
			case creds.Email == "locked@example.com":
				w.Header().Set("Retry-After", "30")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error": "Too Many Requests"}`))
			case creds.Password != "secret":
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error": "Invalid credentials"}`))
			default:
				http.SetCookie(w, &http.Cookie{Name: "USER_TOKEN", Value: "mock-session", Path: "/"})
				_, _ = w.Write([]byte(`{
					"id": 123456,
					"email": "athlete@example.com",
					"name": "Jane Doe",
					"weight_kg": 62.5
				}`))
			}
		default:
			t.Errorf("unexpected method %s for /rest/session", r.Method)
		}
	})

	// 2. User - Profile
	mux.HandleFunc("/rest/v1/users/123456", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 123456,
			"email": "athlete@example.com",
			"name": "Jane Doe"
		}`))
	})

	// 3. Workout - Get (GET), Edit (PUT), Delete (DELETE)
	mux.HandleFunc("/rest/v1/users/123456/workouts/789", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{
				"id": 789,
				"sport": 0,
				"duration": 3600.0,
				"local_start_time": "2026-03-01T10:30:00+02:00",
				"show_map": 0,
				"show_workout": 1,
				"hashtags": ["morningrun"],
				"distance": 10.5,
				"calories": 650,
				"title": "Morning Run",
				"message": "felt great",
				"heart_rate_avg": 150,
				"heart_rate_max": 182,
				"ascent": 120.5,
				"descent": 118,
				"cadence": 85,
				"points": {
					"points": [
						{
							"time": "2026-03-01T08:30:00Z",
							"latitude": 55.6761,
							"longitude": 12.5683,
							"altitude": 12.0,
							"distance": 0,
							"speed": 0,
							"duration": 0,
							"sensor_data": {"heart_rate": 120, "cadence": 80}
						},
						{
							"time": "2026-03-01T08:30:05Z",
							"latitude": 55.6762,
							"longitude": 12.5684,
							"instruction": 2
						}
					]
				}
			}`))
		case http.MethodPut:
			requireCSRF(t, r)
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected Content-Type application/json, got %q", ct)
			}
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("failed to decode edit body: %v", err)
			}
			if body["update_calories"] != true {
				t.Error("expected update_calories=true in edit body")
			}
			_, _ = w.Write([]byte(`{"id": 789}`))
		case http.MethodDelete:
			requireCSRF(t, r)
			_, _ = w.Write([]byte(`{}`))
		default:
			t.Errorf("unexpected method %s for workout 789", r.Method)
		}
	})

	// 4. Workout - Hashtags
	mux.HandleFunc("/rest/v1/users/123456/workouts/789/hashtags/morningrun", func(w http.ResponseWriter, r *http.Request) {
		requireCSRF(t, r)

		if r.Method != http.MethodPost && r.Method != http.MethodDelete {
			t.Errorf("unexpected method %s for hashtag endpoint", r.Method)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	// 5. Workout - History (paginated, chained by the page parameter)
	mux.HandleFunc("/rest/v1/users/123456/workouts/history", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}

		w.Header().Set("Content-Type", "application/json")

		switch page := r.URL.Query().Get("page"); page {
		case "":
			_, _ = w.Write([]byte(`{
				"data": [
					{"id": 1, "sport": 0, "duration": 1800, "local_start_time": "2026-03-20T09:00:00Z", "show_map": 0, "show_workout": 0, "hashtags": []}
				],
				"paging": {
					"total": 3,
					"next": "/rest/v1/users/123456/workouts/history?page=2"
				}
			}`))
		case "2":
			_, _ = w.Write([]byte(`{
				"data": [
					{"id": 2, "sport": 2, "duration": 5400, "local_start_time": "2026-03-18T17:15:00+01:00", "show_map": 1, "show_workout": 1, "hashtags": ["commute"]}
				],
				"paging": {
					"total": 3,
					"next": "/rest/v1/users/123456/workouts/history?page=3"
				}
			}`))
		case "3":
			_, _ = w.Write([]byte(`{
				"data": [
					{"id": 3, "sport": 18, "duration": 2700, "local_start_time": "2026-03-15T07:45:00Z", "show_map": 2, "show_workout": 2, "hashtags": []}
				],
				"paging": {
					"total": 3,
					"next": null
				}
			}`))
		default:
			t.Fatalf("unexpected page requested: %s", page)
		}
	})

	// 6. Rate Limit Explicit Mock (always 429)
	mux.HandleFunc("/429-generator", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "Too Many Requests"}`))
	})

	// 7. Auth Error Mock
	mux.HandleFunc("/403-generator", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": "Forbidden"}`))
	})

	// 8. Server Error Mock
	mux.HandleFunc("/500-generator", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "Internal Server Error"}`))
	})

	// 9. Invalid JSON Mock
	mux.HandleFunc("/bad-json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	})

	return httptest.NewServer(mux)
}

// requireCSRF asserts that a state-changing request carries the
// anti-forgery token acquired from the session endpoint.
func requireCSRF(t *testing.T, r *http.Request) {
	t.Helper()

	if token := r.Header.Get("X-CSRF-TOKEN"); token != "test-csrf-token" {
		t.Errorf("expected X-CSRF-TOKEN %q, got %q", "test-csrf-token", token)
	}
}

// newMockClient builds a client connected directly to the mock server.
func newMockClient(t *testing.T, ts *httptest.Server, opts ...Option) *Client {
	t.Helper()

	defaultOpts := []Option{WithBaseURL(ts.URL)}
	defaultOpts = append(defaultOpts, opts...)
	return NewClient(defaultOpts...)
}

// loginMockClient builds a client and authenticates it against the mock
// server's canned user.
func loginMockClient(t *testing.T, ts *httptest.Server, opts ...Option) *Client {
	t.Helper()

	client := newMockClient(t, ts, opts...)
	if _, err := client.Login(context.Background(), "athlete@example.com", "secret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return client
}

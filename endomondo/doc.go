// Package endomondo provides a Go client for the private Endomondo REST API.
//
// The client owns the authenticated session lifecycle (login, CSRF token,
// logout), classifies API failures into typed errors, and maps the
// loosely-typed workout JSON into a strongly-typed domain model with
// tolerant optional-field handling.
//
// # Quick Start
//
//	client := endomondo.NewClient()
//	profile, err := client.Login(ctx, "athlete@example.com", "secret")
//
//	page, err := client.Workout.History(ctx, &endomondo.HistoryOptions{Limit: 25})
//	for {
//	    for _, w := range page.Workouts { /* process workout */ }
//	    page, err = page.NextPage(ctx)
//	    if errors.Is(err, endomondo.ErrNoNextPage) {
//	        break
//	    }
//	}
//
// # Rate limits
//
// The API throttles aggressively. The client never retries or sleeps on
// its own: a 429 surfaces as *RateLimitError and the retry policy stays
// with the caller (see Backoff). An optional local token bucket can be
// enabled with WithRateLimiting(true).
//
// # Schema variants
//
// The API shipped two near-identical generations of the workout schema.
// One mapper serves both, parameterized by a Schema descriptor; the
// default is SchemaModern and WithSchema selects the legacy variant.
package endomondo

package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/sportera/endomondo-go/endomondo"
)

// This example demonstrates a full export session: authenticate with
// account credentials, walk the complete workout history page by page,
// and back off politely whenever the API signals throttling.
func main() {
	email := os.Getenv("ENDOMONDO_EMAIL")
	password := os.Getenv("ENDOMONDO_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("ENDOMONDO_EMAIL and ENDOMONDO_PASSWORD environment variables are required")
	}

	client := endomondo.NewClient()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	profile, err := client.Login(ctx, email, password)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	log.Printf("Logged in as %s (user %s)", profile.Name, profile.ID)

	var exported, total int
	page, err := fetchHistory(client, nil)
	for {
		if err != nil {
			log.Fatalf("Failed to fetch history page: %v", err)
		}
		total = page.Total

		for _, w := range page.Workouts {
			exported++
			title := "(untitled)"
			if w.Title != nil {
				title = *w.Title
			}
			log.Printf("Workout %s: sport=%d start=%s duration=%.0fs points=%d title=%s",
				w.ID, w.Sport, w.Start.Format(time.RFC3339), w.Duration, len(w.Points), title)

			// TODO: persist w.Source to the export store instead of logging.
		}

		page, err = nextPage(client, page)
		if errors.Is(err, endomondo.ErrNoNextPage) {
			break
		}
	}

	log.Printf("Export complete: %d of %d workouts", exported, total)
}

// fetchHistory pulls one history page, retrying with jittered backoff
// when the API reports it is throttling us.
func fetchHistory(client *endomondo.Client, opts *endomondo.HistoryOptions) (*endomondo.HistoryPage, error) {
	const maxRetries = 5

	for attempt := 0; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		page, err := client.Workout.History(ctx, opts)
		cancel()

		var rlErr *endomondo.RateLimitError
		if !errors.As(err, &rlErr) || attempt == maxRetries {
			return page, err
		}

		wait := endomondo.Backoff(attempt, time.Second, 2*time.Minute)
		if rlErr.RetryAfter > 0 {
			wait = time.Duration(rlErr.RetryAfter) * time.Second
		}
		log.Printf("Rate limited, waiting %s before retry %d/%d", wait, attempt+1, maxRetries)
		time.Sleep(wait)
	}
}

// nextPage follows a page's next link with the same retry policy as
// fetchHistory.
func nextPage(client *endomondo.Client, page *endomondo.HistoryPage) (*endomondo.HistoryPage, error) {
	const maxRetries = 5

	for attempt := 0; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		next, err := page.NextPage(ctx)
		cancel()

		var rlErr *endomondo.RateLimitError
		if !errors.As(err, &rlErr) || attempt == maxRetries {
			return next, err
		}

		wait := endomondo.Backoff(attempt, time.Second, 2*time.Minute)
		if rlErr.RetryAfter > 0 {
			wait = time.Duration(rlErr.RetryAfter) * time.Second
		}
		log.Printf("Rate limited, waiting %s before retry %d/%d", wait, attempt+1, maxRetries)
		time.Sleep(wait)
	}
}

package endomondo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
)

// HistoryOptions filters a workout history query. Zero-valued fields are
// omitted; values set here take precedence over the schema variant's
// defaults.
type HistoryOptions struct {
	// Expand lists the sub-resources to inline on every item.
	Expand string `url:"expand,omitempty"`

	// Limit caps the number of items per page.
	Limit int `url:"limit,omitempty"`

	// After restricts the page to workouts starting after the instant.
	After *time.Time `url:"after,omitempty"`

	// Before restricts the page to workouts starting before the instant.
	Before *time.Time `url:"before,omitempty"`
}

// historyEnvelope is the raw paging wrapper around one history page.
type historyEnvelope struct {
	Data   []json.RawMessage `json:"data"`
	Paging struct {
		Total int     `json:"total"`
		Next  *string `json:"next"`
	} `json:"paging"`
}

// HistoryPage is one page of the workout history plus its paging state.
type HistoryPage struct {
	// Workouts holds the page's items in server-returned order.
	Workouts []Workout

	// Total is the server-reported number of matching workouts across all
	// pages.
	Total int

	// Next is the URL of the following page, empty on the last page.
	Next string

	client *Client
}

// History fetches one page of the authenticated user's workout history.
// The schema variant seeds the expand and limit filters; caller-supplied
// options override them.
func (s *WorkoutService) History(ctx context.Context, opts *HistoryOptions) (*HistoryPage, error) {
	q := url.Values{}
	if s.client.schema.defaultExpand != "" {
		q.Set("expand", s.client.schema.defaultExpand)
	}
	if s.client.schema.defaultLimit > 0 {
		q.Set("limit", strconv.Itoa(s.client.schema.defaultLimit))
	}

	overrides, err := query.Values(opts)
	if err != nil {
		return nil, err
	}
	for k, vs := range overrides {
		q[k] = vs
	}

	raw, err := s.client.get(ctx, "workouts/history", q)
	if err != nil {
		return nil, err
	}

	return s.parseHistoryPage(raw)
}

func (s *WorkoutService) parseHistoryPage(raw json.RawMessage) (*HistoryPage, error) {
	var env historyEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &MalformedResponseError{Field: "paging", Err: err}
	}

	page := &HistoryPage{
		Workouts: make([]Workout, 0, len(env.Data)),
		Total:    env.Paging.Total,
		client:   s.client,
	}
	if env.Paging.Next != nil {
		page.Next = *env.Paging.Next
	}

	for _, item := range env.Data {
		w, err := parseWorkout(item, s.client.schema)
		if err != nil {
			return nil, err
		}
		page.Workouts = append(page.Workouts, *w)
	}

	return page, nil
}

// NextPage follows the page's next link. It returns ErrNoNextPage once
// the history is exhausted.
func (p *HistoryPage) NextPage(ctx context.Context) (*HistoryPage, error) {
	if p.Next == "" {
		return nil, ErrNoNextPage
	}

	next := p.Next
	if strings.HasPrefix(next, "/") {
		next = p.client.baseURL + next
	}

	raw, err := p.client.sendURL(ctx, http.MethodGet, next, nil, false)
	if err != nil {
		return nil, err
	}

	return p.client.Workout.parseHistoryPage(raw)
}

// From fetches the workouts starting after the given instant.
func (s *WorkoutService) From(ctx context.Context, from time.Time, limit int) (*HistoryPage, error) {
	return s.History(ctx, &HistoryOptions{After: &from, Limit: limit})
}

// Until fetches the workouts starting before the given instant.
func (s *WorkoutService) Until(ctx context.Context, until time.Time, limit int) (*HistoryPage, error) {
	return s.History(ctx, &HistoryOptions{Before: &until, Limit: limit})
}

// FromTo fetches the workouts inside the given window.
func (s *WorkoutService) FromTo(ctx context.Context, from, to time.Time) (*HistoryPage, error) {
	return s.History(ctx, &HistoryOptions{After: &from, Before: &to})
}

// Between looks for a single workout inside the window with one probe: it
// requests the most recent workout before to and returns it only when it
// starts strictly after from, otherwise nil.
//
// The search is approximate by design. When the most recent workout
// before to starts before from, an earlier workout inside the window is
// never inspected and the call reports no match.
func (s *WorkoutService) Between(ctx context.Context, from, to time.Time) (*Workout, error) {
	page, err := s.Until(ctx, to, 1)
	if err != nil {
		return nil, err
	}
	if len(page.Workouts) == 0 {
		return nil, nil
	}

	w := page.Workouts[0]
	if w.Start.After(from) {
		return &w, nil
	}
	return nil, nil
}

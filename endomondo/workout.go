package endomondo

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/google/go-querystring/query"
)

// Privacy is an Endomondo visibility code for a workout or its route map.
type Privacy int

const (
	PrivacyEveryone Privacy = 0
	PrivacyFriends  Privacy = 1
	PrivacyPrivate  Privacy = 2
)

// Sport codes used by the API.
const (
	SportRunning            = 0
	SportCyclingTransport   = 1
	SportCyclingSport       = 2
	SportMountainBiking     = 3
	SportSkating            = 4
	SportRollerSkiing       = 5
	SportSkiingCrossCountry = 6
	SportSkiingDownhill     = 7
	SportSnowboarding       = 8
	SportKayaking           = 9
	SportKiteSurfing        = 10
	SportRowing             = 11
	SportSailing            = 12
	SportWindsurfing        = 13
	SportFitnessWalking     = 14
	SportGolfing            = 15
	SportHiking             = 16
	SportOrienteering       = 17
	SportWalking            = 18
	SportRiding             = 19
	SportSwimming           = 20
	SportSpinning           = 21
	SportOther              = 22
	SportAerobics           = 23
	SportBadminton          = 24
	SportBaseball           = 25
	SportBasketball         = 26
	SportBoxing             = 27
	SportClimbingStairs     = 28
	SportCricket            = 29
	SportEllipticalTraining = 30
	SportDancing            = 31
	SportFencing            = 32
	SportFootballAmerican   = 33
	SportFootballRugby      = 34
	SportFootballSoccer     = 35
	SportHandball           = 36
	SportHockey             = 37
	SportPilates            = 38
	SportPolo               = 39
	SportScubaDiving        = 40
	SportSquash             = 41
	SportTableTennis        = 42
	SportTennis             = 43
	SportVolleyballBeach    = 44
	SportVolleyballIndoor   = 45
	SportWeightTraining     = 46
	SportYoga               = 47
	SportMartialArts        = 48
	SportGymnastics         = 49
	SportStepCounter        = 50
)

// Workout is one recorded activity session. Required attributes are plain
// values; optional attributes are pointers and nil means unset rather
// than zero.
type Workout struct {
	// ID is the externally assigned workout identifier.
	ID string

	// Sport is the activity's sport code.
	Sport int

	// Duration is the recorded length in seconds.
	Duration float64

	// Start is the timezone-aware start instant. Every point time, when
	// present, is expressed in the same timezone.
	Start time.Time

	// MapPrivacy and WorkoutPrivacy are always set on parsed workouts;
	// a caller-constructed Workout may leave them nil to keep them out
	// of the edit payload.
	MapPrivacy     *Privacy
	WorkoutPrivacy *Privacy

	// Hashtags is the ordered hashtag list, possibly empty.
	Hashtags []string

	Distance     *float64
	Calories     *float64
	Title        *string
	Message      *string
	Notes        *string
	HeartRateAvg *int
	HeartRateMax *int
	Ascent       *float64
	Descent      *float64
	Cadence      *int

	// Points is the chronological GPS/sensor trace. nil means the trace
	// was not part of the payload; an empty non-nil slice means the trace
	// was requested and holds zero samples.
	Points []Point

	// Source retains the originating JSON verbatim for integrations that
	// round-trip unmodeled fields.
	Source json.RawMessage
}

// Point is one GPS/sensor sample within a workout's trace. Every field is
// independently optional; a Point has no identity beyond its position in
// the owning workout's sequence.
type Point struct {
	Time      *time.Time
	Latitude  *float64
	Longitude *float64
	Altitude  *float64

	// Distance is the cumulative distance at this sample.
	Distance *float64
	Speed    *float64

	// Duration is the elapsed time in seconds at this sample.
	Duration *float64

	HeartRate *int
	Cadence   *int

	// Instruction is a routing/voice-cue code.
	Instruction *int
}

// WorkoutService handles communication with the workout related endpoints.
type WorkoutService struct {
	client *Client
}

// GetOptions specifies optional parameters to Get.
type GetOptions struct {
	// Expand lists the sub-resources to inline, e.g. "workout,points".
	Expand string `url:"expand,omitempty"`
}

// Get fetches a single workout by its ID.
func (s *WorkoutService) Get(ctx context.Context, id string, opts *GetOptions) (*Workout, error) {
	q, err := query.Values(opts)
	if err != nil {
		return nil, err
	}

	raw, err := s.client.get(ctx, "workouts/"+url.PathEscape(id), q)
	if err != nil {
		return nil, err
	}

	return parseWorkout(raw, s.client.schema)
}

// Delete removes a workout.
func (s *WorkoutService) Delete(ctx context.Context, id string) error {
	_, err := s.client.delete(ctx, "workouts/"+url.PathEscape(id))
	return err
}

// Edit updates a workout in place. Only the optional attributes the
// workout holds are sent, and the server is always instructed to
// recompute calories.
func (s *WorkoutService) Edit(ctx context.Context, w *Workout) error {
	_, err := s.client.put(ctx, "workouts/"+url.PathEscape(w.ID), updatePayload(w))
	return err
}

// AddHashtag attaches a hashtag to a workout.
func (s *WorkoutService) AddHashtag(ctx context.Context, workoutID, name string) error {
	_, err := s.client.post(ctx, "workouts/"+url.PathEscape(workoutID)+"/hashtags/"+url.PathEscape(name), nil)
	return err
}

// RemoveHashtag detaches a hashtag from a workout.
func (s *WorkoutService) RemoveHashtag(ctx context.Context, workoutID, name string) error {
	_, err := s.client.delete(ctx, "workouts/"+url.PathEscape(workoutID)+"/hashtags/"+url.PathEscape(name))
	return err
}

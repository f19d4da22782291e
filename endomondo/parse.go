package endomondo

import (
	"encoding/json"
	"fmt"
	"time"
)

// updateTimeFormat is the fixed fractional-second UTC layout the API
// expects on writes.
const updateTimeFormat = "2006-01-02T15:04:05.000000Z"

// apiTimeLayouts are tried in order when reading a workout or point
// timestamp. Layouts without an offset parse as UTC.
var apiTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
}

// rawWorkout mirrors the wire schema of a workout. Pointer fields make
// absence observable: a nil pointer is an absent key, never a zero value.
type rawWorkout struct {
	ID             json.RawMessage    `json:"id"`
	Sport          *int               `json:"sport"`
	Duration       *float64           `json:"duration"`
	StartTime      *string            `json:"start_time"`
	LocalStartTime *string            `json:"local_start_time"`
	ShowMap        *Privacy           `json:"show_map"`
	ShowWorkout    *Privacy           `json:"show_workout"`
	Hashtags       *[]string          `json:"hashtags"`
	Distance       *float64           `json:"distance"`
	Calories       *float64           `json:"calories"`
	Title          *string            `json:"title"`
	Message        *string            `json:"message"`
	Notes          *string            `json:"notes"`
	HeartRateAvg   *int               `json:"heart_rate_avg"`
	HeartRateMax   *int               `json:"heart_rate_max"`
	Ascent         *float64           `json:"ascent"`
	Descent        *float64           `json:"descent"`
	Cadence        *int               `json:"cadence"`
	Points         *rawPointsEnvelope `json:"points"`
}

// rawPointsEnvelope is the wrapper object the API nests the trace in. The
// inner pointer distinguishes an envelope without a trace from a trace
// with zero samples.
type rawPointsEnvelope struct {
	Points *[]rawPoint `json:"points"`
}

type rawPoint struct {
	Time        *string        `json:"time"`
	Latitude    *float64       `json:"latitude"`
	Longitude   *float64       `json:"longitude"`
	Altitude    *float64       `json:"altitude"`
	Distance    *float64       `json:"distance"`
	Speed       *float64       `json:"speed"`
	Duration    *float64       `json:"duration"`
	Instruction *int           `json:"instruction"`
	SensorData  *rawSensorData `json:"sensor_data"`
}

type rawSensorData struct {
	HeartRate *int `json:"heart_rate"`
	Cadence   *int `json:"cadence"`
}

// parseWorkout maps one raw workout object into the domain model.
// Optional fields are read only when present; a missing or malformed
// required field fails with *MalformedResponseError and no partial
// workout is returned. The raw JSON is retained on Workout.Source.
func parseWorkout(data json.RawMessage, schema Schema) (*Workout, error) {
	var raw rawWorkout
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &MalformedResponseError{Field: "workout", Err: err}
	}

	id, ok := idString(raw.ID)
	if !ok {
		return nil, &MalformedResponseError{Field: "id"}
	}
	if raw.Sport == nil {
		return nil, &MalformedResponseError{Field: "sport"}
	}
	if raw.Duration == nil {
		return nil, &MalformedResponseError{Field: "duration"}
	}
	startRaw := schema.startTime(&raw)
	if startRaw == nil {
		return nil, &MalformedResponseError{Field: schema.startTimeField}
	}
	start, err := parseAPITime(*startRaw)
	if err != nil {
		return nil, &MalformedResponseError{Field: schema.startTimeField, Err: err}
	}
	if raw.ShowMap == nil {
		return nil, &MalformedResponseError{Field: "show_map"}
	}
	if raw.ShowWorkout == nil {
		return nil, &MalformedResponseError{Field: "show_workout"}
	}
	if raw.Hashtags == nil {
		return nil, &MalformedResponseError{Field: "hashtags"}
	}

	w := &Workout{
		ID:             id,
		Sport:          *raw.Sport,
		Duration:       *raw.Duration,
		Start:          start,
		MapPrivacy:     raw.ShowMap,
		WorkoutPrivacy: raw.ShowWorkout,
		Hashtags:       *raw.Hashtags,
		Distance:       raw.Distance,
		Calories:       raw.Calories,
		Title:          raw.Title,
		Message:        raw.Message,
		Notes:          raw.Notes,
		HeartRateAvg:   raw.HeartRateAvg,
		HeartRateMax:   raw.HeartRateMax,
		Ascent:         raw.Ascent,
		Descent:        raw.Descent,
		Source:         data,
	}
	if schema.parseCadence {
		w.Cadence = raw.Cadence
	}

	if raw.Points != nil && raw.Points.Points != nil {
		loc := start.Location()
		points := make([]Point, 0, len(*raw.Points.Points))
		for _, rp := range *raw.Points.Points {
			points = append(points, parsePoint(rp, loc))
		}
		w.Points = points
	}

	return w, nil
}

// parsePoint maps one raw trace sample. Every field is optional; the
// sample's time, when present, is coerced into the owning workout's
// timezone so all times within one workout compare directly.
func parsePoint(raw rawPoint, loc *time.Location) Point {
	var p Point

	if raw.Time != nil {
		if t, err := parseAPITime(*raw.Time); err == nil {
			t = t.In(loc)
			p.Time = &t
		}
	}
	p.Latitude = raw.Latitude
	p.Longitude = raw.Longitude
	p.Altitude = raw.Altitude
	p.Distance = raw.Distance
	p.Speed = raw.Speed
	p.Duration = raw.Duration
	p.Instruction = raw.Instruction
	if raw.SensorData != nil {
		p.HeartRate = raw.SensorData.HeartRate
		p.Cadence = raw.SensorData.Cadence
	}

	return p
}

// workoutUpdate is the wire form of an edit. Pointer fields drop out of
// the payload when the workout does not hold the attribute.
type workoutUpdate struct {
	Duration       float64  `json:"duration"`
	Distance       float64  `json:"distance"`
	Sport          int      `json:"sport"`
	StartTime      string   `json:"start_time"`
	UpdateCalories bool     `json:"update_calories"`
	HeartRateAvg   *int     `json:"heart_rate_avg,omitempty"`
	HeartRateMax   *int     `json:"heart_rate_max,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
	Title          *string  `json:"title,omitempty"`
	ShowWorkout    *Privacy `json:"show_workout,omitempty"`
	ShowMap        *Privacy `json:"show_map,omitempty"`
	Ascent         *float64 `json:"ascent,omitempty"`
	Descent        *float64 `json:"descent,omitempty"`
}

// updatePayload builds the PUT body for an edit: the required attributes,
// the optional ones only when held, the start instant normalized to UTC
// in the API's fixed fractional-second layout, and a flag telling the
// server to recompute calories.
func updatePayload(w *Workout) workoutUpdate {
	u := workoutUpdate{
		Duration:       w.Duration,
		Sport:          w.Sport,
		StartTime:      w.Start.UTC().Format(updateTimeFormat),
		UpdateCalories: true,
		HeartRateAvg:   w.HeartRateAvg,
		HeartRateMax:   w.HeartRateMax,
		Notes:          w.Notes,
		Title:          w.Title,
		ShowWorkout:    w.WorkoutPrivacy,
		ShowMap:        w.MapPrivacy,
		Ascent:         w.Ascent,
		Descent:        w.Descent,
	}
	if w.Distance != nil {
		u.Distance = *w.Distance
	}
	return u
}

// parseAPITime reads a timestamp in any of the layouts the API emits,
// keeping the source offset as the time's location.
func parseAPITime(s string) (time.Time, error) {
	for _, layout := range apiTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// idString reads an identifier the API serializes either as a JSON number
// or a JSON string.
func idString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

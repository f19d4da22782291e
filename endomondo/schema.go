package endomondo

// Schema describes one variant of the Endomondo workout JSON schema.
// The API shipped two near-identical generations; the differences are
// limited to field aliases and history defaults, so a single mapper is
// parameterized by this descriptor instead of duplicating the parsing
// logic per variant.
type Schema struct {
	// Name identifies the variant in diagnostics.
	Name string

	// startTimeField is the key carrying the workout start instant.
	startTimeField string

	// parseCadence reports whether the variant carries a workout-level
	// cadence.
	parseCadence bool

	// defaultExpand and defaultLimit seed history queries; caller-supplied
	// filters take precedence.
	defaultExpand string
	defaultLimit  int
}

var (
	// SchemaModern matches the newer API generation and is the default:
	// zone-aware local_start_time, workout-level cadence, points inlined
	// into history pages.
	SchemaModern = Schema{
		Name:           "modern",
		startTimeField: "local_start_time",
		parseCadence:   true,
		defaultExpand:  "workout,points",
		defaultLimit:   1000,
	}

	// SchemaLegacy matches the older generation: UTC start_time, no
	// workout-level cadence, and no history defaults beyond expand.
	SchemaLegacy = Schema{
		Name:           "legacy",
		startTimeField: "start_time",
		defaultExpand:  "workout",
	}
)

// startTime picks the raw start-time value the variant considers
// authoritative.
func (s Schema) startTime(raw *rawWorkout) *string {
	if s.startTimeField == "start_time" {
		return raw.StartTime
	}
	return raw.LocalStartTime
}

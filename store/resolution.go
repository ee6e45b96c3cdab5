package store

// Resolution is one journaled boundary resolution.
type Resolution struct {
	ID         int64
	RequestID  string
	Expression string
	Reference  string // RFC3339 as received
	Zone       string
	Language   string // es/ca
	Outcome    string // resolved/undefined/unresolved
	Provenance string // pattern/parser/corrected/fallback, empty unless resolved
	ISO        string // empty unless resolved
	CreatedTs  int64
}

// FindResolution specifies the conditions for finding resolutions.
// Results are ordered newest first.
type FindResolution struct {
	ID       *int64
	Outcome  *string
	Language *string
	Limit    *int
	Offset   *int
}

// DeleteResolution specifies the conditions for deleting resolutions.
type DeleteResolution struct {
	ID              *int64
	CreatedTsBefore *int64
}

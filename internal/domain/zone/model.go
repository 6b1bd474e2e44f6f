package zone

import "time"

// Zone is a named work area sessions are logged against.
type Zone struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// EnsureOutcome reports what Ensure had to do to produce a usable zone.
type EnsureOutcome string

const (
	OutcomeExisting    EnsureOutcome = "existing"
	OutcomeCreated     EnsureOutcome = "created"
	OutcomeReactivated EnsureOutcome = "reactivated"
)

// DefaultSeed is the zone list a fresh store starts with.
var DefaultSeed = []string{"Allen", "Plano", "McKinney"}

package domain

import "time"

// ReactionType is the two-state reaction a user can hold on a movie.
type ReactionType int

const (
	ReactionNone ReactionType = 0
	ReactionLike ReactionType = 1
)

// Valid reports whether the value is one of the known reaction states.
func (t ReactionType) Valid() bool {
	return t == ReactionNone || t == ReactionLike
}

func (t ReactionType) String() string {
	switch t {
	case ReactionNone:
		return "none"
	case ReactionLike:
		return "like"
	default:
		return "unknown"
	}
}

// Reaction records a single user's reaction to an externally-identified
// movie. A row exists if and only if the logical state is LIKE; reverting
// to NONE removes the row.
type Reaction struct {
	UserID     string
	ExternalID string
	Type       ReactionType
	Date       time.Time
}

// ReactionSummary is the outcome of a reaction transition, echoed back to
// the caller regardless of whether any state changed.
type ReactionSummary struct {
	ExternalID string       `json:"id_external"`
	Type       ReactionType `json:"type"`
	Date       time.Time    `json:"date"`
}

package domain

import "time"

// GenrePreference is one accumulated genre-affinity entry. Entries are
// never removed; likes only ever add to them.
type GenrePreference struct {
	GenreID    int     `json:"genre_id"`
	GenreName  string  `json:"genre_name"`
	TotalLikes int     `json:"total_likes"`
	Percentage float64 `json:"percentage"`
}

// CommunityGenrePreference is the community-wide counterpart, one record
// per genre across all users.
type CommunityGenrePreference struct {
	GenreID     int       `json:"genre_id"`
	GenreName   string    `json:"genre_name"`
	TotalLikes  int       `json:"total_likes"`
	Percentage  float64   `json:"percentage"`
	LastUpdated time.Time `json:"last_updated"`
}

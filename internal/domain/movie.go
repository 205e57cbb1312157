package domain

import (
	"strconv"
	"time"
)

// MovieAggregate is this service's own counter record for a movie,
// independent of the provider's popularity metric. Created lazily on the
// first like of an unseen movie and never deleted.
type MovieAggregate struct {
	ExternalID       string
	Title            string
	DateAdded        time.Time
	ReactionsCounter int
}

// Genre pairs a provider genre id with its display name.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Movie is a candidate record as returned by the provider's list
// endpoints, plus the fields this core attaches before a list leaves it.
// Provider fields are carried verbatim; enrichment copies the struct and
// never mutates the source slice.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
	Overview         string  `json:"overview,omitempty"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
	Popularity       float64 `json:"popularity"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	PosterPath       string  `json:"poster_path,omitempty"`
	BackdropPath     string  `json:"backdrop_path,omitempty"`
	VoteAverage      float64 `json:"vote_average,omitempty"`
	VoteCount        int     `json:"vote_count,omitempty"`

	Weight           float64      `json:"weight,omitempty"`
	ReactionsCounter int          `json:"reactions_counter"`
	UserReaction     ReactionType `json:"userReaction"`
}

// ExternalID renders the provider id in the form the stores key on.
func (m Movie) ExternalID() string {
	return strconv.Itoa(m.ID)
}

// ReleaseTime parses the provider's YYYY-MM-DD release date. The second
// return value is false when the date is absent or malformed.
func (m Movie) ReleaseTime() (time.Time, bool) {
	if m.ReleaseDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", m.ReleaseDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// MovieDetails is the provider's full record for a single movie.
type MovieDetails struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
	Overview         string  `json:"overview,omitempty"`
	Genres           []Genre `json:"genres"`
	Popularity       float64 `json:"popularity"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	PosterPath       string  `json:"poster_path,omitempty"`
	BackdropPath     string  `json:"backdrop_path,omitempty"`
	Runtime          int     `json:"runtime,omitempty"`
	Tagline          string  `json:"tagline,omitempty"`
	VoteAverage      float64 `json:"vote_average,omitempty"`
	VoteCount        int     `json:"vote_count,omitempty"`
}

// CastMember is a single cast credit.
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character,omitempty"`
	ProfilePath string `json:"profile_path,omitempty"`
	Order       int    `json:"order"`
}

// CrewMember is a single crew credit.
type CrewMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department,omitempty"`
	ProfilePath string `json:"profile_path,omitempty"`
}

// Credits groups a movie's cast and crew.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Image is a provider backdrop or poster reference.
type Image struct {
	FilePath    string  `json:"file_path"`
	Width       int     `json:"width,omitempty"`
	Height      int     `json:"height,omitempty"`
	AspectRatio float64 `json:"aspect_ratio,omitempty"`
}

// ImageSet groups a movie's provider imagery.
type ImageSet struct {
	Backdrops []Image `json:"backdrops"`
	Posters   []Image `json:"posters"`
}

// Video is a provider video reference; the client surfaces only official
// YouTube trailers.
type Video struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// MovieDetailsView is the assembled detail response: provider details plus
// credits, imagery, trailer, list-membership flags, and the requesting
// user's reaction state.
type MovieDetailsView struct {
	MovieDetails

	Credits   Credits      `json:"credits"`
	Images    ImageSet     `json:"images"`
	Trailer   *Video       `json:"trailer"`
	Director  *CrewMember  `json:"director,omitempty"`
	Producer  *CrewMember  `json:"producer,omitempty"`
	MainCast  []CastMember `json:"mainCast"`
	Backdrops []Image      `json:"backdrops"`

	Upcoming   bool `json:"upcoming"`
	NowPlaying bool `json:"nowPlaying"`

	ReactionsCounter int          `json:"reactions_counter"`
	UserReaction     ReactionType `json:"userReaction"`
}

// LikedMovie is a "my picks" entry: a liked reaction joined with provider
// details, falling back to the local aggregate when the provider is down.
type LikedMovie struct {
	ExternalID       string       `json:"id"`
	Title            string       `json:"title"`
	LikedDate        time.Time    `json:"likedDate"`
	UserReaction     ReactionType `json:"userReaction"`
	ReactionsCounter int          `json:"reactions_counter"`
	Genres           []Genre      `json:"genres"`
	PosterPath       string       `json:"poster_path,omitempty"`
	ReleaseDate      string       `json:"release_date,omitempty"`
}

// ReactedMovie is a community-visible aggregate joined with provider
// details where available.
type ReactedMovie struct {
	ExternalID       string    `json:"id"`
	Title            string    `json:"title"`
	ReactionsCounter int       `json:"reactions_counter"`
	DateAdded        time.Time `json:"date_added"`
	PosterPath       string    `json:"poster_path,omitempty"`
	ReleaseDate      string    `json:"release_date,omitempty"`
	Genres           []Genre   `json:"genres,omitempty"`
}

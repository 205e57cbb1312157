package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/goccy/go-json"
)

// movieEntry holds the canned payloads for a single movie id.
type movieEntry struct {
	Details json.RawMessage `json:"details"`
	Credits json.RawMessage `json:"credits"`
	Images  json.RawMessage `json:"images"`
	Videos  json.RawMessage `json:"videos"`
}

type mockData struct {
	Upcoming   json.RawMessage       `json:"upcoming"`
	NowPlaying json.RawMessage       `json:"now_playing"`
	TopRated   json.RawMessage       `json:"top_rated"`
	Search     json.RawMessage       `json:"search"`
	Genres     json.RawMessage       `json:"genres"`
	Movies     map[string]movieEntry `json:"movies"`
}

func main() {
	var (
		port = flag.String("port", "9098", "port to listen on")
		data = flag.String("data", "mock-tmdb.json", "path to mock data file")
	)
	flag.Parse()

	file, err := os.ReadFile(*data)
	if err != nil {
		log.Fatalf("read mock data: %v", err)
	}

	var payload mockData
	if err := json.Unmarshal(file, &payload); err != nil {
		log.Fatalf("parse mock data: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /3/movie/upcoming", serveRaw(payload.Upcoming))
	mux.HandleFunc("GET /3/movie/now_playing", serveRaw(payload.NowPlaying))
	mux.HandleFunc("GET /3/movie/top_rated", serveRaw(payload.TopRated))
	mux.HandleFunc("GET /3/search/movie", serveRaw(payload.Search))
	mux.HandleFunc("GET /3/genre/movie/list", serveRaw(payload.Genres))
	mux.HandleFunc("GET /3/movie/{id}", serveMovie(payload.Movies, func(e movieEntry) json.RawMessage { return e.Details }))
	mux.HandleFunc("GET /3/movie/{id}/credits", serveMovie(payload.Movies, func(e movieEntry) json.RawMessage { return e.Credits }))
	mux.HandleFunc("GET /3/movie/{id}/images", serveMovie(payload.Movies, func(e movieEntry) json.RawMessage { return e.Images }))
	mux.HandleFunc("GET /3/movie/{id}/videos", serveMovie(payload.Movies, func(e movieEntry) json.RawMessage { return e.Videos }))

	addr := ":" + *port
	log.Printf("mock tmdb listening on %s (%d movie entries)", addr, len(payload.Movies))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func serveRaw(body json.RawMessage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") == "" {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		if len(body) == 0 {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}
}

func serveMovie(movies map[string]movieEntry, pick func(movieEntry) json.RawMessage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") == "" {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		entry, ok := movies[r.PathValue("id")]
		if !ok {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		serveRaw(pick(entry))(w, r)
	}
}

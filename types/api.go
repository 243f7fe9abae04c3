package types

// Track represents one indexed audio file. Empty tag fields stay empty
// strings in JSON so the UI can tell "untagged" apart from "missing".
// Year 0 means unknown; the client renders it as N/A.
type Track struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	TrackNumber int    `json:"track"`
	Year        int    `json:"year"`
	Duration    int    `json:"duration"` // seconds

	// Internal fields, never serialized.
	Path  string `json:"-"`
	Size  int64  `json:"-"`
	Added int64  `json:"-"` // add-order sequence, drives the whatsnew lookup
}

// SearchTerms echoes the filters actually applied to a search so the
// client can repeat them unchanged on the next cursor request.
type SearchTerms struct {
	Term   string `json:"term,omitempty"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
}

// SearchResponse is the JSON shape of GET /search.
type SearchResponse struct {
	Results     []Track     `json:"results"`
	OtherAlbums []string    `json:"other_albums"`
	HasMore     bool        `json:"has_more"`
	SearchTerms SearchTerms `json:"search_terms"`
}

// TrackDetails is the JSON shape of GET /details.
type TrackDetails struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
}

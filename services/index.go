package services

import (
	"sort"
	"strings"

	"hifi/types"
)

// TermMatcher decides whether a track matches a free-text term. The
// default is a case-insensitive substring match; a fuzzier scorer can
// replace it without changing the pagination contract, because results
// always come back in the index's canonical order.
type TermMatcher interface {
	// Match reports whether the track matches term. Term is already
	// lowercased by the caller.
	Match(t types.Track, term string) bool
}

type substringMatcher struct{}

func (substringMatcher) Match(t types.Track, term string) bool {
	return strings.Contains(strings.ToLower(t.Title), term) ||
		strings.Contains(strings.ToLower(t.Artist), term) ||
		strings.Contains(strings.ToLower(t.Album), term)
}

// Index provides term, artist and album lookups over a Catalog. Every
// result is a subsequence of one canonical total order (artist, album,
// track ordinal, title, id), so any filtered set orders its tracks
// exactly as the full catalog does. Cursor pagination depends on that.
type Index struct {
	catalog *Catalog
	matcher TermMatcher

	order          []string
	pos            map[string]int
	byArtist       map[string][]string
	byAlbum        map[string][]string
	albumsByArtist map[string][]string
}

// BuildIndex derives the search index for a catalog
func BuildIndex(catalog *Catalog) *Index {
	tracks := catalog.Tracks()
	sort.Slice(tracks, func(i, j int) bool {
		return lessTrack(tracks[i], tracks[j])
	})

	idx := &Index{
		catalog:  catalog,
		matcher:  substringMatcher{},
		order:    make([]string, 0, len(tracks)),
		pos:      make(map[string]int, len(tracks)),
		byArtist: make(map[string][]string),
		byAlbum:  make(map[string][]string),
	}

	albums := make(map[string]map[string]bool)
	for i, t := range tracks {
		idx.order = append(idx.order, t.ID)
		idx.pos[t.ID] = i
		idx.byArtist[t.Artist] = append(idx.byArtist[t.Artist], t.ID)
		idx.byAlbum[t.Album] = append(idx.byAlbum[t.Album], t.ID)

		if albums[t.Artist] == nil {
			albums[t.Artist] = make(map[string]bool)
		}
		albums[t.Artist][t.Album] = true
	}

	idx.albumsByArtist = make(map[string][]string, len(albums))
	for artist, set := range albums {
		names := make([]string, 0, len(set))
		for name := range set {
			names = append(names, name)
		}
		sort.Strings(names)
		idx.albumsByArtist[artist] = names
	}

	return idx
}

// lessTrack defines the canonical catalog order.
func lessTrack(a, b types.Track) bool {
	if x, y := strings.ToLower(a.Artist), strings.ToLower(b.Artist); x != y {
		return x < y
	}
	if x, y := strings.ToLower(a.Album), strings.ToLower(b.Album); x != y {
		return x < y
	}
	if a.TrackNumber != b.TrackNumber {
		return a.TrackNumber < b.TrackNumber
	}
	if x, y := strings.ToLower(a.Title), strings.ToLower(b.Title); x != y {
		return x < y
	}
	return a.ID < b.ID
}

// All returns every track id in canonical order. Callers must not
// mutate the returned slice.
func (idx *Index) All() []string {
	return idx.order
}

// ByTerm returns ids whose title, artist or album matches term,
// case-insensitively, in canonical order. An empty term matches the
// whole catalog.
func (idx *Index) ByTerm(term string) []string {
	if term == "" {
		return idx.order
	}
	term = strings.ToLower(term)

	var ids []string
	for _, id := range idx.order {
		t, _ := idx.catalog.Get(id)
		if idx.matcher.Match(t, term) {
			ids = append(ids, id)
		}
	}
	return ids
}

// ByArtist returns ids with an exact artist match, in canonical order
func (idx *Index) ByArtist(name string) []string {
	return idx.byArtist[name]
}

// ByAlbum returns ids with an exact album match, in canonical order
func (idx *Index) ByAlbum(name string) []string {
	return idx.byAlbum[name]
}

// OtherAlbums returns the distinct album names for the same artist as
// the given track, excluding the track's own album, sorted.
func (idx *Index) OtherAlbums(id string) []string {
	t, ok := idx.catalog.Get(id)
	if !ok {
		return []string{}
	}

	others := []string{}
	for _, album := range idx.albumsByArtist[t.Artist] {
		if album != t.Album {
			others = append(others, album)
		}
	}
	return others
}

// Position returns the track's place in the canonical order
func (idx *Index) Position(id string) (int, bool) {
	p, ok := idx.pos[id]
	return p, ok
}

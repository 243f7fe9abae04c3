package services

import (
	"hifi/types"
)

// PageSize is the number of results per search page, matching what the
// client renders before asking for more.
const PageSize = 25

// SearchParams carries the query parameters of one search request.
// After is the id of the last track the client has seen.
type SearchParams struct {
	Term   string
	Artist string
	Album  string
	After  string
}

// QueryEngine answers search requests against one immutable
// catalog/index pair. It holds no per-request state: the cursor is
// resolved from the deterministic ordering on every call, so repeating
// a request gives identical results.
type QueryEngine struct {
	catalog *Catalog
	index   *Index
}

// NewQueryEngine creates a query engine over a catalog and its index
func NewQueryEngine(catalog *Catalog, index *Index) *QueryEngine {
	return &QueryEngine{catalog: catalog, index: index}
}

// Search resolves the filters, applies the cursor and returns one page.
// No filters means browse-all. Filters refine each other: artist and
// album intersect, the term filters the remainder. An `after` id that
// does not appear in the filtered set (stale cursor, track gone after a
// rescan) yields an empty page with has_more=false rather than an error.
func (q *QueryEngine) Search(p SearchParams) types.SearchResponse {
	ids := q.baseSet(p)

	// Album pages carry the artist's other albums. Computed from the
	// base set, not the page, so cursor pages past the first still
	// include them.
	var otherAlbums []string
	if p.Album != "" {
		otherAlbums = []string{}
		if len(ids) > 0 {
			otherAlbums = q.index.OtherAlbums(ids[0])
		}
	}

	terms := types.SearchTerms{
		Term:   p.Term,
		Artist: p.Artist,
		Album:  p.Album,
	}

	if p.After != "" {
		ids = suffixAfter(ids, p.After)
	}

	hasMore := len(ids) > PageSize
	if hasMore {
		ids = ids[:PageSize]
	}

	results := make([]types.Track, 0, len(ids))
	for _, id := range ids {
		t, _ := q.catalog.Get(id)
		results = append(results, t)
	}

	return types.SearchResponse{
		Results:     results,
		OtherAlbums: otherAlbums,
		HasMore:     hasMore,
		SearchTerms: terms,
	}
}

// baseSet resolves the ordered id set matching the filters, cursor
// aside.
func (q *QueryEngine) baseSet(p SearchParams) []string {
	var ids []string
	if p.Artist != "" {
		ids = q.index.ByArtist(p.Artist)
	} else {
		ids = q.index.All()
	}

	if p.Album != "" {
		ids = intersectOrdered(ids, q.index.ByAlbum(p.Album))
	}

	if p.Term != "" {
		ids = q.filterTerm(ids, p.Term)
	}

	return ids
}

func (q *QueryEngine) filterTerm(ids []string, term string) []string {
	matched := q.index.ByTerm(term)
	return intersectOrdered(ids, matched)
}

// intersectOrdered keeps the elements of ids that also appear in other,
// preserving the order of ids. Both inputs are subsequences of the
// canonical order, so the result is too.
func intersectOrdered(ids, other []string) []string {
	if len(ids) == 0 || len(other) == 0 {
		return nil
	}

	set := make(map[string]bool, len(other))
	for _, id := range other {
		set[id] = true
	}

	var out []string
	for _, id := range ids {
		if set[id] {
			out = append(out, id)
		}
	}
	return out
}

// suffixAfter returns the elements strictly following `after`. If
// `after` is not present the cursor is past everything we know about,
// and the result is empty.
func suffixAfter(ids []string, after string) []string {
	for i, id := range ids {
		if id == after {
			return ids[i+1:]
		}
	}
	return nil
}

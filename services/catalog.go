package services

import (
	"crypto/md5"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"hifi/types"
)

// WhatsNewID is the reserved identifier that resolves to the most
// recently added track. It can never collide with a real id (ids are
// hex digests).
const WhatsNewID = "whatsnew"

// audioExtensions lists the file types picked up by a scan.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".m4a":  true,
	".ogg":  true,
}

// TrackID derives the stable catalog id for an audio file path. Ids
// survive rescans because they depend only on the path, and two files
// can never share one.
func TrackID(path string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(path)))
}

// Catalog is the immutable set of indexed tracks for one scan
// generation. It is safe for arbitrary concurrent reads; a rescan
// builds a brand-new Catalog rather than mutating this one.
type Catalog struct {
	tracks map[string]types.Track
}

// Get returns the track for an id
func (c *Catalog) Get(id string) (types.Track, bool) {
	t, ok := c.tracks[id]
	return t, ok
}

// Len returns the number of tracks in the catalog
func (c *Catalog) Len() int {
	return len(c.tracks)
}

// Tracks returns all tracks in unspecified order
func (c *Catalog) Tracks() []types.Track {
	tracks := make([]types.Track, 0, len(c.tracks))
	for _, t := range c.tracks {
		tracks = append(tracks, t)
	}
	return tracks
}

// Newest returns the most recently added track. It is computed from
// the add-order sequence on every call, so it can never serve a value
// that predates the catalog it is asked about.
func (c *Catalog) Newest() (types.Track, bool) {
	var newest types.Track
	found := false
	for _, t := range c.tracks {
		if !found || t.Added > newest.Added {
			newest = t
			found = true
		}
	}
	return newest, found
}

// TotalSize returns the summed file size of all tracks in bytes
func (c *Catalog) TotalSize() int64 {
	var total int64
	for _, t := range c.tracks {
		total += t.Size
	}
	return total
}

// Sequencer assigns the add-order sequence number for a track id.
type Sequencer func(id string) int64

// ScanReporter receives per-file progress during a catalog build.
type ScanReporter interface {
	FileIndexed(path string, scanned, skipped int)
}

// ScanReport summarizes a completed catalog build.
type ScanReport struct {
	Scanned int
	Skipped int
}

// BuildCatalog walks root and builds the catalog for everything under
// it. Individual unreadable or unparseable files are logged and
// skipped; only an unreadable root fails the build. An empty directory
// yields a valid empty catalog.
func BuildCatalog(root string, reader TagReader, seq Sequencer, reporter ScanReporter) (*Catalog, ScanReport, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, ScanReport{}, fmt.Errorf("library root: %w", err)
	}
	if !info.IsDir() {
		return nil, ScanReport{}, fmt.Errorf("library root %s is not a directory", root)
	}

	if seq == nil {
		var counter int64
		seq = func(string) int64 {
			counter++
			return counter
		}
	}

	tracks := make(map[string]types.Track)
	var report ScanReport

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Printf("Error accessing path %s: %v", path, err)
			report.Skipped++
			return nil // Continue walking, don't fail entire scan
		}

		if info.IsDir() || !audioExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		tags, err := reader.ReadTags(path)
		if err != nil {
			log.Printf("Warning: skipping %s: %v", path, err)
			report.Skipped++
			return nil
		}

		id := TrackID(path)
		tracks[id] = types.Track{
			ID:          id,
			Title:       tags.Title,
			Artist:      tags.Artist,
			Album:       tags.Album,
			TrackNumber: tags.TrackNumber,
			Year:        tags.Year,
			Duration:    tags.Duration,
			Path:        path,
			Size:        info.Size(),
			Added:       seq(id),
		}
		report.Scanned++

		if reporter != nil {
			reporter.FileIndexed(path, report.Scanned, report.Skipped)
		}

		return nil
	})
	if err != nil {
		return nil, report, fmt.Errorf("scan %s: %w", root, err)
	}

	return &Catalog{tracks: tracks}, report, nil
}

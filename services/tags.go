package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"go.senan.xyz/taglib"
)

// Tags holds the embedded metadata extracted from one audio file.
// Absent text tags are empty strings; absent track/year are 0.
type Tags struct {
	Title       string
	Artist      string
	Album       string
	TrackNumber int
	Year        int
	Duration    int // seconds, 0 when the stream properties can't be read
}

// TagReader extracts embedded metadata from an audio file. The catalog
// builder depends only on this interface, so format decoders can be
// added or swapped without touching the index or query engine.
type TagReader interface {
	ReadTags(path string) (*Tags, error)
}

// tagReader implements TagReader using dhowden/tag for tag frames and
// taglib for audio stream properties (dhowden/tag has no duration).
type tagReader struct{}

// NewTagReader creates the default tag reader
func NewTagReader() TagReader {
	return &tagReader{}
}

// ReadTags reads metadata from an audio file. An unreadable file or
// unparseable tag data is an error; the caller excludes the file.
func (tr *tagReader) ReadTags(path string) (*Tags, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	meta, err := tag.ReadFrom(file)
	if err != nil {
		return nil, fmt.Errorf("parse audio metadata: %w", err)
	}

	trackNum, _ := meta.Track()
	year := meta.Year()
	if year < 0 {
		year = 0
	}

	tags := &Tags{
		Title:       meta.Title(),
		Artist:      meta.Artist(),
		Album:       meta.Album(),
		TrackNumber: trackNum,
		Year:        year,
	}

	if props, err := taglib.ReadProperties(path); err == nil {
		tags.Duration = int(props.Length / time.Second)
	}

	return tags, nil
}

// ContentType returns the appropriate MIME type for an audio file
func ContentType(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".flac":
		return "audio/flac"
	case ".mp3":
		return "audio/mpeg"
	case ".m4a":
		return "audio/mp4"
	case ".ogg":
		return "audio/ogg"
	case ".wav":
		return "audio/wav"
	default:
		return "application/octet-stream"
	}
}

// Package bookmarks defines the bookmark record consumed by the query
// and filter pipeline. Records are owned by the caller; the engine only
// reads them.
package bookmarks

import (
	"path/filepath"
	"strings"
	"time"
)

// Bookmark represents a single saved bookmark with metadata.
type Bookmark struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Timestamp   float64  `json:"timestamp"` // seconds, non-negative
	FilePath    string   `json:"filepath"`
	Description string   `json:"description,omitempty"`
	CreatedAt   string   `json:"createdAt"` // ISO-8601
	Tags        []string `json:"tags,omitempty"`
}

// CreatedTime parses the CreatedAt field. A missing or unparseable
// value yields the zero time, never an error; filters treat the zero
// time like any other instant.
func (b *Bookmark) CreatedTime() time.Time {
	if b.CreatedAt == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, b.CreatedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}

// MediaFileName returns the base name of the bookmark's file path with
// the extension stripped, the form used for display and sorting.
func (b *Bookmark) MediaFileName() string {
	base := filepath.Base(b.FilePath)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// HasTag reports whether the bookmark carries the given tag exactly.
func (b *Bookmark) HasTag(tag string) bool {
	for _, t := range b.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// TagsJoined returns the tag list joined for display and lexical
// comparison.
func (b *Bookmark) TagsJoined() string {
	return strings.Join(b.Tags, ", ")
}

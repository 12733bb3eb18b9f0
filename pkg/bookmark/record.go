// Package bookmark defines the read-only record type the engine indexes.
package bookmark

import (
	"strings"
	"time"
)

// Record is a single bookmark as supplied by the storage collaborator.
// The engine never mutates a Record; snapshot updates replace whole records.
type Record struct {
	ID         string    `msgpack:"id"`
	URL        string    `msgpack:"url"`
	Title      string    `msgpack:"title"`
	UserTitle  string    `msgpack:"user_title,omitempty"`
	Tags       []string  `msgpack:"tags,omitempty"`
	Notes      string    `msgpack:"notes,omitempty"`
	AISummary  string    `msgpack:"ai_summary,omitempty"`
	AITags     []string  `msgpack:"ai_tags,omitempty"`
	AICategory string    `msgpack:"ai_category,omitempty"`
	FolderPath string    `msgpack:"folder,omitempty"`
	VisitCount int       `msgpack:"visits"`
	LastVisit  time.Time `msgpack:"last_visit,omitempty"`
	Starred    bool      `msgpack:"starred,omitempty"`
	CreatedAt  time.Time `msgpack:"created_at"`
}

// Patch carries partial field updates for a single record.
// Nil pointers mean "leave as is".
type Patch struct {
	URL        *string    `msgpack:"url,omitempty"`
	Title      *string    `msgpack:"title,omitempty"`
	UserTitle  *string    `msgpack:"user_title,omitempty"`
	Tags       *[]string  `msgpack:"tags,omitempty"`
	Notes      *string    `msgpack:"notes,omitempty"`
	AISummary  *string    `msgpack:"ai_summary,omitempty"`
	AITags     *[]string  `msgpack:"ai_tags,omitempty"`
	AICategory *string    `msgpack:"ai_category,omitempty"`
	FolderPath *string    `msgpack:"folder,omitempty"`
	VisitCount *int       `msgpack:"visits,omitempty"`
	LastVisit  *time.Time `msgpack:"last_visit,omitempty"`
	Starred    *bool      `msgpack:"starred,omitempty"`
}

// Apply returns a copy of r with the non-nil patch fields replaced.
func (r Record) Apply(p Patch) Record {
	if p.URL != nil {
		r.URL = *p.URL
	}
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.UserTitle != nil {
		r.UserTitle = *p.UserTitle
	}
	if p.Tags != nil {
		r.Tags = *p.Tags
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
	if p.AISummary != nil {
		r.AISummary = *p.AISummary
	}
	if p.AITags != nil {
		r.AITags = *p.AITags
	}
	if p.AICategory != nil {
		r.AICategory = *p.AICategory
	}
	if p.FolderPath != nil {
		r.FolderPath = *p.FolderPath
	}
	if p.VisitCount != nil {
		r.VisitCount = *p.VisitCount
	}
	if p.LastVisit != nil {
		r.LastVisit = *p.LastVisit
	}
	if p.Starred != nil {
		r.Starred = *p.Starred
	}
	return r
}

// DisplayTitle prefers the user-assigned title over the page title.
func (r Record) DisplayTitle() string {
	if r.UserTitle != "" {
		return r.UserTitle
	}
	return r.Title
}

// SearchTitle is the combined title text fuzzy matching runs against.
func (r Record) SearchTitle() string {
	if r.UserTitle == "" || r.UserTitle == r.Title {
		return r.Title
	}
	return r.Title + " " + r.UserTitle
}

// AllTags returns user tags followed by AI tags.
func (r Record) AllTags() []string {
	if len(r.AITags) == 0 {
		return r.Tags
	}
	out := make([]string, 0, len(r.Tags)+len(r.AITags))
	out = append(out, r.Tags...)
	out = append(out, r.AITags...)
	return out
}

// Document flattens the searchable fields into one lowercase text blob.
// It is a pure function of the record and gets recomputed on every rebuild,
// never cached across snapshot swaps.
func (r Record) Document() string {
	parts := make([]string, 0, 9)
	for _, p := range []string{
		r.Title,
		r.UserTitle,
		strings.Join(r.Tags, " "),
		r.Notes,
		r.AISummary,
		strings.Join(r.AITags, " "),
		r.AICategory,
		r.FolderPath,
		r.URL,
	} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// Package prompts implements the prompt domain for prompter.
// It provides the Prompt entity, the Adapter contract that storage backends
// satisfy, placeholder interpolation, and HTTP handlers.
package prompts

import (
	"context"
	"maps"
)

// Parameters maps a placeholder token, brackets included, to its substitution value.
type Parameters map[string]string

// Clone returns an independent copy. A nil receiver yields an empty, non-nil map.
func (p Parameters) Clone() Parameters {
	out := make(Parameters, len(p))
	maps.Copy(out, p)
	return out
}

// Record is the stored shape of a prompt.
type Record struct {
	ID         string     `json:"id" yaml:"id"`
	Text       string     `json:"text" yaml:"text"`
	Parameters Parameters `json:"parameters" yaml:"parameters"`
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	return Record{
		ID:         r.ID,
		Text:       r.Text,
		Parameters: r.Parameters.Clone(),
	}
}

// Adapter is the persistence boundary for prompt records.
// Implementations own the authoritative record; the core never translates
// the errors they return.
type Adapter interface {
	// Get returns the record stored under id, or an error wrapping ErrNotFound.
	Get(ctx context.Context, id string) (Record, error)
	// Save inserts or overwrites the record keyed by rec.ID.
	// Repeated saves of identical content leave storage unchanged.
	Save(ctx context.Context, rec Record) error
	// Delete removes the record stored under id, or returns an error wrapping ErrNotFound.
	Delete(ctx context.Context, id string) error
	// Search returns every record whose text contains query as a literal,
	// case-sensitive substring. No match yields an empty map, not an error.
	Search(ctx context.Context, query string) (map[string]Record, error)
}

// Checker is implemented by adapters that can test for a record without
// loading it. Manager.Exists falls back to Get for adapters that do not.
type Checker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/JaimeStill/prompter/internal/prompts"
)

// Bundle is the YAML document read by import and written by export.
type Bundle struct {
	Prompts []Entry `yaml:"prompts"`
}

// Entry is one prompt in a Bundle.
type Entry struct {
	ID         string             `yaml:"id"`
	Text       string             `yaml:"text"`
	Parameters prompts.Parameters `yaml:"parameters,omitempty"`
}

// NewBundle converts records to a Bundle, preserving their order.
func NewBundle(records []prompts.Record) Bundle {
	b := Bundle{Prompts: make([]Entry, 0, len(records))}
	for _, rec := range records {
		b.Prompts = append(b.Prompts, Entry{
			ID:         rec.ID,
			Text:       rec.Text,
			Parameters: rec.Parameters.Clone(),
		})
	}
	return b
}

// ReadBundle decodes and validates a bundle. Unknown fields and blank or
// repeated ids are errors. An empty document is an empty bundle.
func ReadBundle(r io.Reader) (Bundle, error) {
	var b Bundle

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil && !errors.Is(err, io.EOF) {
		return Bundle{}, fmt.Errorf("decode bundle: %w", err)
	}

	seen := make(map[string]bool, len(b.Prompts))
	for i, e := range b.Prompts {
		if strings.TrimSpace(e.ID) == "" {
			return Bundle{}, fmt.Errorf("prompt %d: %w: id must not be blank", i, prompts.ErrInvalidArgument)
		}
		if seen[e.ID] {
			return Bundle{}, fmt.Errorf("prompt %d: %w: %s", i, prompts.ErrDuplicate, e.ID)
		}
		seen[e.ID] = true
	}

	return b, nil
}

// WriteBundle encodes b as YAML with two-space indentation.
func WriteBundle(w io.Writer, b Bundle) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}
	return enc.Close()
}

func sortRecords(records []prompts.Record) []prompts.Record {
	slices.SortFunc(records, func(a, b prompts.Record) int {
		return strings.Compare(a.ID, b.ID)
	})
	return records
}

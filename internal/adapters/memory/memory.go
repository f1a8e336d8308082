// Package memory provides an in-process prompt adapter backed by a map.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/JaimeStill/prompter/internal/prompts"
)

// Adapter stores prompt records in memory. The zero value is not usable; call New.
type Adapter struct {
	mu      sync.RWMutex
	records map[string]prompts.Record
}

// New creates an empty in-memory adapter, optionally seeded with records.
func New(seed ...prompts.Record) *Adapter {
	a := &Adapter{
		records: make(map[string]prompts.Record, len(seed)),
	}
	for _, rec := range seed {
		a.records[rec.ID] = rec.Clone()
	}
	return a
}

// Len returns the number of stored records.
func (a *Adapter) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.records)
}

func (a *Adapter) Get(_ context.Context, id string) (prompts.Record, error) {
	a.mu.RLock()
	rec, ok := a.records[id]
	a.mu.RUnlock()

	if !ok {
		return prompts.Record{}, fmt.Errorf("get %s: %w", id, prompts.ErrNotFound)
	}
	return rec.Clone(), nil
}

func (a *Adapter) Save(_ context.Context, rec prompts.Record) error {
	a.mu.Lock()
	a.records[rec.ID] = rec.Clone()
	a.mu.Unlock()
	return nil
}

func (a *Adapter) Delete(_ context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.records[id]; !ok {
		return fmt.Errorf("delete %s: %w", id, prompts.ErrNotFound)
	}
	delete(a.records, id)
	return nil
}

func (a *Adapter) Search(_ context.Context, query string) (map[string]prompts.Record, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	found := make(map[string]prompts.Record)
	for id, rec := range a.records {
		if strings.Contains(rec.Text, query) {
			found[id] = rec.Clone()
		}
	}
	return found, nil
}

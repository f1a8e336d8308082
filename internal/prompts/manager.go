package prompts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Manager binds prompt operations to one storage adapter.
// It replaces a process-wide adapter slot: callers construct a Manager with
// the backend they want and pass it to whatever needs prompts.
//
// A Manager performs no locking. SetAdapter must not race with other calls.
type Manager struct {
	adapter Adapter
	logger  *slog.Logger
}

// NewManager creates a Manager over adapter. A nil adapter leaves the Manager
// unconfigured; every operation then fails with ErrInvalidArgument until
// SetAdapter is called. A nil logger discards output.
func NewManager(adapter Adapter, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		adapter: adapter,
		logger:  logger.With("system", "prompts"),
	}
}

// Adapter returns the configured adapter, or nil.
func (m *Manager) Adapter() Adapter {
	return m.adapter
}

// SetAdapter swaps the storage backend. Prompts already opened stay bound to
// the adapter that hydrated them.
func (m *Manager) SetAdapter(adapter Adapter) {
	m.adapter = adapter
}

// Open loads the record stored under id and returns a hydrated prompt.
// It fails with ErrInvalidArgument for a blank id or missing adapter, and
// otherwise returns the adapter's error unchanged.
func (m *Manager) Open(ctx context.Context, id string) (*Prompt, error) {
	if err := m.check(id); err != nil {
		return nil, err
	}

	rec, err := m.adapter.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return newPrompt(Record{
		ID:         id,
		Text:       rec.Text,
		Parameters: rec.Parameters.Clone(),
	}, m.adapter, m.logger), nil
}

// Get is the read-path alias of Open.
func (m *Manager) Get(ctx context.Context, id string) (*Prompt, error) {
	return m.Open(ctx, id)
}

// Exists reports whether a record is stored under id.
func (m *Manager) Exists(ctx context.Context, id string) (bool, error) {
	if err := m.check(id); err != nil {
		return false, err
	}

	if c, ok := m.adapter.(Checker); ok {
		return c.Exists(ctx, id)
	}

	_, err := m.adapter.Get(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Create saves a new record and returns it as a hydrated prompt.
// An existing record under the same id is overwritten. A nil params is
// stored as an empty mapping.
func (m *Manager) Create(ctx context.Context, id, text string, params Parameters) (*Prompt, error) {
	if err := m.check(id); err != nil {
		return nil, err
	}

	rec := Record{
		ID:         id,
		Text:       text,
		Parameters: params.Clone(),
	}

	if err := m.adapter.Save(ctx, rec.Clone()); err != nil {
		return nil, err
	}

	m.logger.Info("prompt created", "id", id)
	return newPrompt(rec, m.adapter, m.logger), nil
}

// Search returns the adapter's matches for query unmodified.
func (m *Manager) Search(ctx context.Context, query string) (map[string]Record, error) {
	if m.adapter == nil {
		return nil, errNoAdapter()
	}
	return m.adapter.Search(ctx, query)
}

// List returns every stored record ordered by id.
func (m *Manager) List(ctx context.Context) ([]Record, error) {
	found, err := m.Search(ctx, "")
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(found))
	for id := range found {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	records := make([]Record, 0, len(ids))
	for _, id := range ids {
		records = append(records, found[id])
	}
	return records, nil
}

func (m *Manager) check(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id must not be blank", ErrInvalidArgument)
	}
	if m.adapter == nil {
		return errNoAdapter()
	}
	return nil
}

func errNoAdapter() error {
	return fmt.Errorf("%w: no storage adapter configured", ErrInvalidArgument)
}

// Package blob provides a prompt adapter that stores each record as a JSON
// blob through pkg/storage.
package blob

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/prompter/internal/prompts"
	"github.com/JaimeStill/prompter/pkg/storage"
)

const (
	blobExt     = ".json"
	contentType = "application/json"
)

// Adapter stores prompt records as blobs named <prefix><id>.json.
type Adapter struct {
	store       storage.System
	prefix      string
	concurrency int
	logger      *slog.Logger
}

// New creates an adapter over store. Search downloads at most concurrency
// blobs at once.
func New(store storage.System, prefix string, concurrency int, logger *slog.Logger) *Adapter {
	return &Adapter{
		store:       store,
		prefix:      prefix,
		concurrency: max(concurrency, 1),
		logger:      logger.With("adapter", "blob"),
	}
}

func (a *Adapter) Get(ctx context.Context, id string) (prompts.Record, error) {
	if err := validateID(id); err != nil {
		return prompts.Record{}, err
	}

	rec, err := a.download(ctx, a.key(id))
	if err != nil {
		return prompts.Record{}, fmt.Errorf("get %s: %w", id, err)
	}
	rec.ID = id
	return rec, nil
}

// Exists checks blob presence without downloading the record.
func (a *Adapter) Exists(ctx context.Context, id string) (bool, error) {
	if err := validateID(id); err != nil {
		return false, err
	}

	ok, err := a.store.Exists(ctx, a.key(id))
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", id, mapError(err))
	}
	return ok, nil
}

func (a *Adapter) Save(ctx context.Context, rec prompts.Record) error {
	if err := validateID(rec.ID); err != nil {
		return err
	}

	data, err := json.Marshal(rec.Clone())
	if err != nil {
		return fmt.Errorf("encode %s: %w", rec.ID, err)
	}

	if err := a.store.Upload(ctx, a.key(rec.ID), bytes.NewReader(data), contentType); err != nil {
		return fmt.Errorf("save %s: %w", rec.ID, err)
	}

	a.logger.Debug("record saved", "id", rec.ID)
	return nil
}

func (a *Adapter) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	if err := a.store.Delete(ctx, a.key(id)); err != nil {
		return fmt.Errorf("delete %s: %w", id, mapError(err))
	}
	return nil
}

func (a *Adapter) Search(ctx context.Context, query string) (map[string]prompts.Record, error) {
	keys, err := a.store.List(ctx, a.prefix)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	var (
		mu    sync.Mutex
		found = make(map[string]prompts.Record)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for _, key := range keys {
		id, ok := a.idOf(key)
		if !ok {
			continue
		}

		g.Go(func() error {
			rec, err := a.download(gctx, key)
			if errors.Is(err, prompts.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			if !strings.Contains(rec.Text, query) {
				return nil
			}

			rec.ID = id
			mu.Lock()
			found[id] = rec
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return found, nil
}

func (a *Adapter) download(ctx context.Context, key string) (prompts.Record, error) {
	body, err := a.store.Download(ctx, key)
	if err != nil {
		return prompts.Record{}, mapError(err)
	}
	defer body.Close()

	var rec prompts.Record
	if err := json.NewDecoder(body).Decode(&rec); err != nil {
		return prompts.Record{}, fmt.Errorf("decode %s: %w", key, err)
	}
	rec.Parameters = rec.Parameters.Clone()
	return rec, nil
}

func (a *Adapter) key(id string) string {
	return a.prefix + id + blobExt
}

// idOf reports the record id for a listed key. Keys in nested virtual
// directories below the prefix are not records.
func (a *Adapter) idOf(key string) (string, bool) {
	name, ok := strings.CutPrefix(key, a.prefix)
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(name, blobExt)
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

func mapError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return errors.Join(prompts.ErrNotFound, err)
	case storage.IsKeyError(err):
		return errors.Join(prompts.ErrInvalidArgument, err)
	default:
		return err
	}
}

func validateID(id string) error {
	if strings.Contains(id, "..") || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: id %q is not a valid blob name", prompts.ErrInvalidArgument, id)
	}
	return nil
}

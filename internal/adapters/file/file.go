// Package file provides a prompt adapter that keeps each record in a
// directory as two files: <id>.txt holds the text and <id>.json holds the
// parameters.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/JaimeStill/prompter/internal/prompts"
)

const (
	textExt   = ".txt"
	paramsExt = ".json"
)

// Adapter stores prompt records as files under a root directory.
type Adapter struct {
	dir    string
	logger *slog.Logger
}

// New creates an adapter rooted at dir, creating the directory if needed.
func New(dir string, logger *slog.Logger) (*Adapter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create prompts dir: %w", err)
	}
	return &Adapter{
		dir:    dir,
		logger: logger.With("adapter", "file", "dir", dir),
	}, nil
}

// Dir returns the root directory.
func (a *Adapter) Dir() string {
	return a.dir
}

func (a *Adapter) Get(ctx context.Context, id string) (prompts.Record, error) {
	if err := validateID(id); err != nil {
		return prompts.Record{}, err
	}
	if err := ctx.Err(); err != nil {
		return prompts.Record{}, err
	}

	rec, err := a.read(id)
	if err != nil {
		return prompts.Record{}, fmt.Errorf("get %s: %w", id, err)
	}
	return rec, nil
}

func (a *Adapter) Save(ctx context.Context, rec prompts.Record) error {
	if err := validateID(rec.ID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params, err := json.MarshalIndent(rec.Parameters.Clone(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode parameters %s: %w", rec.ID, err)
	}

	if err := writeFile(a.path(rec.ID, paramsExt), params); err != nil {
		return fmt.Errorf("save %s: %w", rec.ID, err)
	}
	if err := writeFile(a.path(rec.ID, textExt), []byte(rec.Text)); err != nil {
		return fmt.Errorf("save %s: %w", rec.ID, err)
	}

	a.logger.Debug("record saved", "id", rec.ID)
	return nil
}

func (a *Adapter) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(a.path(id, textExt)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("delete %s: %w", id, prompts.ErrNotFound)
		}
		return fmt.Errorf("delete %s: %w", id, err)
	}

	if err := os.Remove(a.path(id, paramsExt)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s parameters: %w", id, err)
	}
	return nil
}

func (a *Adapter) Search(ctx context.Context, query string) (map[string]prompts.Record, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	found := make(map[string]prompts.Record)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != textExt {
			continue
		}

		id := strings.TrimSuffix(name, textExt)
		text, err := os.ReadFile(filepath.Join(a.dir, name))
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", query, err)
		}
		if !strings.Contains(string(text), query) {
			continue
		}

		params, err := a.readParams(id)
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", query, err)
		}
		found[id] = prompts.Record{ID: id, Text: string(text), Parameters: params}
	}
	return found, nil
}

func (a *Adapter) read(id string) (prompts.Record, error) {
	text, err := os.ReadFile(a.path(id, textExt))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return prompts.Record{}, prompts.ErrNotFound
		}
		return prompts.Record{}, err
	}

	params, err := a.readParams(id)
	if err != nil {
		return prompts.Record{}, err
	}

	return prompts.Record{ID: id, Text: string(text), Parameters: params}, nil
}

// readParams treats a missing parameters file as an empty mapping.
func (a *Adapter) readParams(id string) (prompts.Parameters, error) {
	data, err := os.ReadFile(a.path(id, paramsExt))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return prompts.Parameters{}, nil
		}
		return nil, err
	}

	var params prompts.Parameters
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("decode parameters %s: %w", id, err)
	}
	return params.Clone(), nil
}

func (a *Adapter) path(id, ext string) string {
	return filepath.Join(a.dir, id+ext)
}

// writeFile replaces path through a rename so readers never see a partial file.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".prompt-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func validateID(id string) error {
	if strings.Contains(id, "..") || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: id %q is not a valid file name", prompts.ErrInvalidArgument, id)
	}
	return nil
}

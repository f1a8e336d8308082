// Package sqlite provides a prompt adapter backed by a single-file SQLite
// database through the modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/prompter/internal/prompts"
	"github.com/JaimeStill/prompter/pkg/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS prompts (
    id          TEXT PRIMARY KEY,
    text        TEXT NOT NULL DEFAULT '',
    parameters  TEXT NOT NULL DEFAULT '{}',
    created_at  TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

const (
	selectOne = `SELECT id, text, parameters FROM prompts WHERE id = ?`
	selectAll = `SELECT id, text, parameters FROM prompts`
	// instr is binary and case-sensitive, and treats % and _ literally.
	selectMatch = `SELECT id, text, parameters FROM prompts WHERE instr(text, ?) > 0`
	upsert      = `
INSERT INTO prompts (id, text, parameters) VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    text = excluded.text,
    parameters = excluded.parameters,
    updated_at = CURRENT_TIMESTAMP`
	deleteOne = `DELETE FROM prompts WHERE id = ?`
)

// Adapter stores prompt records in a SQLite prompts table.
type Adapter struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates an adapter over db and ensures the prompts table exists.
func New(ctx context.Context, db *sql.DB, logger *slog.Logger) (*Adapter, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &Adapter{
		db:     db,
		logger: logger.With("adapter", "sqlite"),
	}, nil
}

func (a *Adapter) Get(ctx context.Context, id string) (prompts.Record, error) {
	rec, err := repository.QueryOne(ctx, a.db, selectOne, []any{id}, scanRecord)
	if err != nil {
		return prompts.Record{}, fmt.Errorf("get %s: %w", id, repository.MapError(err, prompts.ErrNotFound, prompts.ErrDuplicate))
	}
	return rec, nil
}

func (a *Adapter) Save(ctx context.Context, rec prompts.Record) error {
	params, err := json.Marshal(rec.Parameters.Clone())
	if err != nil {
		return fmt.Errorf("encode parameters %s: %w", rec.ID, err)
	}

	if _, err := a.db.ExecContext(ctx, upsert, rec.ID, rec.Text, string(params)); err != nil {
		return fmt.Errorf("save %s: %w", rec.ID, err)
	}

	a.logger.Debug("record saved", "id", rec.ID)
	return nil
}

func (a *Adapter) Delete(ctx context.Context, id string) error {
	if err := repository.ExecExpectOne(ctx, a.db, deleteOne, id); err != nil {
		return fmt.Errorf("delete %s: %w", id, repository.MapError(err, prompts.ErrNotFound, prompts.ErrDuplicate))
	}
	return nil
}

func (a *Adapter) Search(ctx context.Context, query string) (map[string]prompts.Record, error) {
	stmt, args := selectAll, []any(nil)
	if query != "" {
		stmt, args = selectMatch, []any{query}
	}

	found, err := repository.QueryMap(ctx, a.db, stmt, args, scanRecord, recordID)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return found, nil
}

func scanRecord(s repository.Scanner) (prompts.Record, error) {
	var (
		rec    prompts.Record
		params string
	)
	if err := s.Scan(&rec.ID, &rec.Text, &params); err != nil {
		return prompts.Record{}, err
	}
	if err := json.Unmarshal([]byte(params), &rec.Parameters); err != nil {
		return prompts.Record{}, fmt.Errorf("decode parameters %s: %w", rec.ID, err)
	}
	rec.Parameters = rec.Parameters.Clone()
	return rec, nil
}

func recordID(rec prompts.Record) string { return rec.ID }

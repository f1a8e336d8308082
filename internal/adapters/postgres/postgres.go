// Package postgres provides a prompt adapter backed by the PostgreSQL prompts
// table created by the embedded migrations.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/prompter/internal/prompts"
	"github.com/JaimeStill/prompter/pkg/repository"
)

const (
	selectOne = `SELECT id, text, parameters FROM prompts WHERE id = $1`
	selectAll = `SELECT id, text, parameters FROM prompts`
	// strpos matches literally, unlike LIKE which treats % and _ as wildcards.
	selectMatch = `SELECT id, text, parameters FROM prompts WHERE strpos(text, $1) > 0`
	upsert      = `
INSERT INTO prompts (id, text, parameters) VALUES ($1, $2, $3::jsonb)
ON CONFLICT (id) DO UPDATE SET
    text = EXCLUDED.text,
    parameters = EXCLUDED.parameters,
    updated_at = now()`
	deleteOne = `DELETE FROM prompts WHERE id = $1`
)

// Adapter stores prompt records in PostgreSQL.
type Adapter struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates an adapter over db. The schema is managed by cmd/migrate.
func New(db *sql.DB, logger *slog.Logger) *Adapter {
	return &Adapter{
		db:     db,
		logger: logger.With("adapter", "postgres"),
	}
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

	_, err = repository.WithTx(ctx, a.db, func(tx *sql.Tx) (struct{}, error) {
		_, err := tx.ExecContext(ctx, upsert, rec.ID, rec.Text, string(params))
		return struct{}{}, err
	})
	if err != nil {
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
		params []byte
	)
	if err := s.Scan(&rec.ID, &rec.Text, &params); err != nil {
		return prompts.Record{}, err
	}
	if err := json.Unmarshal(params, &rec.Parameters); err != nil {
		return prompts.Record{}, fmt.Errorf("decode parameters %s: %w", rec.ID, err)
	}
	rec.Parameters = rec.Parameters.Clone()
	return rec, nil
}

func recordID(rec prompts.Record) string { return rec.ID }

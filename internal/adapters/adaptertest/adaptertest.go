// Package adaptertest provides a conformance suite that every prompt adapter
// must pass.
package adaptertest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/prompter/internal/prompts"
)

// Factory returns a fresh, empty adapter for a single subtest.
type Factory func(t *testing.T) prompts.Adapter

// Run exercises the adapter contract against adapters produced by newAdapter.
func Run(t *testing.T, newAdapter Factory) {
	t.Helper()

	t.Run("get missing", func(t *testing.T) {
		a := newAdapter(t)
		_, err := a.Get(context.Background(), "absent")
		assert.ErrorIs(t, err, prompts.ErrNotFound)
	})

	t.Run("save then get", func(t *testing.T) {
		a := newAdapter(t)
		ctx := context.Background()
		rec := prompts.Record{
			ID:         "greeting",
			Text:       "Hello, [NAME]!",
			Parameters: prompts.Parameters{"[NAME]": "World"},
		}

		require.NoError(t, a.Save(ctx, rec))

		got, err := a.Get(ctx, "greeting")
		require.NoError(t, err)
		assert.Equal(t, rec.Text, got.Text)
		assert.Equal(t, rec.Parameters, got.Parameters)
	})

	t.Run("empty parameters round trip", func(t *testing.T) {
		a := newAdapter(t)
		ctx := context.Background()

		require.NoError(t, a.Save(ctx, prompts.Record{ID: "bare", Text: "no placeholders"}))

		got, err := a.Get(ctx, "bare")
		require.NoError(t, err)
		assert.Equal(t, "no placeholders", got.Text)
		assert.Empty(t, got.Parameters)
	})

	t.Run("save overwrites", func(t *testing.T) {
		a := newAdapter(t)
		ctx := context.Background()

		require.NoError(t, a.Save(ctx, prompts.Record{ID: "p", Text: "first"}))
		require.NoError(t, a.Save(ctx, prompts.Record{
			ID:         "p",
			Text:       "second [X]",
			Parameters: prompts.Parameters{"[X]": "y"},
		}))

		got, err := a.Get(ctx, "p")
		require.NoError(t, err)
		assert.Equal(t, "second [X]", got.Text)
		assert.Equal(t, prompts.Parameters{"[X]": "y"}, got.Parameters)
	})

	t.Run("save is idempotent", func(t *testing.T) {
		a := newAdapter(t)
		ctx := context.Background()
		rec := prompts.Record{ID: "same", Text: "t", Parameters: prompts.Parameters{"k": "v"}}

		require.NoError(t, a.Save(ctx, rec))
		first, err := a.Search(ctx, "")
		require.NoError(t, err)

		require.NoError(t, a.Save(ctx, rec))
		second, err := a.Search(ctx, "")
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("delete", func(t *testing.T) {
		a := newAdapter(t)
		ctx := context.Background()

		require.NoError(t, a.Save(ctx, prompts.Record{ID: "gone", Text: "bye"}))
		require.NoError(t, a.Delete(ctx, "gone"))

		_, err := a.Get(ctx, "gone")
		assert.ErrorIs(t, err, prompts.ErrNotFound)
	})

	t.Run("delete missing", func(t *testing.T) {
		a := newAdapter(t)
		err := a.Delete(context.Background(), "absent")
		assert.ErrorIs(t, err, prompts.ErrNotFound)
	})

	t.Run("search", func(t *testing.T) {
		a := newAdapter(t)
		ctx := context.Background()

		for _, rec := range []prompts.Record{
			{ID: "a", Text: "Hello, [NAME]!"},
			{ID: "b", Text: "hello lowercase"},
			{ID: "c", Text: "Say Hello twice: Hello"},
			{ID: "d", Text: "nothing here"},
		} {
			require.NoError(t, a.Save(ctx, rec))
		}

		found, err := a.Search(ctx, "Hello")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a", "c"}, keys(found))
		assert.Equal(t, "Hello, [NAME]!", found["a"].Text)
	})

	t.Run("search treats query literally", func(t *testing.T) {
		a := newAdapter(t)
		ctx := context.Background()

		require.NoError(t, a.Save(ctx, prompts.Record{ID: "pct", Text: "100% [NAME]_x"}))
		require.NoError(t, a.Save(ctx, prompts.Record{ID: "plain", Text: "100 percent"}))

		found, err := a.Search(ctx, "0% [NAME]_")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"pct"}, keys(found))

		found, err = a.Search(ctx, "%")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"pct"}, keys(found))
	})

	t.Run("search no match", func(t *testing.T) {
		a := newAdapter(t)
		ctx := context.Background()

		require.NoError(t, a.Save(ctx, prompts.Record{ID: "x", Text: "abc"}))

		found, err := a.Search(ctx, "zzz")
		require.NoError(t, err)
		assert.NotNil(t, found)
		assert.Empty(t, found)
	})

	t.Run("empty query matches all", func(t *testing.T) {
		a := newAdapter(t)
		ctx := context.Background()

		require.NoError(t, a.Save(ctx, prompts.Record{ID: "one", Text: "1"}))
		require.NoError(t, a.Save(ctx, prompts.Record{ID: "two", Text: ""}))

		found, err := a.Search(ctx, "")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"one", "two"}, keys(found))
	})
}

func keys(m map[string]prompts.Record) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

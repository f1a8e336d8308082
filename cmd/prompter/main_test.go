package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/prompter/internal/adapters/memory"
	"github.com/JaimeStill/prompter/internal/prompts"
)

func newManager(seed ...prompts.Record) (*prompts.Manager, *memory.Adapter) {
	store := memory.New(seed...)
	return prompts.NewManager(store, nil), store
}

func exec(t *testing.T, m *prompts.Manager, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := execute(context.Background(), m, args, &out)
	return out.String(), err
}

func greeting() prompts.Record {
	return prompts.Record{
		ID:         "greet",
		Text:       "Hello [NAME], welcome to [PLACE]",
		Parameters: prompts.Parameters{"[NAME]": "Ada"},
	}
}

func TestParamFlag(t *testing.T) {
	p := paramFlag{}
	require.NoError(t, p.Set("NAME=Ada"))
	require.NoError(t, p.Set("[PLACE]=a=b"))

	assert.Equal(t, paramFlag{"[NAME]": "Ada", "[PLACE]": "a=b"}, p)

	assert.Error(t, p.Set("novalue"))
	assert.Error(t, p.Set("=x"))
}

func TestUnknownCommand(t *testing.T) {
	m, _ := newManager()

	_, err := exec(t, m, "frobnicate")
	assert.ErrorContains(t, err, `unknown command "frobnicate"`)
	assert.ErrorIs(t, err, errUsage)

	_, err = exec(t, m)
	assert.ErrorIs(t, err, errUsage)
}

func TestRender(t *testing.T) {
	m, _ := newManager(greeting())

	out, err := exec(t, m, "render", "greet")
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada, welcome to [PLACE]\n", out)

	out, err = exec(t, m, "render", "-p", "PLACE=Paris", "-p", "NAME=Grace", "greet")
	require.NoError(t, err)
	assert.Equal(t, "Hello Grace, welcome to Paris\n", out)

	p, err := m.Get(context.Background(), "greet")
	require.NoError(t, err)
	assert.Equal(t, prompts.Parameters{"[NAME]": "Ada"}, p.Parameters(), "render must not persist overrides")
}

func TestGet(t *testing.T) {
	m, _ := newManager(greeting())

	out, err := exec(t, m, "get", "greet")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "greet",
		"text": "Hello [NAME], welcome to [PLACE]",
		"parameters": {"[NAME]": "Ada"},
		"keywords": ["[NAME]", "[PLACE]"],
		"missing": ["[PLACE]"]
	}`, out)

	_, err = exec(t, m, "get", "absent")
	assert.ErrorIs(t, err, prompts.ErrNotFound)

	_, err = exec(t, m, "get")
	assert.ErrorContains(t, err, "expected exactly one id")
}

func TestCreateUpdateDelete(t *testing.T) {
	m, store := newManager()
	ctx := context.Background()

	out, err := exec(t, m, "create", "-text", "Dear [NAME]", "letter")
	require.NoError(t, err)
	assert.Equal(t, "letter: missing [NAME]\n", out)

	out, err = exec(t, m, "update", "-p", "NAME=Ada", "letter")
	require.NoError(t, err)
	assert.Empty(t, out)

	rec, err := store.Get(ctx, "letter")
	require.NoError(t, err)
	assert.Equal(t, "Dear [NAME]", rec.Text)
	assert.Equal(t, prompts.Parameters{"[NAME]": "Ada"}, rec.Parameters)

	_, err = exec(t, m, "update", "-text", "", "letter")
	require.NoError(t, err)
	rec, err = store.Get(ctx, "letter")
	require.NoError(t, err)
	assert.Empty(t, rec.Text, "an explicit empty -text replaces the text")

	_, err = exec(t, m, "delete", "letter")
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())

	_, err = exec(t, m, "delete", "letter")
	assert.ErrorIs(t, err, prompts.ErrNotFound)
}

func TestSearchAndList(t *testing.T) {
	m, _ := newManager(
		greeting(),
		prompts.Record{ID: "bye", Text: "Goodbye [NAME]"},
		prompts.Record{ID: "plain", Text: "nothing here"},
	)

	out, err := exec(t, m, "search", "[NAME]")
	require.NoError(t, err)
	assert.Equal(t, "bye\ngreet\n", out)

	out, err = exec(t, m, "list")
	require.NoError(t, err)
	assert.Equal(t, "bye\ngreet\nplain\n", out)
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.yaml")
	require.NoError(t, os.WriteFile(src, []byte(`prompts:
  - id: b
    text: "Second [X]"
  - id: a
    text: First
    parameters:
      "[X]": one
`), 0o644))

	m, store := newManager()

	out, err := exec(t, m, "import", src)
	require.NoError(t, err)
	assert.Equal(t, "imported 2 prompts\n", out)
	assert.Equal(t, 2, store.Len())

	dst := filepath.Join(dir, "out.yaml")
	_, err = exec(t, m, "export", dst)
	require.NoError(t, err)

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer f.Close()

	b, err := ReadBundle(f)
	require.NoError(t, err)
	require.Len(t, b.Prompts, 2)
	assert.Equal(t, "a", b.Prompts[0].ID)
	assert.Equal(t, prompts.Parameters{"[X]": "one"}, b.Prompts[0].Parameters)
	assert.Equal(t, "b", b.Prompts[1].ID)
	assert.Empty(t, b.Prompts[1].Parameters)
}

func TestReadBundle(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
		msg  string
	}{
		{name: "blank id", doc: "prompts:\n  - id: ' '\n    text: x\n", want: prompts.ErrInvalidArgument},
		{name: "repeated id", doc: "prompts:\n  - id: a\n  - id: a\n", want: prompts.ErrDuplicate},
		{name: "unknown field", doc: "prompts:\n  - id: a\n    body: x\n", msg: "decode bundle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadBundle(strings.NewReader(tt.doc))
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
			if tt.msg != "" {
				assert.ErrorContains(t, err, tt.msg)
			}
		})
	}

	b, err := ReadBundle(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, b.Prompts)
}

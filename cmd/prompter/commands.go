package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"

	"github.com/JaimeStill/prompter/internal/prompts"
)

type command func(ctx context.Context, m *prompts.Manager, args []string, out io.Writer) error

var commands = map[string]command{
	"get":    get,
	"render": render,
	"create": create,
	"update": update,
	"delete": remove,
	"search": search,
	"list":   list,
	"import": importBundle,
	"export": exportBundle,
}

func execute(ctx context.Context, m *prompts.Manager, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q\n\n%w", args[0], errUsage)
	}
	return cmd(ctx, m, args[1:], out)
}

// paramFlag collects repeated -p KEY=VALUE flags into a parameter mapping.
type paramFlag prompts.Parameters

func (p paramFlag) String() string {
	return fmt.Sprint(prompts.Parameters(p))
}

func (p paramFlag) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected KEY=VALUE, got %q", v)
	}
	p[token(key)] = value
	return nil
}

func token(key string) string {
	if strings.HasPrefix(key, "[") && strings.HasSuffix(key, "]") {
		return key
	}
	return "[" + key + "]"
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func oneArg(fs *flag.FlagSet, what string) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%s: expected exactly one %s", fs.Name(), what)
	}
	return fs.Arg(0), nil
}

func get(ctx context.Context, m *prompts.Manager, args []string, out io.Writer) error {
	fs := newFlags("get")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := oneArg(fs, "id")
	if err != nil {
		return err
	}

	p, err := m.Get(ctx, id)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(prompts.NewView(p), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func render(ctx context.Context, m *prompts.Manager, args []string, out io.Writer) error {
	params := paramFlag{}
	fs := newFlags("render")
	fs.Var(params, "p", "parameter override KEY=VALUE (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := oneArg(fs, "id")
	if err != nil {
		return err
	}

	p, err := m.Get(ctx, id)
	if err != nil {
		return err
	}

	if len(params) > 0 {
		merged := p.Parameters()
		maps.Copy(merged, params)
		if p, err = p.WithParameters(merged); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintln(out, p.Render())
	return err
}

func create(ctx context.Context, m *prompts.Manager, args []string, out io.Writer) error {
	params := paramFlag{}
	fs := newFlags("create")
	text := fs.String("text", "", "prompt text")
	fs.Var(params, "p", "parameter KEY=VALUE (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := oneArg(fs, "id")
	if err != nil {
		return err
	}

	p, err := m.Create(ctx, id, *text, prompts.Parameters(params))
	if err != nil {
		return err
	}

	return reportMissing(out, p)
}

func update(ctx context.Context, m *prompts.Manager, args []string, out io.Writer) error {
	params := paramFlag{}
	fs := newFlags("update")
	text := fs.String("text", "", "replacement text")
	fs.Var(params, "p", "parameter KEY=VALUE merged into the stored ones (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := oneArg(fs, "id")
	if err != nil {
		return err
	}

	textSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "text" {
			textSet = true
		}
	})

	p, err := m.Open(ctx, id)
	if err != nil {
		return err
	}
	if textSet {
		if p, err = p.WithText(*text); err != nil {
			return err
		}
	}
	for key, value := range params {
		if p, err = p.WithParameter(key, value); err != nil {
			return err
		}
	}
	if err := p.Save(ctx); err != nil {
		return err
	}

	return reportMissing(out, p)
}

func remove(ctx context.Context, m *prompts.Manager, args []string, _ io.Writer) error {
	fs := newFlags("delete")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := oneArg(fs, "id")
	if err != nil {
		return err
	}

	p, err := m.Open(ctx, id)
	if err != nil {
		return err
	}
	return p.Delete(ctx)
}

func search(ctx context.Context, m *prompts.Manager, args []string, out io.Writer) error {
	fs := newFlags("search")
	if err := fs.Parse(args); err != nil {
		return err
	}
	query, err := oneArg(fs, "query")
	if err != nil {
		return err
	}

	found, err := m.Search(ctx, query)
	if err != nil {
		return err
	}

	records := make([]prompts.Record, 0, len(found))
	for _, rec := range found {
		records = append(records, rec)
	}
	return printIDs(out, sortRecords(records))
}

func list(ctx context.Context, m *prompts.Manager, args []string, out io.Writer) error {
	fs := newFlags("list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("list: unexpected arguments")
	}

	records, err := m.List(ctx)
	if err != nil {
		return err
	}
	return printIDs(out, records)
}

func importBundle(ctx context.Context, m *prompts.Manager, args []string, out io.Writer) error {
	fs := newFlags("import")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := oneArg(fs, "file")
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := ReadBundle(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	for _, e := range b.Prompts {
		if _, err := m.Create(ctx, e.ID, e.Text, e.Parameters); err != nil {
			return fmt.Errorf("import %s: %w", e.ID, err)
		}
	}

	_, err = fmt.Fprintf(out, "imported %d prompts\n", len(b.Prompts))
	return err
}

func exportBundle(ctx context.Context, m *prompts.Manager, args []string, out io.Writer) error {
	fs := newFlags("export")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("export: expected at most one file")
	}

	records, err := m.List(ctx)
	if err != nil {
		return err
	}

	if fs.NArg() == 0 {
		return WriteBundle(out, NewBundle(records))
	}

	f, err := os.Create(fs.Arg(0))
	if err != nil {
		return err
	}
	if err := WriteBundle(f, NewBundle(records)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func reportMissing(out io.Writer, p *prompts.Prompt) error {
	if missing := p.Missing(); len(missing) > 0 {
		_, err := fmt.Fprintf(out, "%s: missing %s\n", p.ID(), strings.Join(missing, ", "))
		return err
	}
	return nil
}

func printIDs(out io.Writer, records []prompts.Record) error {
	for _, rec := range records {
		if _, err := fmt.Fprintln(out, rec.ID); err != nil {
			return err
		}
	}
	return nil
}

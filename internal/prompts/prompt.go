package prompts

import (
	"context"
	"fmt"
	"log/slog"
)

// Prompt is a caller-owned view of one stored record, bound to the adapter
// that hydrated it. Field changes produce new instances through the With
// methods; nothing is written until Save is called.
//
// A Prompt is HYDRATED when returned by a Manager and becomes DELETED after a
// successful Delete. Save, Delete, and the With methods fail with ErrStale on
// a deleted prompt. Instances derived through With share that state.
//
// No locking or versioning is performed: when several actors write the same
// id, the last Save wins. Sequencing Get against Save or Delete is the
// caller's responsibility.
type Prompt struct {
	record  Record
	adapter Adapter
	logger  *slog.Logger
	state   *lifecycle
}

type lifecycle struct {
	deleted bool
}

func newPrompt(rec Record, adapter Adapter, logger *slog.Logger) *Prompt {
	return &Prompt{
		record:  rec,
		adapter: adapter,
		logger:  logger,
		state:   &lifecycle{},
	}
}

// ID returns the prompt identifier.
func (p *Prompt) ID() string {
	return p.record.ID
}

// Text returns the raw template text.
func (p *Prompt) Text() string {
	return p.record.Text
}

// Parameters returns a copy of the parameter mapping.
func (p *Prompt) Parameters() Parameters {
	return p.record.Parameters.Clone()
}

// Parameter returns the value for a single placeholder token.
func (p *Prompt) Parameter(key string) (string, bool) {
	v, ok := p.record.Parameters[key]
	return v, ok
}

// Record returns a copy of the prompt's current field values.
func (p *Prompt) Record() Record {
	return p.record.Clone()
}

// Deleted reports whether the backing record was removed through this
// prompt or one derived from the same hydration.
func (p *Prompt) Deleted() bool {
	return p.state.deleted
}

// Render returns the text with parameters interpolated.
func (p *Prompt) Render() string {
	return Render(p.record.Text, p.record.Parameters)
}

// String implements fmt.Stringer by rendering the prompt.
func (p *Prompt) String() string {
	return p.Render()
}

// Keywords returns the placeholder tokens present in the text.
func (p *Prompt) Keywords() []string {
	return Keywords(p.record.Text)
}

// Missing returns the placeholder tokens in the text that have no parameter value.
func (p *Prompt) Missing() []string {
	missing := make([]string, 0)
	for _, k := range p.Keywords() {
		if _, ok := p.record.Parameters[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

// WithText returns a prompt with the template text replaced.
func (p *Prompt) WithText(text string) (*Prompt, error) {
	if p.state.deleted {
		return nil, p.stale()
	}
	rec := p.record.Clone()
	rec.Text = text
	return p.derive(rec), nil
}

// WithParameters returns a prompt whose parameter mapping is replaced by params.
func (p *Prompt) WithParameters(params Parameters) (*Prompt, error) {
	if p.state.deleted {
		return nil, p.stale()
	}
	rec := p.record.Clone()
	rec.Parameters = params.Clone()
	return p.derive(rec), nil
}

// WithParameter returns a prompt with a single placeholder value set.
func (p *Prompt) WithParameter(key, value string) (*Prompt, error) {
	if p.state.deleted {
		return nil, p.stale()
	}
	rec := p.record.Clone()
	rec.Parameters[key] = value
	return p.derive(rec), nil
}

// Save writes the prompt's current values through the adapter.
// Adapter errors are returned unchanged.
func (p *Prompt) Save(ctx context.Context) error {
	if p.state.deleted {
		return p.stale()
	}
	if err := p.adapter.Save(ctx, p.record.Clone()); err != nil {
		return err
	}

	p.logger.Info("prompt saved", "id", p.record.ID)
	return nil
}

// Delete removes the backing record through the adapter and marks the prompt
// deleted. Adapter errors, such as ErrNotFound when another actor already
// removed the record, are returned unchanged and leave the prompt hydrated.
func (p *Prompt) Delete(ctx context.Context) error {
	if p.state.deleted {
		return p.stale()
	}
	if err := p.adapter.Delete(ctx, p.record.ID); err != nil {
		return err
	}

	p.state.deleted = true
	p.logger.Info("prompt deleted", "id", p.record.ID)
	return nil
}

func (p *Prompt) derive(rec Record) *Prompt {
	return &Prompt{
		record:  rec,
		adapter: p.adapter,
		logger:  p.logger,
		state:   p.state,
	}
}

func (p *Prompt) stale() error {
	return fmt.Errorf("%w: %s was deleted", ErrStale, p.record.ID)
}

package dsl

import "github.com/aretw0/mealy/pkg/domain"

// Builder manages table construction.
type Builder struct {
	def domain.Definition
}

// RuleBuilder configures the transitions leaving one state.
type RuleBuilder struct {
	builder *Builder
	from    domain.State
	inputs  []string
}

// New creates a new table builder.
func New(name string) *Builder {
	return &Builder{def: domain.Definition{Name: name}}
}

// Initial sets the initial state. Defaults to the source of the first rule.
func (b *Builder) Initial(s domain.State) *Builder {
	b.def.Initial = s
	return b
}

// States declares the state set explicitly.
func (b *Builder) States(states ...domain.State) *Builder {
	b.def.States = append(b.def.States, states...)
	return b
}

// From starts a rule leaving s.
func (b *Builder) From(s domain.State) *RuleBuilder {
	return &RuleBuilder{builder: b, from: s}
}

// On adds input symbols to the rule. Each symbol becomes its own transition.
func (r *RuleBuilder) On(inputs ...string) *RuleBuilder {
	r.inputs = append(r.inputs, inputs...)
	return r
}

// To completes the rule and returns the table builder.
func (r *RuleBuilder) To(next domain.State, output string) *Builder {
	inputs := r.inputs
	if len(inputs) == 0 {
		inputs = []string{""}
	}
	for _, in := range inputs {
		r.builder.def.Transitions = append(r.builder.def.Transitions, domain.Transition{
			From:   r.from,
			Input:  in,
			To:     next,
			Output: output,
		})
	}
	return r.builder
}

// Definition returns a copy of the definition built so far.
func (b *Builder) Definition() domain.Definition {
	def := b.def
	def.States = append([]domain.State(nil), b.def.States...)
	def.Transitions = append([]domain.Transition(nil), b.def.Transitions...)
	if def.Initial == "" && len(def.Transitions) > 0 {
		def.Initial = def.Transitions[0].From
	}
	return def
}

// Build validates the definition into a Table.
func (b *Builder) Build() (*domain.Table, error) {
	return domain.NewTable(b.Definition())
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *domain.Table {
	return domain.MustTable(b.Definition())
}

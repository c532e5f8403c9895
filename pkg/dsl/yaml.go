package dsl

import (
	"fmt"

	"github.com/aretw0/mealy/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Document is the YAML representation of a table.
type Document struct {
	Name        string   `yaml:"name,omitempty" mapstructure:"name"`
	Initial     string   `yaml:"initial" mapstructure:"initial"`
	States      []string `yaml:"states,omitempty" mapstructure:"states"`
	Transitions []Rule   `yaml:"transitions" mapstructure:"transitions"`
}

// Rule is one YAML transition entry. Either Input or Inputs is set;
// Inputs expands into one transition per symbol, in order.
type Rule struct {
	From   string   `yaml:"from" mapstructure:"from"`
	Input  string   `yaml:"input,omitempty" mapstructure:"input"`
	Inputs []string `yaml:"inputs,omitempty" mapstructure:"inputs"`
	To     string   `yaml:"to" mapstructure:"to"`
	Output string   `yaml:"output" mapstructure:"output"`
}

// ParseYAML decodes a YAML document into a Definition.
//
// Scalars are taken verbatim, so symbols such as 00 or 10 keep their spelling
// even when unquoted. Unknown keys are rejected. If the document has no name,
// fallbackName is used; if it has no initial state, the first rule's source is.
func ParseYAML(fallbackName string, data []byte) (*domain.Definition, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("invalid yaml: empty document")
	}

	var doc Document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &doc,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(plain(root.Content[0])); err != nil {
		return nil, fmt.Errorf("invalid table document: %w", err)
	}

	if doc.Name == "" {
		doc.Name = fallbackName
	}
	return doc.Definition()
}

// Definition converts the document into a domain Definition.
func (d Document) Definition() (*domain.Definition, error) {
	def := &domain.Definition{
		Name:    d.Name,
		Initial: domain.State(d.Initial),
	}
	for _, s := range d.States {
		def.States = append(def.States, domain.State(s))
	}
	for i, r := range d.Transitions {
		inputs := r.Inputs
		if r.Input != "" {
			if len(r.Inputs) > 0 {
				return nil, fmt.Errorf("transition %d: both input and inputs are set", i)
			}
			inputs = []string{r.Input}
		}
		if len(inputs) == 0 {
			// Let table validation report the empty symbol with its index.
			inputs = []string{""}
		}
		for _, in := range inputs {
			def.Transitions = append(def.Transitions, domain.Transition{
				From:   domain.State(r.From),
				Input:  in,
				To:     domain.State(r.To),
				Output: r.Output,
			})
		}
	}
	if def.Initial == "" && len(def.Transitions) > 0 {
		def.Initial = def.Transitions[0].From
	}
	return def, nil
}

// NewDocument builds the YAML representation of a table.
func NewDocument(table *domain.Table) Document {
	doc := Document{
		Name:    table.Name(),
		Initial: string(table.Initial()),
	}
	for _, s := range table.States() {
		doc.States = append(doc.States, string(s))
	}
	for _, t := range table.Transitions() {
		doc.Transitions = append(doc.Transitions, Rule{
			From:   string(t.From),
			Input:  t.Input,
			To:     string(t.To),
			Output: t.Output,
		})
	}
	return doc
}

// MarshalYAML renders a table as a YAML document.
func MarshalYAML(table *domain.Table) ([]byte, error) {
	return yaml.Marshal(NewDocument(table))
}

// plain converts a YAML node tree into maps, slices and strings.
func plain(n *yaml.Node) any {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}
		return plain(n.Content[0])
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			m[n.Content[i].Value] = plain(n.Content[i+1])
		}
		return m
	case yaml.SequenceNode:
		s := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			s = append(s, plain(c))
		}
		return s
	case yaml.AliasNode:
		return plain(n.Alias)
	default:
		if n.Tag == "!!null" {
			return nil
		}
		return n.Value
	}
}

package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/mealy/pkg/domain"
)

// ParseError reports a syntax error in the line format.
// Line and Column are 1-based; Column counts raw characters.
type ParseError struct {
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at line %d (column %d)", e.Message, e.Line, e.Column)
}

type phase int

const (
	phaseState phase = iota
	phaseInput
	phaseNext
	phaseOutput
)

type lineParser struct {
	phase  phase
	buf    strings.Builder
	state  string
	inputs []string
	next   string
	line   int
	column int
	dirty  bool
	// header is set on "@name: a, b" lines; directive holds name once read.
	header    bool
	directive string
}

// Parse reads the line format from r into a Definition named name.
func Parse(name string, r io.Reader) (*domain.Definition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}
	return ParseString(name, string(data))
}

// ParseString parses src in the line format into a Definition named name.
//
// A symbol holding whitespace or one of ,>#"@ is written as a Go quoted
// string. Header lines "@initial: s" and "@states: a, b" set the initial
// state and the declared state set; without them the initial state is the
// first rule's source.
func ParseString(name, src string) (*domain.Definition, error) {
	def := &domain.Definition{Name: name}
	p := &lineParser{line: 1}

	var lit strings.Builder
	comment, quoted, escaped := false, false, false
	for _, ch := range src {
		p.column++
		if comment && ch != '\n' {
			continue
		}
		if quoted {
			switch {
			case ch == '\n':
				return nil, p.fail("unterminated quoted symbol")
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				quoted = false
				sym, err := strconv.Unquote(`"` + lit.String() + `"`)
				if err != nil {
					return nil, p.fail("invalid quoted symbol")
				}
				p.buf.WriteString(sym)
				lit.Reset()
				continue
			}
			lit.WriteRune(ch)
			continue
		}
		switch ch {
		case ' ', '\t', '\r':
		case '#':
			comment = true
		case '"':
			quoted = true
			p.dirty = true
		case '@':
			if p.dirty {
				p.buf.WriteRune(ch)
				break
			}
			p.header, p.dirty = true, true
		case ':':
			if p.header && p.directive == "" {
				if p.directive = p.take(); p.directive == "" {
					return nil, p.fail("missing directive name")
				}
				break
			}
			p.buf.WriteRune(ch)
		case '\n':
			comment = false
			if err := p.endLine(def, "unexpected newline"); err != nil {
				return nil, err
			}
			p.line++
			p.column = 0
		case ',':
			if err := p.comma(); err != nil {
				return nil, err
			}
		case '>':
			if err := p.arrow(); err != nil {
				return nil, err
			}
		default:
			p.dirty = true
			p.buf.WriteRune(ch)
		}
	}

	p.column++
	if quoted {
		return nil, p.fail("unterminated quoted symbol")
	}
	if err := p.endLine(def, "unexpected end of input"); err != nil {
		return nil, err
	}

	if def.Initial == "" && len(def.Transitions) > 0 {
		def.Initial = def.Transitions[0].From
	}
	return def, nil
}

// Load parses src and validates it into a Table.
func Load(name, src string) (*domain.Table, error) {
	def, err := ParseString(name, src)
	if err != nil {
		return nil, err
	}
	return domain.NewTable(*def)
}

func (p *lineParser) fail(msg string) error {
	return &ParseError{Line: p.line, Column: p.column, Message: msg}
}

func (p *lineParser) take() string {
	s := p.buf.String()
	p.buf.Reset()
	return s
}

func (p *lineParser) comma() error {
	p.dirty = true
	if p.header {
		return p.headerArg()
	}
	switch p.phase {
	case phaseState:
		p.state = p.take()
		if p.state == "" {
			return p.fail("empty state")
		}
		p.phase = phaseInput
	case phaseInput:
		in := p.take()
		if in == "" {
			return p.fail("empty input symbol")
		}
		p.inputs = append(p.inputs, in)
	case phaseNext:
		p.next = p.take()
		if p.next == "" {
			return p.fail("empty next state")
		}
		p.phase = phaseOutput
	case phaseOutput:
		return p.fail("expected newline, got ','")
	}
	return nil
}

func (p *lineParser) arrow() error {
	p.dirty = true
	if p.header || p.phase != phaseInput {
		return p.fail("unexpected '>'")
	}
	in := p.take()
	if in == "" {
		return p.fail("empty input symbol")
	}
	p.inputs = append(p.inputs, in)
	p.phase = phaseNext
	return nil
}

// endLine finishes the current rule or header. Blank and comment-only lines
// yield nothing.
func (p *lineParser) endLine(def *domain.Definition, msg string) error {
	if !p.dirty {
		return nil
	}
	if p.header {
		return p.endHeader(def)
	}
	if p.phase != phaseOutput {
		return p.fail(msg)
	}
	out := p.take()
	for _, in := range p.inputs {
		def.Transitions = append(def.Transitions, domain.Transition{
			From:   domain.State(p.state),
			Input:  in,
			To:     domain.State(p.next),
			Output: out,
		})
	}
	p.reset()
	return nil
}

func (p *lineParser) headerArg() error {
	if p.directive == "" {
		return p.fail("expected ':' after directive")
	}
	arg := p.take()
	if arg == "" {
		return p.fail("empty state")
	}
	p.inputs = append(p.inputs, arg)
	return nil
}

func (p *lineParser) endHeader(def *domain.Definition) error {
	if err := p.headerArg(); err != nil {
		return err
	}
	switch p.directive {
	case "initial":
		if len(p.inputs) != 1 {
			return p.fail("@initial takes exactly one state")
		}
		if def.Initial != "" {
			return p.fail("duplicate @initial")
		}
		def.Initial = domain.State(p.inputs[0])
	case "states":
		for _, s := range p.inputs {
			def.States = append(def.States, domain.State(s))
		}
	default:
		return p.fail(fmt.Sprintf("unknown directive @%s", p.directive))
	}
	p.reset()
	return nil
}

func (p *lineParser) reset() {
	p.phase = phaseState
	p.state, p.next, p.inputs, p.dirty = "", "", nil, false
	p.header, p.directive = false, ""
}

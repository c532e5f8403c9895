package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/mealy/pkg/domain"
	"github.com/aretw0/mealy/pkg/ports"
)

// Mask replaces every redacted match.
const Mask = "***"

type redactMiddleware struct {
	next     ports.RunStore
	patterns []*regexp.Regexp
}

// NewRedactMiddleware creates a middleware that masks every match of the
// patterns in the stored input, output and error. Trace states are kept.
// It panics on an invalid pattern; use CompilePatterns to validate first.
func NewRedactMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.RunStore) ports.RunStore {
		return &redactMiddleware{next: next, patterns: patterns}
	}
}

// CompilePatterns reports the first invalid pattern.
func CompilePatterns(patternStrings []string) error {
	for _, p := range patternStrings {
		if _, err := regexp.Compile(p); err != nil {
			return err
		}
	}
	return nil
}

func (m *redactMiddleware) Save(ctx context.Context, rec *domain.RunRecord) error {
	// Copy so the caller's record is left untouched.
	cloned := *rec
	cloned.Result.Trace = append([]domain.TraceEntry(nil), rec.Result.Trace...)

	cloned.Input = m.mask(cloned.Input)
	cloned.Result.Output = m.mask(cloned.Result.Output)
	cloned.Error = m.mask(cloned.Error)
	for i := range cloned.Result.Trace {
		cloned.Result.Trace[i].Input = m.mask(cloned.Result.Trace[i].Input)
		cloned.Result.Trace[i].Output = m.mask(cloned.Result.Trace[i].Output)
	}

	return m.next.Save(ctx, &cloned)
}

func (m *redactMiddleware) Load(ctx context.Context, id string) (*domain.RunRecord, error) {
	return m.next.Load(ctx, id)
}

func (m *redactMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *redactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *redactMiddleware) mask(s string) string {
	for _, p := range m.patterns {
		s = p.ReplaceAllString(s, Mask)
	}
	return s
}

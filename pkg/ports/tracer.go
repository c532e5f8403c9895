package ports

import "github.com/aretw0/mealy/pkg/domain"

// Tracer receives the transition trace of a run.
// Record is called once per successful step, in order, before the step's
// output is appended to the run's result.
type Tracer interface {
	Record(from, to domain.State)
}

// NopTracer discards every record.
type NopTracer struct{}

// Record implements Tracer.
func (NopTracer) Record(domain.State, domain.State) {}

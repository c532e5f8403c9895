package domain

import (
	"errors"
	"time"
)

// TraceEntry records one transition taken during a run.
type TraceEntry struct {
	From     State  `json:"from"`
	To       State  `json:"to"`
	Input    string `json:"input"`
	Output   string `json:"output"`
	Position int    `json:"position"`
}

// String renders the entry the way the diagnostic channel prints it.
func (e TraceEntry) String() string {
	return string(e.From) + " -> " + string(e.To)
}

// Result is the outcome of running one line through a table.
// On failure it holds everything produced before the engine got stuck.
type Result struct {
	Output   string       `json:"output"`
	Trace    []TraceEntry `json:"trace"`
	Final    State        `json:"final"`
	Consumed int          `json:"consumed"`
}

// TraceLines returns the trace as "<from> -> <to>" strings.
func (r *Result) TraceLines() []string {
	lines := make([]string, len(r.Trace))
	for i, e := range r.Trace {
		lines[i] = e.String()
	}
	return lines
}

// RunRecord is the persisted outcome of a run.
type RunRecord struct {
	ID        string    `json:"id"`
	Table     string    `json:"table"`
	Input     string    `json:"input"`
	Result    Result    `json:"result"`
	Error     string    `json:"error,omitempty"`
	Stuck     bool      `json:"stuck,omitempty"`
	State     State     `json:"state,omitempty"`
	Position  int       `json:"position,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	// Sealed carries the encrypted record when the store encrypts at rest.
	Sealed string `json:"sealed,omitempty"`
}

// NewRunRecord captures a run's result and error into a record.
func NewRunRecord(id, table, input string, res *Result, err error) *RunRecord {
	rec := &RunRecord{
		ID:        id,
		Table:     table,
		Input:     input,
		CreatedAt: time.Now().UTC(),
	}
	if res != nil {
		rec.Result = *res
		rec.Result.Trace = append([]TraceEntry(nil), res.Trace...)
	}
	if err != nil {
		rec.Error = err.Error()
		var stuck *StuckError
		if errors.As(err, &stuck) {
			rec.Stuck = true
			rec.State = stuck.State
			rec.Position = stuck.Position
		}
	}
	return rec
}

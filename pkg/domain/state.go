package domain

// State is a label from the finite set declared by a Table.
// Only equality is meaningful; the engine never inspects the label.
type State string

// String returns the label.
func (s State) String() string {
	return string(s)
}

// StateSet is an ordered set of states. Order is the declaration order.
type StateSet struct {
	order []State
	index map[State]int
}

// NewStateSet builds a set from the given states, keeping first occurrences.
func NewStateSet(states ...State) *StateSet {
	set := &StateSet{index: make(map[State]int, len(states))}
	for _, s := range states {
		set.Add(s)
	}
	return set
}

// Add inserts s if absent and reports whether it was added.
func (s *StateSet) Add(state State) bool {
	if _, ok := s.index[state]; ok {
		return false
	}
	s.index[state] = len(s.order)
	s.order = append(s.order, state)
	return true
}

// Contains reports whether state belongs to the set.
func (s *StateSet) Contains(state State) bool {
	_, ok := s.index[state]
	return ok
}

// Len returns the number of states.
func (s *StateSet) Len() int {
	return len(s.order)
}

// Slice returns a copy of the states in declaration order.
func (s *StateSet) Slice() []State {
	out := make([]State, len(s.order))
	copy(out, s.order)
	return out
}

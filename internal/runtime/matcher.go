package runtime

import (
	"strings"

	"github.com/aretw0/mealy/pkg/domain"
)

// Match finds the transition that applies to state and the remaining input.
//
// Transitions are scanned in declaration order and the first one leaving state
// whose input is a literal prefix of remaining wins. Declaration order, not
// symbol length, breaks ties: an earlier short symbol shadows a later long one.
// The boolean is false when nothing applies.
func Match(table *domain.Table, state domain.State, remaining string) (domain.Transition, bool) {
	for _, i := range table.From(state) {
		t := table.At(i)
		if strings.HasPrefix(remaining, t.Input) {
			return t, true
		}
	}
	return domain.Transition{}, false
}

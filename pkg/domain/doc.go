/*
Package domain contains the core domain models of the Mealy transducer.

It defines the transition table and the values a run produces. The package is kept pure and
free of I/O or persistence concerns; loaders, stores and front ends live in adapters.

# Key Entities

  - State: A label from the closed set a table declares.
  - Transition: One rule mapping (state, input symbol) to (next state, output symbol).
  - Table: An immutable, validated, ordered sequence of transitions with an initial state.
  - Result: The output, trace and final state of one run over one line.
  - RunRecord: The persisted outcome of a run, used by stores and front ends.
*/
package domain

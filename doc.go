/*
Package mealy is a table-driven Mealy machine transducer.

A machine is described by a transition table: a closed set of states, an
initial state and an ordered list of transitions (state, input symbol) ->
(next state, output symbol). Input symbols are literal strings of any positive
length. The engine consumes a line symbol by symbol, starting from the initial
state every time, and produces the concatenated output together with a trace of
the states it went through.

# Tables

Tables are data. They can be written in the line format

	# state, input > next, output
	s0, 00 > s0, 0
	s0, 11 > s1, 0

in YAML, in JSON, built in Go with the dsl package, or taken from the builtin
set in the tables package (binary-addition and gum-machine). Every table is
validated once when it is loaded: unknown states, empty symbols and duplicate
(state, symbol) pairs are rejected.

# Matching

At each step the first transition leaving the current state whose input is a
prefix of the remaining line is taken. Declaration order breaks ties. When
nothing matches, the run stops with a *domain.StuckError and the partial result.

# Usage

	eng, err := mealy.Builtin("binary-addition", mealy.WithTracer(trace.NewWriter(os.Stderr)))
	if err != nil {
		log.Fatal(err)
	}

	res, err := eng.Run(ctx, "1100")
	if err != nil {
		log.Printf("error: %v", err)
	}
	fmt.Println(res.Output) // 01
*/
package mealy

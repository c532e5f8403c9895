/*
Package dsl reads, writes and builds Mealy transition tables.

Three forms are supported.

The line format, one rule per line, where several inputs may share a rule:

	# binary addition, least significant bit first
	s0, 00 > s0, 0
	s0, 01, 10 > s0, 1
	s0, 11 > s1, 0

Spaces, tabs and carriage returns are ignored, so symbols cannot contain them, nor
',', '>' or '#'. The output after the last comma may be empty. The initial state is
the source state of the first rule.

The YAML format, decoded with gopkg.in/yaml.v3 and mapstructure:

	name: binary-addition
	initial: s0
	transitions:
	  - {from: s0, input: "00", to: s0, output: "0"}
	  - {from: s0, inputs: ["01", "10"], to: s0, output: "1"}

And a fluent builder for tables written in Go:

	table, err := dsl.New("binary-addition").
		From("s0").On("00").To("s0", "0").
		From("s0").On("01", "10").To("s0", "1").
		Build()
*/
package dsl

package mealy_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/mealy"
	"github.com/aretw0/mealy/pkg/dsl"
	"github.com/aretw0/mealy/pkg/trace"
)

// ExampleBuiltin runs the serial binary adder: 1+1 then 0+0 with the carry.
func ExampleBuiltin() {
	eng, err := mealy.Builtin("binary-addition", mealy.WithTracer(trace.NewWriter(os.Stdout)))
	if err != nil {
		log.Fatal(err)
	}

	res, err := eng.Run(context.Background(), "1100")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Output)
	// Output:
	// s0 -> s1
	// s1 -> s0
	// 01
}

// ExampleNew builds a table in Go instead of loading it from a file.
func ExampleNew() {
	table, err := dsl.New("parity").
		From("even").On("1").To("odd", "o").
		From("even").On("0").To("even", "e").
		From("odd").On("1").To("even", "e").
		From("odd").On("0").To("odd", "o").
		Build()
	if err != nil {
		log.Fatal(err)
	}

	eng, err := mealy.New(table)
	if err != nil {
		log.Fatal(err)
	}

	res, _ := eng.Run(context.Background(), "1101")
	fmt.Println(res.Output, res.Final)

	_, err = eng.Run(context.Background(), "12")
	fmt.Println(err)
	// Output:
	// oeeo odd
	// no transition from state "odd" at position 1 (remaining "2")
}

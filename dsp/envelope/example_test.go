package envelope_test

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/envelope"
)

func ExampleADSR_Process() {
	env, err := envelope.New(0.1, 0.1, 0.5, 0.2)
	if err != nil {
		panic(err)
	}

	for _, t := range []float64{0, 0.05, 0.1, 0.15, 0.5} {
		fmt.Printf("held t=%.2f: %.2f\n", t, env.Process(t, 0))
	}
	fmt.Printf("released t=0.60: %.2f\n", env.Process(0.6, 0.5))
	fmt.Printf("released t=0.70: %.2f finished=%v\n", env.Process(0.7, 0.5), env.Finished())
	// Output:
	// held t=0.00: 0.00
	// held t=0.05: 0.50
	// held t=0.10: 1.00
	// held t=0.15: 0.75
	// held t=0.50: 0.50
	// released t=0.60: 0.25
	// released t=0.70: 0.00 finished=true
}

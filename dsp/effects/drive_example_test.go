package effects_test

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/effects"
)

func ExampleDrive() {
	d, err := effects.NewDrive(effects.WithDriveDelay(2))
	if err != nil {
		panic(err)
	}

	for _, x := range []float64{1, 1, 1, 1} {
		fmt.Printf("%.4f ", d.ProcessSample(x))
	}
	fmt.Println()
	// Output:
	// 0.0000 0.0000 0.7616 0.7616
}

// NMRPeakMatch - 2D NMR mixture analysis tool
package main

import (
	"fmt"
	"os"

	"github.com/tanmaydutta/NMRPeakMatch/cmd/nmrpeaks/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Command parsearch benchmarks hyper-parameter search strategies, sequential
// against parallel and exhaustive against randomized, on built-in datasets.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

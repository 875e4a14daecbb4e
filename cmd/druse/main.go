// Command druse generates crystal polyhedra from the command line.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "druse:", err)
		os.Exit(1)
	}
}

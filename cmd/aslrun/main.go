// Command aslrun drives the ASL semantic core over named test fixtures —
// there is no parser in this module (§1 Non-goals), so "a program" here
// means a name registered in internal/fixtures, not a source file.
package main

import (
	"fmt"
	"os"

	"github.com/arm-asl/aslcore/cmd/aslrun/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

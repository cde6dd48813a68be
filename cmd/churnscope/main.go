// main is the entry point for the churnscope CLI.
package main

import (
	"fmt"
	"os"

	"github.com/churnlab/churnscope/cmd"
	"github.com/churnlab/churnscope/internal/snapstore"
)

func main() {
	err := cmd.Execute()
	snapstore.CloseStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

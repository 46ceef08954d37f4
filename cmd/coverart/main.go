// Command coverart views and edits the title, artist and cover art of MP3
// files.
package main

import (
	"fmt"
	"os"

	"github.com/simonhull/coverart/internal/command"
)

func main() {
	if err := command.App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

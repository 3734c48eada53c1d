// Command slicer cuts an image into horizontal bands along guide lines
// without starting the GUI.
package main

import (
	"fmt"
	"os"

	"image-splitter/cmd/slicer/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

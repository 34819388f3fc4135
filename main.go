package main

import (
	"fmt"
	"os"

	"github.com/lazycopy/lazycopy/internal/cmd"
	"github.com/lazycopy/lazycopy/internal/output"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(output.ExitCodeForError(err))
	}
}

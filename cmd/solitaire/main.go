// ABOUTME: CLI entrypoint for local terminal solitaire.
// ABOUTME: Runs the Bubble Tea table in alt-screen mode.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Craz6yDev/MM-207/tui"
)

var version = "dev"

func main() {
	fs := flag.NewFlagSet("solitaire", flag.ContinueOnError)
	showVersion := fs.Bool("version", false, "Print version and exit")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if *showVersion {
		fmt.Printf("solitaire %s\n", version)
		os.Exit(0)
	}

	p := tea.NewProgram(tui.NewModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

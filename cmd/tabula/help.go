package main

import (
	"fmt"

	"github.com/tabula-dev/tabula/internal/cli"
)

// CommandInfo describes one command for the categorized help output.
type CommandInfo struct {
	Name string
	Desc string
}

// CommandCategory groups related commands in the help output.
type CommandCategory struct {
	Title    string
	Commands []CommandInfo
}

// FlagInfo describes one global flag for the help output.
type FlagInfo struct {
	Flag string
	Desc string
}

// renderCategoryHelp prints the styled root help message.
func renderCategoryHelp(title, tagline string, categories []CommandCategory, flags []FlagInfo) {
	fmt.Println()
	fmt.Println("  " + cli.Header(title))
	fmt.Println("  " + cli.Dim(tagline))
	fmt.Println()

	// Find the widest command name for alignment.
	width := 0
	for _, cat := range categories {
		for _, c := range cat.Commands {
			if len(c.Name) > width {
				width = len(c.Name)
			}
		}
	}

	for _, cat := range categories {
		fmt.Println("  " + cli.Highlight(cat.Title))
		for _, c := range cat.Commands {
			fmt.Printf("    %s  %s\n", cli.Success(padName(c.Name, width)), c.Desc)
		}
		fmt.Println()
	}

	fmt.Println("  " + cli.Highlight("Flags"))
	flagWidth := 0
	for _, f := range flags {
		if len(f.Flag) > flagWidth {
			flagWidth = len(f.Flag)
		}
	}
	for _, f := range flags {
		fmt.Printf("    %-*s  %s\n", flagWidth, f.Flag, f.Desc)
	}
	fmt.Println()
	fmt.Println("  Use \"tabula <command> --help\" for more information about a command.")
}

// padName pads a command name before styling so ANSI codes don't break
// the printf width calculation.
func padName(name string, width int) string {
	for len(name) < width {
		name += " "
	}
	return name
}

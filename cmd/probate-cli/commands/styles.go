package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	infoColor    = lipgloss.Color("#0969DA")
	successColor = lipgloss.Color("#2DA44E")
	errorColor   = lipgloss.Color("#CF222E")
	dimColor     = lipgloss.Color("#6E7681")

	infoStyle = lipgloss.NewStyle().
			Foreground(infoColor).
			SetString("•")
	successStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)
	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)
	dimStyle = lipgloss.NewStyle().
			Foreground(dimColor)
)

func printInfo(message string) {
	fmt.Println(infoStyle.Render(message))
}

func printSuccess(message string) {
	fmt.Println(successStyle.Render("✓ " + message))
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("✗ "+err.Error()))
}

// statusReporter prints the progress of a scrape as status lines.
type statusReporter struct{}

func (statusReporter) Status(ctx context.Context, message string) {
	printInfo(message)
}

func (statusReporter) Progress(ctx context.Context, done, total int) {
	fmt.Println(dimStyle.Render(fmt.Sprintf("  scraped case %d of %d", done, total)))
}

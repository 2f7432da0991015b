package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/shashwat0010/streamify-chat-app/internal/logger"
)

var (
	primary = lipgloss.Color("#22d3ee")
	success = lipgloss.Color("#10B981")
	danger  = lipgloss.Color("#EF4444")
	muted   = lipgloss.Color("#6B7280")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(primary)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(success)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(danger)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
)

func printTitle(s string) {
	fmt.Println(titleStyle.Render(s))
}

func printSuccess(s string) {
	fmt.Println(successStyle.Render("✓ " + s))
}

func printInfo(s string) {
	fmt.Println(mutedStyle.Render(s))
}

func printError(s string) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("✗ "+s))
}

func newLogger() *zap.Logger {
	level := "warn"
	if flagDebug {
		level = "debug"
	}
	log, err := logger.New(level, "console", "wbclient")
	if err != nil {
		return zap.NewNop()
	}
	return log
}

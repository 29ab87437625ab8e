package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/liutizhong/PBChatbot/chat"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	botStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

// terminalTarget renders an exchange onto one terminal line, rewriting it
// in place as reply fragments arrive.
type terminalTarget struct {
	w     io.Writer
	label string
}

func newTerminalTarget(w io.Writer) *terminalTarget {
	return &terminalTarget{w: w, label: botStyle.Render("bot>") + " "}
}

func (t *terminalTarget) Fragment(text string) {
	fmt.Fprint(t.w, "\r\x1b[K"+t.label+text)
}

func (t *terminalTarget) Final(text string) {
	fmt.Fprint(t.w, "\r\x1b[K"+t.label+text+"\n")
}

func (t *terminalTarget) Error(kind chat.ErrorKind, message string) {
	// The diagnostics block arrives as extra lines; indent it under the
	// error line.
	lines := strings.Split(message, "\n")
	fmt.Fprint(t.w, "\r\x1b[K"+errorStyle.Render("error ("+string(kind)+"): "+lines[0])+"\n")
	for _, line := range lines[1:] {
		fmt.Fprintln(t.w, faintStyle.Render("  "+line))
	}
}

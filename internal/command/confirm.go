// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/tfctl/tfstrap/internal/log"
)

var warnStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("9"))

// Confirm gates a destructive operation behind a y/N prompt. force skips
// the prompt entirely. A non-interactive stdin declines: scripted runs must
// opt in with --force rather than inherit a hanging or accidental yes.
func Confirm(prompt string, force bool) bool {
	if force {
		log.Debugf("confirmation bypassed by --force")
		return true
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		log.Warnf("stdin is not a terminal; declining (use --force to confirm non-interactively)")
		return false
	}
	return confirmOn(os.Stdin, os.Stdout, prompt)
}

// confirmOn reads one line from in and accepts anything starting with y/Y.
func confirmOn(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", warnStyle.Render(prompt))
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y")
}

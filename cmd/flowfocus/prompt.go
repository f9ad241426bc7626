package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/adanyl0v/flowfocus/internal/ui"
)

// linePrompter asks questions one line at a time. End of input counts
// as cancelling.
type linePrompter struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

func newLinePrompter(in io.Reader, out io.Writer) *linePrompter {
	return &linePrompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (p *linePrompter) Alert(message string) {
	fmt.Fprintln(p.out, ui.Yellow(message))
}

// Prompt shows the current value in brackets. An empty answer keeps it.
func (p *linePrompter) Prompt(message, defaultValue string) (string, bool) {
	if defaultValue != "" {
		fmt.Fprintf(p.out, "%s [%s] ", message, ui.Dim(defaultValue))
	} else {
		fmt.Fprintf(p.out, "%s ", message)
	}

	line, ok := p.readLine()
	if !ok {
		return "", false
	}
	if strings.TrimSpace(line) == "" {
		return defaultValue, true
	}
	return line, true
}

func (p *linePrompter) Confirm(message string) bool {
	if p.assumeYes {
		return true
	}
	fmt.Fprintf(p.out, "%s [y/N] ", message)

	line, ok := p.readLine()
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (p *linePrompter) readLine() (string, bool) {
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		fmt.Fprintln(p.out)
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/trezcool/scuola/core/guard"
)

// prompter asks questions on out and reads the answers, one per line, from in.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

var _ guard.Confirmer = (*prompter)(nil)

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// Ask prints question and returns the trimmed answer.
// io.EOF is only returned when nothing at all could be read.
func (p *prompter) Ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		fmt.Fprintln(p.out)
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm implements guard.Confirmer. Anything but an explicit yes declines.
func (p *prompter) Confirm(message string) bool {
	answer, err := p.Ask(message + " [s/N] ")
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "s", "si", "sì", "y", "yes":
		return true
	}
	return false
}

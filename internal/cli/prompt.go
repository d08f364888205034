package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// lineReader reads trimmed lines from the command's input.
type lineReader struct {
	scanner *bufio.Scanner
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{scanner: bufio.NewScanner(r)}
}

// Next returns the next line and false at end of input.
func (l *lineReader) Next() (string, bool) {
	if !l.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(l.scanner.Text()), true
}

// promptConfirmer asks on out and accepts y/yes from in.
type promptConfirmer struct {
	in  *lineReader
	out io.Writer
}

func (p promptConfirmer) Confirm(_ context.Context, prompt string) bool {
	fmt.Fprintf(p.out, "%s [y/N] ", prompt)
	line, ok := p.in.Next()
	if !ok {
		return false
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true
	}
	return false
}

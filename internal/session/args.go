package session

import (
	"fmt"

	"github.com/mattn/go-shellwords"
)

// splitArgs splits a command line the way a POSIX shell does: single or
// double quotes group words and a backslash escapes the next character.
// Unquoted shell operators (; & | < >) are rejected rather than dropped.
func splitArgs(line string) ([]string, error) {
	p := shellwords.NewParser()
	args, err := p.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if p.Position >= 0 {
		return nil, fmt.Errorf("%w: quote %q to use it in an argument", ErrUsage, line[p.Position:p.Position+1])
	}
	return args, nil
}

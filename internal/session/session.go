// Package session dispatches user commands to a Ledger and prints the
// results. One Session lives for one interactive or scripted run.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cleared-dev/tally/internal/amount"
	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/render"
)

var (
	// ErrUnknownCommand is returned for a command name Exec does not know.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUsage is returned when a command has missing or malformed arguments.
	ErrUsage = errors.New("usage")
	// ErrInvalidID is returned when a transaction ID argument does not parse.
	ErrInvalidID = errors.New("invalid transaction ID")
	// ErrQuit is returned by Exec for quit/exit.
	ErrQuit = errors.New("quit")
)

const helpText = `commands:
  add <amount> <category> [description...]   record a transaction
  delete <id>                                remove a transaction (alias: rm)
  show <id>                                  show transaction details
  list                                       list all transactions
  total                                      show the total
  export [file]                              write transactions as CSV
  help                                       show this help
  quit                                       end the session (alias: exit)

arguments split on whitespace; quote them to keep spacing or use & ; | < >:
  add -40 "food & drink" "weekly   groceries"`

// Session binds a ledger to an output.
type Session struct {
	id     string
	ledger *ledger.Ledger
	render *render.Renderer
	out    io.Writer
	log    zerolog.Logger
}

// New creates a Session with a fresh session ID.
func New(l *ledger.Ledger, r *render.Renderer, out io.Writer, log zerolog.Logger) *Session {
	sid := uuid.NewString()
	return &Session{
		id:     sid,
		ledger: l,
		render: r,
		out:    out,
		log:    log.With().Str("session", sid).Logger(),
	}
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// RunOptions controls Run.
type RunOptions struct {
	Prompt    string // printed before each line when non-empty
	KeepGoing bool   // report command errors and continue instead of stopping
}

// Run executes commands read from in, one per line, until EOF, quit or
// ctx is done. Blank lines and lines starting with '#' are skipped.
func (s *Session) Run(ctx context.Context, in io.Reader, opts RunOptions) error {
	r := bufio.NewReader(in)
	lineNo := 0
	for {
		if opts.Prompt != "" {
			fmt.Fprint(s.out, opts.Prompt)
		}
		raw, readErr := r.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("reading commands: %w", readErr)
		}
		if readErr != nil && raw == "" {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++

		if err := s.execLine(raw, lineNo, opts); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
		if readErr != nil {
			return nil
		}
	}
}

// execLine runs one input line. Command failures are returned only when
// opts.KeepGoing is false.
func (s *Session) execLine(raw string, lineNo int, opts RunOptions) error {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	err := s.Exec(line)
	if err == nil || errors.Is(err, ErrQuit) {
		return err
	}
	s.log.Warn().Err(err).Int("line", lineNo).Msg("command failed")
	if !opts.KeepGoing {
		return fmt.Errorf("line %d: %w", lineNo, err)
	}
	fmt.Fprintf(s.out, "error: %v\n", err)
	return nil
}

// Exec parses and executes one command line.
func (s *Session) Exec(line string) error {
	args, err := splitArgs(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}

	name, rest := strings.ToLower(args[0]), args[1:]
	s.log.Debug().Str("command", name).Strs("args", rest).Msg("exec")

	switch name {
	case "add":
		return s.add(rest)
	case "delete", "rm":
		return s.remove(rest)
	case "show":
		return s.show(rest)
	case "list":
		return s.list()
	case "total":
		return s.total()
	case "export":
		return s.export(rest)
	case "help":
		return s.println(helpText)
	case "quit", "exit":
		return ErrQuit
	default:
		return fmt.Errorf("%w %q (try help)", ErrUnknownCommand, name)
	}
}

func (s *Session) add(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: add <amount> <category> [description...]", ErrUsage)
	}
	amt, err := amount.Parse(args[0])
	if err != nil {
		return err
	}
	txn := s.ledger.Add(amt, args[1], strings.Join(args[2:], " "))

	if err := s.println(strings.Join(s.render.Row(txn), " | ")); err != nil {
		return err
	}
	return s.total()
}

func (s *Session) remove(args []string) error {
	txnID, err := parseID(args)
	if err != nil {
		return err
	}
	if !s.ledger.Remove(txnID) {
		return s.println(fmt.Sprintf("transaction %s not found", id.Format(txnID)))
	}
	if err := s.println(fmt.Sprintf("removed transaction %s", id.Format(txnID))); err != nil {
		return err
	}
	return s.total()
}

func (s *Session) show(args []string) error {
	txnID, err := parseID(args)
	if err != nil {
		return err
	}
	txn, ok := s.ledger.Describe(txnID)
	if !ok {
		return s.println(fmt.Sprintf("transaction %s not found", id.Format(txnID)))
	}
	return s.println(strings.Join(s.render.Detail(txn), "\n"))
}

func (s *Session) list() error {
	if err := s.ledger.Validate(); err != nil {
		return fmt.Errorf("ledger inconsistent: %w", err)
	}
	if err := s.render.Table(s.out, s.ledger.All()); err != nil {
		return err
	}
	return s.total()
}

func (s *Session) total() error {
	return s.println(s.render.Total(s.ledger.Total()))
}

func (s *Session) export(args []string) error {
	if len(args) == 0 {
		return ledger.WriteCSV(s.out, s.ledger.All())
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: export [file]", ErrUsage)
	}

	path := args[0]
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := ledger.WriteCSV(f, s.ledger.All()); err != nil {
		f.Close()
		return fmt.Errorf("exporting to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}

	s.log.Info().Str("path", path).Int("transactions", s.ledger.Len()).Msg("exported")
	return s.println(fmt.Sprintf("exported %d transactions to %s", s.ledger.Len(), path))
}

func (s *Session) println(text string) error {
	if _, err := fmt.Fprintln(s.out, text); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func parseID(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: expected exactly one transaction ID", ErrUsage)
	}
	n, err := id.Parse(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	return n, nil
}

package session

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/amount"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/render"
)

var when = time.Date(2025, 3, 14, 9, 5, 7, 0, time.UTC)

func newSession(t *testing.T) (*Session, *ledger.Ledger, *bytes.Buffer) {
	t.Helper()
	l := ledger.New(ledger.WithClock(func() time.Time { return when }))
	var out bytes.Buffer
	s := New(l, render.New(config.Default().Display), &out, zerolog.Nop())
	return s, l, &out
}

func TestNew_SessionID(t *testing.T) {
	s, _, _ := newSession(t)
	_, err := uuid.Parse(s.ID())
	require.NoError(t, err)

	other, _, _ := newSession(t)
	assert.NotEqual(t, s.ID(), other.ID())
}

func TestExec_Add(t *testing.T) {
	s, l, out := newSession(t)

	require.NoError(t, s.Exec("add 100 salary monthly pay"))
	assert.Equal(t, "1 | 14.03.2025, 09:05:07 | salary | mont... | Удалить\nВсего: 100.00 MDL\n", out.String())

	txn, ok := l.Describe(1)
	require.True(t, ok)
	assert.Equal(t, "monthly pay", txn.Description)
}

func TestExec_AddQuotedAndEmpty(t *testing.T) {
	s, l, _ := newSession(t)

	require.NoError(t, s.Exec(`add -3,50 "food & drink" "coffee  beans"`))
	require.NoError(t, s.Exec(`add 0 misc`))

	txn, ok := l.Describe(1)
	require.True(t, ok)
	assert.Equal(t, "food & drink", txn.Category)
	assert.Equal(t, "coffee  beans", txn.Description)
	assert.Equal(t, "-3.50", txn.Amount.StringFixed(2))

	txn, ok = l.Describe(2)
	require.True(t, ok)
	assert.Empty(t, txn.Description)
}

func TestExec_AddErrors(t *testing.T) {
	s, l, _ := newSession(t)

	err := s.Exec("add abc food")
	assert.ErrorIs(t, err, amount.ErrInvalidAmount)

	err = s.Exec("add 10")
	assert.ErrorIs(t, err, ErrUsage)

	assert.Equal(t, 0, l.Len(), "rejected input must not be stored")
}

func TestExec_Delete(t *testing.T) {
	s, l, out := newSession(t)
	require.NoError(t, s.Exec("add 100 salary"))
	require.NoError(t, s.Exec("add -40 food"))
	out.Reset()

	require.NoError(t, s.Exec("delete 1"))
	assert.Equal(t, "removed transaction 1\nВсего: -40.00 MDL\n", out.String())
	assert.Equal(t, 1, l.Len())

	out.Reset()
	require.NoError(t, s.Exec("rm #1"))
	assert.Equal(t, "transaction 1 not found\n", out.String())
	assert.Equal(t, 1, l.Len())
}

func TestExec_DeleteErrors(t *testing.T) {
	s, _, _ := newSession(t)

	assert.ErrorIs(t, s.Exec("delete"), ErrUsage)
	assert.ErrorIs(t, s.Exec("delete 1 2"), ErrUsage)
	assert.ErrorIs(t, s.Exec("delete x"), ErrInvalidID)
	assert.ErrorIs(t, s.Exec("show 0"), ErrInvalidID)
}

func TestExec_Show(t *testing.T) {
	s, _, out := newSession(t)
	require.NoError(t, s.Exec("add -40 food groceries"))
	out.Reset()

	require.NoError(t, s.Exec("show 1"))
	assert.Equal(t, strings.Join([]string{
		"ID: 1",
		"Категория: food",
		"Описание: groceries",
		"Сумма: -40.00 MDL",
		"Дата транзакции: 14.03.2025, 09:05:07",
	}, "\n")+"\n", out.String())

	out.Reset()
	require.NoError(t, s.Exec("show 9"))
	assert.Equal(t, "transaction 9 not found\n", out.String())
}

func TestExec_ListAndTotal(t *testing.T) {
	s, _, out := newSession(t)
	require.NoError(t, s.Exec("add 100 salary"))
	require.NoError(t, s.Exec("add -40 food"))
	out.Reset()

	require.NoError(t, s.Exec("list"))
	lines := nonBlankLines(out.String())
	require.Len(t, lines, 4, "header + 2 rows + total")
	assert.Contains(t, lines[1], "salary")
	assert.Contains(t, lines[2], "food")
	assert.Equal(t, "Всего: 60.00 MDL", lines[3])

	out.Reset()
	require.NoError(t, s.Exec("TOTAL"))
	assert.Equal(t, "Всего: 60.00 MDL\n", out.String())
}

func nonBlankLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func TestExec_DescriptionSpacing(t *testing.T) {
	s, l, out := newSession(t)

	require.NoError(t, s.Exec("add 5 cat a   b\tc"))
	require.NoError(t, s.Exec("add 5 cat \"a   b\tc\""))

	txn, ok := l.Describe(1)
	require.True(t, ok)
	assert.Equal(t, "a b c", txn.Description, "unquoted words are joined by one space")

	txn, ok = l.Describe(2)
	require.True(t, ok)
	assert.Equal(t, "a   b\tc", txn.Description)

	out.Reset()
	require.NoError(t, s.Exec("help"))
	assert.Contains(t, out.String(), "quote them to keep spacing")
}

func TestExec_UnquotedOperator(t *testing.T) {
	s, l, _ := newSession(t)

	assert.ErrorIs(t, s.Exec("add -12 food fish & chips"), ErrUsage)
	assert.Equal(t, 0, l.Len(), "a truncated description must not be stored")
}

func TestExec_Export(t *testing.T) {
	s, _, out := newSession(t)
	require.NoError(t, s.Exec("add 100 salary monthly pay"))
	out.Reset()

	require.NoError(t, s.Exec("export"))
	assert.Equal(t, ledger.Header+"\n1,2025-03-14T09:05:07Z,100.00,salary,monthly pay\n", out.String())

	path := filepath.Join(t.TempDir(), "session.csv")
	out.Reset()
	require.NoError(t, s.Exec("export "+path))
	assert.Contains(t, out.String(), "exported 1 transactions")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), ledger.Header))

	assert.ErrorIs(t, s.Exec("export a b"), ErrUsage)
	assert.Error(t, s.Exec("export "+filepath.Join(t.TempDir(), "missing", "x.csv")))
}

func TestExec_Misc(t *testing.T) {
	s, _, out := newSession(t)

	require.NoError(t, s.Exec("   "))
	require.NoError(t, s.Exec("help"))
	assert.Contains(t, out.String(), "add <amount>")

	assert.ErrorIs(t, s.Exec("quit"), ErrQuit)
	assert.ErrorIs(t, s.Exec("exit"), ErrQuit)
	assert.ErrorIs(t, s.Exec("frobnicate"), ErrUnknownCommand)
	assert.ErrorIs(t, s.Exec(`add 1 "open`), ErrUsage)
}

func TestRun_Scenario(t *testing.T) {
	s, l, out := newSession(t)
	script := `# monthly budget
add 100 salary "monthly pay"
add -40 food groceries

delete 1
show 2
delete 1
`
	require.NoError(t, s.Run(context.Background(), strings.NewReader(script), RunOptions{}))

	assert.Equal(t, 1, l.Len())
	assert.Equal(t, "-40.00", l.Total().StringFixed(2))
	assert.Contains(t, out.String(), "Описание: groceries")
	assert.Contains(t, out.String(), "transaction 1 not found")

	txn := l.Add(l.Total(), "next", "")
	assert.Equal(t, 3, txn.ID)
}

func TestRun_StopsAtFirstError(t *testing.T) {
	s, l, _ := newSession(t)
	script := "add 1 a\nadd nope b\nadd 2 c\n"

	err := s.Run(context.Background(), strings.NewReader(script), RunOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.ErrorIs(t, err, amount.ErrInvalidAmount)
	assert.Equal(t, 1, l.Len())
}

func TestRun_KeepGoing(t *testing.T) {
	s, l, out := newSession(t)
	script := "add 1 a\nadd nope b\nadd 2 c\n"

	require.NoError(t, s.Run(context.Background(), strings.NewReader(script), RunOptions{KeepGoing: true, Prompt: "> "}))
	assert.Equal(t, 2, l.Len())
	assert.Contains(t, out.String(), "error: invalid amount")
	assert.True(t, strings.HasPrefix(out.String(), "> "))
}

func TestRun_LongLine(t *testing.T) {
	s, l, _ := newSession(t)
	long := strings.Repeat("x", 70000)
	script := "add 1 a first\nadd 2 b " + long + "\nadd 3 c third\n"

	require.NoError(t, s.Run(context.Background(), strings.NewReader(script), RunOptions{KeepGoing: true}))
	require.Equal(t, 3, l.Len())

	txn, ok := l.Describe(2)
	require.True(t, ok)
	assert.Equal(t, long, txn.Description)
}

func TestRun_LastLineWithoutNewline(t *testing.T) {
	s, l, _ := newSession(t)

	require.NoError(t, s.Run(context.Background(), strings.NewReader("add 1 a\nadd 2 b"), RunOptions{}))
	assert.Equal(t, 2, l.Len())
}

func TestRun_Quit(t *testing.T) {
	s, l, _ := newSession(t)
	script := "add 1 a\nquit\nadd 2 b\n"

	require.NoError(t, s.Run(context.Background(), strings.NewReader(script), RunOptions{}))
	assert.Equal(t, 1, l.Len())
}

func TestRun_Cancelled(t *testing.T) {
	s, l, _ := newSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Run(ctx, strings.NewReader("add 1 a\n"), RunOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, l.Len())
}

func TestRun_LogsFailures(t *testing.T) {
	var logBuf bytes.Buffer
	l := ledger.New()
	s := New(l, render.New(config.Default().Display), &bytes.Buffer{}, zerolog.New(&logBuf))

	require.NoError(t, s.Run(context.Background(), strings.NewReader("bogus\n"), RunOptions{KeepGoing: true}))
	assert.Contains(t, logBuf.String(), `"message":"command failed"`)
	assert.Contains(t, logBuf.String(), `"session":"`+s.ID()+`"`)
	assert.Contains(t, logBuf.String(), `"line":1`)
}

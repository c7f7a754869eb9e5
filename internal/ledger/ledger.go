package ledger

import (
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// Ledger holds the transactions of one session in insertion order.
// It is not safe for concurrent use.
type Ledger struct {
	txns    []model.Transaction
	counter int
	clock   func() time.Time
	log     zerolog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the time source used to stamp new transactions.
func WithClock(clock func() time.Time) Option {
	return func(l *Ledger) { l.clock = clock }
}

// WithLogger sets the logger for ledger mutations.
func WithLogger(log zerolog.Logger) Option {
	return func(l *Ledger) { l.log = log }
}

// New creates an empty Ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		clock: time.Now,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Add records a new transaction and returns it. IDs start at 1 and are never reused.
func (l *Ledger) Add(amount decimal.Decimal, category, description string) model.Transaction {
	l.counter++
	txn := model.Transaction{
		ID:          l.counter,
		Date:        l.clock(),
		Amount:      amount,
		Category:    category,
		Description: description,
	}
	l.txns = append(l.txns, txn)

	l.log.Debug().
		Int("id", txn.ID).
		Str("amount", amount.String()).
		Str("category", category).
		Msg("transaction added")
	return txn
}

// Remove deletes the transaction with the given id.
// It reports whether anything was removed; an unknown id is a no-op.
func (l *Ledger) Remove(id int) bool {
	i := l.Index(id)
	if i < 0 {
		return false
	}
	l.txns = slices.Delete(l.txns, i, i+1)

	l.log.Debug().Int("id", id).Int("row", i).Msg("transaction removed")
	return true
}

// Total returns the exact sum of all amounts. An empty ledger totals zero.
func (l *Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, txn := range l.txns {
		total = total.Add(txn.Amount)
	}
	return total
}

// Describe returns the transaction with the given id.
func (l *Ledger) Describe(id int) (model.Transaction, bool) {
	for _, txn := range l.txns {
		if txn.ID == id {
			return txn, true
		}
	}
	return model.Transaction{}, false
}

// Index returns the display row of the transaction with the given id, or -1.
func (l *Ledger) Index(id int) int {
	for i, txn := range l.txns {
		if txn.ID == id {
			return i
		}
	}
	return -1
}

// All returns a copy of the transactions in display order.
func (l *Ledger) All() []model.Transaction {
	out := make([]model.Transaction, len(l.txns))
	copy(out, l.txns)
	return out
}

// Len returns the number of transactions currently held.
func (l *Ledger) Len() int {
	return len(l.txns)
}

// Validate checks that ids are positive, strictly increasing in display
// order and never above the last issued id.
func (l *Ledger) Validate() error {
	prev := 0
	for i, txn := range l.txns {
		if txn.ID <= prev {
			return fmt.Errorf("row %d: id %d not greater than previous id %d", i, txn.ID, prev)
		}
		if txn.ID > l.counter {
			return fmt.Errorf("row %d: id %d was never issued (last issued %d)", i, txn.ID, l.counter)
		}
		prev = txn.ID
	}
	return nil
}

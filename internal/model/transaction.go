package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a transaction by the sign of its amount.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
	KindNeutral Kind = "neutral"
)

// Transaction is a single ledger record. It is never mutated after creation.
type Transaction struct {
	ID          int
	Date        time.Time
	Amount      decimal.Decimal // negative = expense, positive = income
	Category    string
	Description string
}

// Kind returns income, expense or neutral (zero amount).
func (t Transaction) Kind() Kind {
	switch t.Amount.Sign() {
	case 1:
		return KindIncome
	case -1:
		return KindExpense
	default:
		return KindNeutral
	}
}

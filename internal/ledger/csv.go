package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cleared-dev/tally/internal/model"
)

// Header is the CSV header of an exported session.
const Header = "id,date,amount,category,description"

const (
	numFields = 5
	colID     = 0
	colDate   = 1
	colAmount = 2
	colCat    = 3
	colDesc   = 4
)

// WriteCSV writes txns (including header) to w.
func WriteCSV(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(txn model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = strconv.Itoa(txn.ID)
	row[colDate] = txn.Date.Format(time.RFC3339)
	row[colAmount] = txn.Amount.StringFixed(2)
	row[colCat] = txn.Category
	row[colDesc] = txn.Description
	return row
}

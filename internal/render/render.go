// Package render turns ledger transactions into table rows, the total line
// and the detail view.
package render

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
)

const ellipsis = "..."

// Renderer formats transactions according to the display settings.
type Renderer struct {
	cfg config.DisplayConfig
}

// New creates a Renderer. A negative TruncateAt is treated as zero, which
// shows every non-empty description as "...".
func New(cfg config.DisplayConfig) *Renderer {
	if cfg.TruncateAt < 0 {
		cfg.TruncateAt = 0
	}
	return &Renderer{cfg: cfg}
}

// Row returns the table cells for t: id, date, category, short description
// and the delete caption.
func (r *Renderer) Row(t model.Transaction) []string {
	return []string{
		id.Format(t.ID),
		t.Date.Format(r.cfg.DateLayout),
		t.Category,
		r.Truncate(t.Description),
		r.cfg.Labels.Delete,
	}
}

// Header returns the column captions matching Row.
func (r *Renderer) Header() []string {
	l := r.cfg.Labels
	return []string{l.ID, l.Date, l.Category, l.Description, ""}
}

// Truncate shortens s to TruncateAt runes followed by "..." when it is longer.
func (r *Renderer) Truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= r.cfg.TruncateAt {
		return s
	}
	return string(runes[:r.cfg.TruncateAt]) + ellipsis
}

// Money formats an amount with two decimals and the currency label.
func (r *Renderer) Money(d decimal.Decimal) string {
	return d.StringFixed(2) + " " + r.cfg.Currency
}

// Total returns the total line, e.g. "Всего: 60.00 MDL".
func (r *Renderer) Total(total decimal.Decimal) string {
	return fmt.Sprintf("%s: %s", r.cfg.Labels.Total, r.Money(total))
}

// Detail returns the lines of the detail view for t.
func (r *Renderer) Detail(t model.Transaction) []string {
	l := r.cfg.Labels
	return []string{
		fmt.Sprintf("%s: %d", l.ID, t.ID),
		fmt.Sprintf("%s: %s", l.Category, t.Category),
		fmt.Sprintf("%s: %s", l.Description, t.Description),
		fmt.Sprintf("%s: %s", l.Amount, r.Money(t.Amount)),
		fmt.Sprintf("%s: %s", l.TxnDate, t.Date.Format(r.cfg.DateLayout)),
	}
}

// Table writes the header and one aligned line per transaction. The last
// column marks income with "+" and expense with "-".
func (r *Renderer) Table(w io.Writer, txns []model.Transaction) error {
	cw := &errWriter{w: w}

	table := tablewriter.NewWriter(cw)
	table.SetHeader(append(r.Header(), ""))
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, t := range txns {
		table.Append(append(r.Row(t), kindMarker(t.Kind())))
	}
	table.Render()

	if cw.err != nil {
		return fmt.Errorf("writing table: %w", cw.err)
	}
	return nil
}

// errWriter keeps the first write error; tablewriter discards them.
type errWriter struct {
	w   io.Writer
	err error
}

func (c *errWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.err = err
	return n, err
}

func kindMarker(k model.Kind) string {
	switch k {
	case model.KindIncome:
		return "+"
	case model.KindExpense:
		return "-"
	default:
		return ""
	}
}

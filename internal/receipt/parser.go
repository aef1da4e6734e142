// Package receipt parses Banrisul bill-payment receipt text. Each logical
// record spans seven lines (date, reference number, status, amount, operation,
// account, complement); records are reassembled with a line-buffering state
// machine keyed on the leading date of the next record.
package receipt

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"financas/pkg/money"
)

// Status classifies the Situação field.
type Status string

const (
	// StatusPaid marks a completed payment ("EFETUADA").
	StatusPaid Status = "EFETUADA"
	// StatusOther covers every other status printed by the bank.
	StatusOther Status = "OUTRA"
)

// Entry is one bill-payment confirmation.
type Entry struct {
	Date            time.Time       `json:"date"`
	ReferenceNumber string          `json:"reference_number"`
	Status          Status          `json:"status"`
	Amount          decimal.Decimal `json:"amount"`
	Operation       string          `json:"operation"`
	Account         string          `json:"account"`
	Complement      string          `json:"complement"`
}

// Result holds the extracted records plus the count of rows dropped because a
// field failed to parse.
type Result struct {
	Entries []Entry `json:"entries"`
	Dropped int     `json:"dropped"`
}

// recordFields is the fixed arity of a receipt record.
const recordFields = 7

// statusHeader opens the status legend section that precedes the footer.
const statusHeader = "Situação"

var datePrefix = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`)

// Parse reassembles records from the receipt line stream. A line opening with
// a date commits the current buffer (when complete) and starts the next one;
// the status-section header commits and resets; any other non-empty line
// appends to the buffer. A trailing complete buffer commits at end of stream.
// The final committed record is footer noise in this layout and is dropped.
func Parse(lines []string) *Result {
	var records [][]string
	var buffer []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		switch {
		case datePrefix.MatchString(line):
			// An incomplete buffer here is a malformed leading fragment;
			// it is replaced rather than committed.
			if len(buffer) >= recordFields {
				records = append(records, buffer[:recordFields])
			}
			buffer = []string{line}
		case strings.HasPrefix(line, statusHeader) && len(buffer) >= recordFields:
			records = append(records, buffer[:recordFields])
			buffer = nil
		case line != "":
			buffer = append(buffer, line)
		}
	}
	if len(buffer) >= recordFields {
		records = append(records, buffer[:recordFields])
	}

	res := &Result{}
	for _, fields := range records {
		entry, ok := buildEntry(fields)
		if !ok {
			res.Dropped++
			continue
		}
		res.Entries = append(res.Entries, entry)
	}

	// The document always ends with a footer fragment that commits like a
	// regular record; the last entry is never a transaction.
	if n := len(res.Entries); n > 0 {
		res.Entries = res.Entries[:n-1]
	}
	return res
}

// buildEntry maps the seven buffered lines onto an Entry. Rows whose amount
// or date cannot be parsed are dropped rather than failing the document.
func buildEntry(fields []string) (Entry, bool) {
	date, err := money.ParseDate(datePrefix.FindString(fields[0]))
	if err != nil {
		return Entry{}, false
	}

	amount, err := money.ParseBRLCurrency(fields[3])
	if err != nil {
		return Entry{}, false
	}

	return Entry{
		Date:            date,
		ReferenceNumber: fields[1],
		Status:          statusOf(fields[2]),
		Amount:          amount,
		Operation:       fields[4],
		Account:         fields[5],
		Complement:      trimComplement(fields[6]),
	}, true
}

func statusOf(s string) Status {
	if strings.EqualFold(strings.TrimSpace(s), string(StatusPaid)) {
		return StatusPaid
	}
	return StatusOther
}

// trimComplement keeps the text preceding a trailing " - " separator; the
// bank appends routing noise after it on some layouts.
func trimComplement(s string) string {
	if i := strings.LastIndex(s, " - "); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}

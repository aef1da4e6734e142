// Package statement parses monthly bank statement text into dated line items.
//
// Statement rows print the day-of-month only on the first row of each day, a
// space-padded description, a six-digit document id and a Brazilian-locale
// amount with a trailing "-" for debits. The statement's month and year appear
// only in the document header, so the period is anchored once per document.
package statement

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"financas/pkg/money"
)

// ErrUnknownPeriod is returned when neither the month/year header token nor
// the previous-balance anchor is present. Every row's date depends on the
// period, so this is fatal for the whole document.
var ErrUnknownPeriod = errors.New("statement period not found")

// Entry is one transaction row. Day is zero when the row appeared before any
// day token in the document; such rows also carry a zero Date. Amount is
// signed, negative meaning debit.
type Entry struct {
	Date        time.Time       `json:"date"`
	Day         int             `json:"day"`
	Description string          `json:"description"`
	DocumentID  string          `json:"document_id"`
	Amount      decimal.Decimal `json:"amount"`
}

// Period is the statement's anchored month.
type Period struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// Result holds the extracted rows plus the count of rows dropped because
// their amount failed to parse.
type Result struct {
	Period  Period  `json:"period"`
	Entries []Entry `json:"entries"`
	Dropped int     `json:"dropped"`
}

var (
	// Optional 2-digit day, description terminated by a run of 2+ spaces,
	// 6-digit document id, amount with optional trailing negative marker.
	// The separator after the day stays on the row's own line so digits at
	// the end of the previous line (the header year included) are never
	// picked up as a day token.
	rowPattern = regexp.MustCompile(`(?:(\d{2})[ \t]+)?([A-ZÀ-Ü ./]+?)\s{2,}(\d{6})\s+([\d.,]+-?)`)

	// "MARÇO/2025" style header token naming the statement period.
	headerPattern = regexp.MustCompile(`(?i)(JANEIRO|FEVEREIRO|MARÇO|MARCO|ABRIL|MAIO|JUNHO|JULHO|AGOSTO|SETEMBRO|OUTUBRO|NOVEMBRO|DEZEMBRO)\s*/\s*(\d{4})`)

	// "SALDO ANTERIOR ... DD/MM/YYYY" carried-balance anchor; the statement
	// covers the month following this date.
	previousBalancePattern = regexp.MustCompile(`(?i)SALDO\s+ANTERIOR\D*(\d{2}/\d{2}/\d{4})`)
)

var monthNames = map[string]time.Month{
	"JANEIRO":   time.January,
	"FEVEREIRO": time.February,
	"MARÇO":     time.March,
	"MARCO":     time.March,
	"ABRIL":     time.April,
	"MAIO":      time.May,
	"JUNHO":     time.June,
	"JULHO":     time.July,
	"AGOSTO":    time.August,
	"SETEMBRO":  time.September,
	"OUTUBRO":   time.October,
	"NOVEMBRO":  time.November,
	"DEZEMBRO":  time.December,
}

// Automatic investment sweeps are internal transfers, not economic events.
var autoTransferDescriptions = map[string]struct{}{
	"APLIC.AUTOM.":  {},
	"RESGATE AUTOM": {},
}

// Parse extracts all transaction rows from raw statement text. The day token
// carries forward across rows until the next one appears; if the first matched
// row has no day token its Day stays zero.
func Parse(text string) (*Result, error) {
	period, err := resolvePeriod(text)
	if err != nil {
		return nil, err
	}

	res := &Result{Period: period}
	day := 0

	for _, m := range rowPattern.FindAllStringSubmatch(text, -1) {
		if m[1] != "" {
			day, _ = strconv.Atoi(m[1])
		}

		desc := strings.TrimSpace(m[2])
		if _, denied := autoTransferDescriptions[desc]; denied {
			continue
		}

		amount, err := money.ParseBRL(m[4])
		if err != nil {
			res.Dropped++
			continue
		}

		entry := Entry{
			Day:         day,
			Description: desc,
			DocumentID:  m[3],
			Amount:      amount,
		}
		if day > 0 {
			entry.Date = time.Date(period.Year, period.Month, day, 0, 0, 0, 0, time.UTC)
		}
		res.Entries = append(res.Entries, entry)
	}

	return res, nil
}

// resolvePeriod anchors the statement month. The explicit header token wins;
// the previous-balance date only implies the period (first day of the month
// after it), so it is the fallback.
func resolvePeriod(text string) (Period, error) {
	if m := headerPattern.FindStringSubmatch(text); m != nil {
		month := monthNames[strings.ToUpper(m[1])]
		year, err := strconv.Atoi(m[2])
		if err == nil {
			return Period{Year: year, Month: month}, nil
		}
	}

	if m := previousBalancePattern.FindStringSubmatch(text); m != nil {
		anchor, err := money.ParseDate(m[1])
		if err == nil {
			next := time.Date(anchor.Year(), anchor.Month()+1, 1, 0, 0, 0, 0, time.UTC)
			return Period{Year: next.Year(), Month: next.Month()}, nil
		}
	}

	return Period{}, ErrUnknownPeriod
}

// String renders the period as "MM/YYYY".
func (p Period) String() string {
	return fmt.Sprintf("%02d/%d", int(p.Month), p.Year)
}

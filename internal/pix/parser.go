// Package pix extracts instant-payment records from Banrisul PIX statements.
//
// The PDF prints each record as free-form wrapped text, so extraction works
// over a whitespace-normalized blob rather than lines. The grammar is a
// best-effort heuristic tuned to this bank's layout; it lives behind Parse so
// it can be swapped without touching callers. The pre-extracted CSV table is
// the alternate source (see csv.go).
package pix

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"financas/pkg/money"
)

// Direction tells whether the money left or entered the account. The parsed
// amount itself is always non-negative; the sign is carried here.
type Direction string

const (
	Sent     Direction = "SENT"
	Received Direction = "RECEIVED"
)

// Entry is one PIX transfer.
type Entry struct {
	OperationStatus   string          `json:"operation_status"`
	CounterpartyName  string          `json:"counterparty_name"`
	CounterpartyTaxID string          `json:"counterparty_tax_id"`
	Date              time.Time       `json:"date"`
	Amount            decimal.Decimal `json:"amount"`
	Direction         Direction       `json:"direction"`
}

// Result holds the extracted records plus the count of matches dropped
// because a field failed to convert.
type Result struct {
	Entries []Entry `json:"entries"`
	Dropped int     `json:"dropped"`
}

var (
	// A hyphen straight before a line break is a wrap artifact; tokens
	// (tax ids included) can be split mid-token.
	hyphenWrap = regexp.MustCompile(`-\s*\n`)
	whitespace = regexp.MustCompile(`\s+`)

	// "Pix" marker, two-word operation status, de/para preposition bounding
	// the counterparty name, CPF or CNPJ, date, currency amount — in that
	// fixed order. Spans that do not match are skipped.
	recordPattern = regexp.MustCompile(
		`(?i)Pix\s+(\w+)\s+(\w+)\s+(?:de|para)\s+(.+?)\s+` +
			`(\d{3}\.\d{3}\.\d{3}-\d{2}|\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2})\s+` +
			`(\d{2}/\d{2}/\d{4})\s+` +
			`R\$ ?([\d.,]+)`)
)

// Normalize rejoins hyphen-wrapped tokens and collapses every remaining line
// break and whitespace run to a single space, producing the token stream the
// record grammar scans.
func Normalize(blob string) string {
	blob = hyphenWrap.ReplaceAllString(blob, "")
	blob = whitespace.ReplaceAllString(blob, " ")
	return strings.TrimSpace(blob)
}

// Parse scans a raw statement blob for transfer records. Only whole-grammar
// matches produce entries; there is no notion of a malformed individual
// record beyond a matched span whose amount or date fails to convert.
func Parse(blob string) *Result {
	res := &Result{}

	for _, m := range recordPattern.FindAllStringSubmatch(Normalize(blob), -1) {
		date, err := money.ParseDate(m[5])
		if err != nil {
			res.Dropped++
			continue
		}
		amount, err := money.ParseBRL(m[6])
		if err != nil {
			res.Dropped++
			continue
		}

		res.Entries = append(res.Entries, Entry{
			OperationStatus:   capitalize(m[1]) + " " + capitalize(m[2]),
			CounterpartyName:  strings.TrimSpace(m[3]),
			CounterpartyTaxID: m[4],
			Date:              date,
			Amount:            amount,
			Direction:         directionOf(m[1]),
		})
	}
	return res
}

// directionOf derives the transfer direction from the first status word.
func directionOf(statusWord string) Direction {
	if strings.EqualFold(statusWord, "recebido") {
		return Received
	}
	return Sent
}

func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

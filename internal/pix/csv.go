package pix

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/gocarina/gocsv"

	"financas/pkg/money"
)

// Row mirrors the columns of the pre-extracted PIX table.
type Row struct {
	Operation    string `csv:"Operação"`
	Status       string `csv:"Situação"`
	Counterparty string `csv:"Pagador/Recebedor"`
	TaxID        string `csv:"CPF/CNPJ"`
	Date         string `csv:"Data"`
	Amount       string `csv:"Valor"`
}

// ParseCSV reads the alternate pre-extracted source. The table repeats its
// header on every page, so header-echo rows are skipped; rows whose date or
// amount fails to convert are dropped and counted.
func ParseCSV(r io.Reader) (*Result, error) {
	var rows []Row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parse pix csv: %w", err)
	}

	res := &Result{}
	for _, row := range rows {
		if row.Operation == "Operação" {
			continue
		}

		date, err := money.ParseDate(row.Date)
		if err != nil {
			res.Dropped++
			continue
		}
		amount, err := money.ParseBRLCurrency(row.Amount)
		if err != nil {
			res.Dropped++
			continue
		}

		res.Entries = append(res.Entries, Entry{
			OperationStatus:   strings.TrimSpace(row.Status),
			CounterpartyName:  CleanCounterparty(row.Counterparty),
			CounterpartyTaxID: strings.TrimSpace(row.TaxID),
			Date:              date,
			Amount:            amount.Abs(),
			Direction:         csvDirection(row.Operation),
		})
	}
	return res, nil
}

// csvDirection reads the direction from the Operação column
// ("Pix Enviado" / "Pix Recebido").
func csvDirection(operation string) Direction {
	if strings.Contains(strings.ToLower(operation), "recebido") {
		return Received
	}
	return Sent
}

// CleanCounterparty strips the "de "/"para " preposition the bank prints in
// front of the counterparty name and title-cases the remainder, so the same
// counterparty keys identically across months.
func CleanCounterparty(name string) string {
	name = strings.TrimSpace(name)
	for _, prefix := range []string{"de ", "para "} {
		if strings.HasPrefix(name, prefix) {
			return titleCase(strings.TrimSpace(strings.TrimPrefix(name, prefix)))
		}
	}
	return name
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

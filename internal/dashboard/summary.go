package dashboard

import (
	"strings"

	"github.com/shopspring/decimal"

	"financas/internal/pix"
	"financas/internal/receipt"
	"financas/pkg/money"
)

// GroupTotal is one aggregation bucket. Display carries the BRL-formatted
// total for rendering.
type GroupTotal struct {
	Key     string          `json:"key"`
	Total   decimal.Decimal `json:"total"`
	Display string          `json:"display"`
}

// Summary is the aggregated view of a MonthData. Buckets keep first-seen
// order, mirroring the order rows appear in the documents.
type Summary struct {
	TotalIn          decimal.Decimal `json:"total_in"`
	TotalOut         decimal.Decimal `json:"total_out"`
	InByForm         []GroupTotal    `json:"in_by_form"`
	OutByForm        []GroupTotal    `json:"out_by_form"`
	PixSent          decimal.Decimal `json:"pix_sent"`
	PixReceived      decimal.Decimal `json:"pix_received"`
	ReceiptsPaid     decimal.Decimal `json:"receipts_paid"`
	PaidByComplement []GroupTotal    `json:"paid_by_complement"`
	DebtTotal        decimal.Decimal `json:"debt_total"`
}

// Summarize aggregates one MonthData. Debts come from the category store and
// are independent of the month.
func (s *Service) Summarize(data *MonthData) (*Summary, error) {
	sum := &Summary{}
	in := newGrouper()
	out := newGrouper()

	for _, e := range data.Statement {
		form := paymentForm(e.Description)
		if e.Amount.IsNegative() {
			sum.TotalOut = sum.TotalOut.Add(e.Amount.Abs())
			out.add(form, e.Amount.Abs())
		} else {
			sum.TotalIn = sum.TotalIn.Add(e.Amount)
			in.add(form, e.Amount)
		}
	}
	sum.InByForm = in.totals()
	sum.OutByForm = out.totals()

	for _, p := range data.Pix {
		if p.Direction == pix.Received {
			sum.PixReceived = sum.PixReceived.Add(p.Amount)
		} else {
			sum.PixSent = sum.PixSent.Add(p.Amount)
		}
	}

	paid := newGrouper()
	for _, r := range data.Receipts {
		if r.Status != receipt.StatusPaid {
			continue
		}
		sum.ReceiptsPaid = sum.ReceiptsPaid.Add(r.Amount)
		paid.add(r.Complement, r.Amount)
	}
	sum.PaidByComplement = paid.totals()

	debts, err := s.store.Debts()
	if err != nil {
		return nil, err
	}
	for _, d := range debts {
		sum.DebtTotal = sum.DebtTotal.Add(d.Amount)
	}
	return sum, nil
}

// paymentForm reduces a statement description to a coarse payment form.
func paymentForm(description string) string {
	upper := strings.ToUpper(strings.TrimSpace(description))
	switch {
	case strings.HasPrefix(upper, "PIX"):
		return "Pix"
	case strings.HasPrefix(upper, "PG"):
		return "Boleto"
	default:
		return titleCase(description)
	}
}

type grouper struct {
	order []string
	sums  map[string]decimal.Decimal
}

func newGrouper() *grouper {
	return &grouper{sums: map[string]decimal.Decimal{}}
}

func (g *grouper) add(key string, amount decimal.Decimal) {
	if _, ok := g.sums[key]; !ok {
		g.order = append(g.order, key)
	}
	g.sums[key] = g.sums[key].Add(amount)
}

func (g *grouper) totals() []GroupTotal {
	out := make([]GroupTotal, 0, len(g.order))
	for _, key := range g.order {
		total := g.sums[key]
		out = append(out, GroupTotal{
			Key:     key,
			Total:   total,
			Display: money.DisplayBRL(total),
		})
	}
	return out
}

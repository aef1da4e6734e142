package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"financas/internal/category"
	"financas/internal/pix"
	"financas/internal/receipt"
	"financas/internal/statement"
)

// ErrUnknownMonth is returned when a requested month label is not in the
// registry.
var ErrUnknownMonth = errors.New("unknown month")

// Extractor pulls text out of a PDF document.
type Extractor interface {
	Text(path string) (string, error)
	Lines(path string) ([]string, error)
}

// PixRecord is a PIX entry joined with its assigned category. Category is
// empty when no mapping exists for the counterparty.
type PixRecord struct {
	pix.Entry
	Category string `json:"category,omitempty"`
}

// ReceiptRecord is a receipt entry joined with its assigned category, keyed
// by the receipt complement.
type ReceiptRecord struct {
	receipt.Entry
	Category string `json:"category,omitempty"`
}

// Dropped counts the rows each parser discarded for one month.
type Dropped struct {
	Statement int `json:"statement"`
	Receipts  int `json:"receipts"`
	Pix       int `json:"pix"`
}

// Warning records a document that was skipped. The rest of the month is
// still processed.
type Warning struct {
	ID      uuid.UUID `json:"id"`
	Path    string    `json:"path"`
	Message string    `json:"message"`
}

// MonthData holds everything parsed for one month (or for all months
// concatenated).
type MonthData struct {
	Label     string            `json:"label"`
	Period    string            `json:"period,omitempty"`
	Statement []statement.Entry `json:"statement"`
	Receipts  []ReceiptRecord   `json:"receipts"`
	Pix       []PixRecord       `json:"pix"`
	Dropped   Dropped           `json:"dropped"`
	Warnings  []Warning         `json:"warnings"`
}

// Service loads and aggregates the monthly documents.
type Service struct {
	registry  Registry
	extractor Extractor
	store     *category.Store
	logger    *slog.Logger
}

func NewService(registry Registry, extractor Extractor, store *category.Store, logger *slog.Logger) *Service {
	return &Service{
		registry:  registry,
		extractor: extractor,
		store:     store,
		logger:    logger,
	}
}

// Months returns the known month labels in chronological order.
func (s *Service) Months() []string {
	return s.registry.Labels()
}

// LoadMonth parses every document of the given month. A document that cannot
// be read or parsed is skipped with a warning; it never fails the month.
func (s *Service) LoadMonth(ctx context.Context, label string) (*MonthData, error) {
	set, ok := s.registry.Find(label)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMonth, label)
	}
	return s.loadSet(ctx, set)
}

// LoadAll parses every month in the registry and concatenates the results in
// registry order.
func (s *Service) LoadAll(ctx context.Context) (*MonthData, error) {
	all := &MonthData{
		Label:     "Todos",
		Statement: []statement.Entry{},
		Receipts:  []ReceiptRecord{},
		Pix:       []PixRecord{},
		Warnings:  []Warning{},
	}
	for _, set := range s.registry {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := s.loadSet(ctx, set)
		if err != nil {
			return nil, err
		}
		all.Statement = append(all.Statement, data.Statement...)
		all.Receipts = append(all.Receipts, data.Receipts...)
		all.Pix = append(all.Pix, data.Pix...)
		all.Dropped.Statement += data.Dropped.Statement
		all.Dropped.Receipts += data.Dropped.Receipts
		all.Dropped.Pix += data.Dropped.Pix
		all.Warnings = append(all.Warnings, data.Warnings...)
	}
	return all, nil
}

func (s *Service) loadSet(ctx context.Context, set DocumentSet) (*MonthData, error) {
	data := &MonthData{
		Label:     set.Label,
		Statement: []statement.Entry{},
		Receipts:  []ReceiptRecord{},
		Pix:       []PixRecord{},
		Warnings:  []Warning{},
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if set.StatementPDF != "" {
		s.loadStatement(set.StatementPDF, data)
	}
	if set.ReceiptPDF != "" {
		s.loadReceipts(set.ReceiptPDF, data)
	}
	if set.PixCSV != "" {
		s.loadPixCSV(set.PixCSV, data)
	} else if set.PixPDF != "" {
		s.loadPixPDF(set.PixPDF, data)
	}
	return data, nil
}

func (s *Service) loadStatement(path string, data *MonthData) {
	text, err := s.extractor.Text(path)
	if err != nil {
		s.warn(data, "statement", path, err)
		return
	}
	result, err := statement.Parse(text)
	if err != nil {
		s.warn(data, "statement", path, err)
		return
	}
	documentsParsed.WithLabelValues("statement").Inc()
	rowsDropped.WithLabelValues("statement").Add(float64(result.Dropped))
	if len(result.Entries) == 0 {
		s.logger.Warn("statement produced no rows, possible layout change", slog.String("path", path))
	}
	data.Period = result.Period.String()
	data.Statement = append(data.Statement, result.Entries...)
	data.Dropped.Statement += result.Dropped
}

func (s *Service) loadReceipts(path string, data *MonthData) {
	lines, err := s.extractor.Lines(path)
	if err != nil {
		s.warn(data, "receipts", path, err)
		return
	}
	result := receipt.Parse(lines)
	documentsParsed.WithLabelValues("receipts").Inc()
	rowsDropped.WithLabelValues("receipts").Add(float64(result.Dropped))
	if len(result.Entries) == 0 {
		s.logger.Warn("receipt bundle produced no rows, possible layout change", slog.String("path", path))
	}

	mappings, err := s.store.ReceiptMappings()
	if err != nil {
		s.logger.Warn("receipt category mappings unavailable", slog.Any("error", err))
		mappings = map[string]string{}
	}
	for _, e := range result.Entries {
		data.Receipts = append(data.Receipts, ReceiptRecord{
			Entry:    e,
			Category: mappings[e.Complement],
		})
	}
	data.Dropped.Receipts += result.Dropped
}

func (s *Service) loadPixCSV(path string, data *MonthData) {
	f, err := os.Open(path)
	if err != nil {
		s.warn(data, "pix", path, err)
		return
	}
	defer f.Close()

	result, err := pix.ParseCSV(f)
	if err != nil {
		s.warn(data, "pix", path, err)
		return
	}
	s.appendPix(path, result, data)
}

func (s *Service) loadPixPDF(path string, data *MonthData) {
	text, err := s.extractor.Text(path)
	if err != nil {
		s.warn(data, "pix", path, err)
		return
	}
	s.appendPix(path, pix.Parse(text), data)
}

func (s *Service) appendPix(path string, result *pix.Result, data *MonthData) {
	documentsParsed.WithLabelValues("pix").Inc()
	rowsDropped.WithLabelValues("pix").Add(float64(result.Dropped))
	if len(result.Entries) == 0 {
		s.logger.Warn("pix document produced no rows, possible layout change", slog.String("path", path))
	}

	mappings, err := s.store.PixMappings()
	if err != nil {
		s.logger.Warn("pix category mappings unavailable", slog.Any("error", err))
		mappings = map[string]string{}
	}
	for _, e := range result.Entries {
		data.Pix = append(data.Pix, PixRecord{
			Entry:    e,
			Category: mappings[e.CounterpartyName],
		})
	}
	data.Dropped.Pix += result.Dropped
}

func (s *Service) warn(data *MonthData, kind, path string, err error) {
	documentsFailed.WithLabelValues(kind).Inc()
	s.logger.Warn("document skipped",
		slog.String("kind", kind),
		slog.String("path", path),
		slog.Any("error", err),
	)
	data.Warnings = append(data.Warnings, Warning{
		ID:      uuid.New(),
		Path:    path,
		Message: err.Error(),
	})
}

// titleCase capitalizes the first letter of each word and lowers the rest.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

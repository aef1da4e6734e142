// Package category manages the user-maintained category data: the category
// list, the key→category mapping tables joined against parsed records, and
// the manual debt rows. Everything persists as plain files in a config
// directory; parsed records are never stored.
package category

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// ErrDuplicateCategory is returned when adding a category that already exists.
var ErrDuplicateCategory = errors.New("category already exists")

// ErrBlankCategory is returned when adding an empty category name.
var ErrBlankCategory = errors.New("category name is blank")

const (
	categoriesFile      = "categorias.txt"
	pixMappingsFile     = "categorias_pix.csv"
	receiptMappingsFile = "categorias_boletos.csv"
	debtsFile           = "dividas.csv"
)

// PixMapping associates a PIX counterparty with a category.
type PixMapping struct {
	Counterparty string `csv:"Pagador/Recebedor" json:"counterparty"`
	Category     string `csv:"Categoria" json:"category"`
}

// ReceiptMapping associates a receipt complement with a category.
type ReceiptMapping struct {
	Complement string `csv:"Complemento" json:"complement"`
	Category   string `csv:"Categoria" json:"category"`
}

// Debt is a manually tracked debt row.
type Debt struct {
	Description string          `csv:"Descricao" json:"description"`
	Amount      decimal.Decimal `csv:"Valor" json:"amount"`
}

// Store reads and writes the category files under a config directory.
// Missing files read as empty; they are created on first save.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore creates a store over the given config directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Categories returns the category list, blank lines stripped.
func (s *Store) Categories() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.dir, categoriesFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}

	var categories []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			categories = append(categories, line)
		}
	}
	return categories, nil
}

// AddCategory appends a new category to the list. Blank names and duplicates
// are rejected.
func (s *Store) AddCategory(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrBlankCategory
	}

	existing, err := s.Categories()
	if err != nil {
		return err
	}
	for _, c := range existing {
		if strings.EqualFold(c, name) {
			return fmt.Errorf("%w: %s", ErrDuplicateCategory, name)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(filepath.Join(s.dir, categoriesFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("append category: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s\n", name); err != nil {
		return fmt.Errorf("append category: %w", err)
	}
	return nil
}

// PixMappings returns the counterparty→category table as a lookup map.
func (s *Store) PixMappings() (map[string]string, error) {
	var rows []PixMapping
	if err := s.readCSV(pixMappingsFile, &rows); err != nil {
		return nil, err
	}

	mappings := make(map[string]string, len(rows))
	for _, row := range rows {
		mappings[row.Counterparty] = row.Category
	}
	return mappings, nil
}

// SavePixMappings replaces the counterparty→category table.
func (s *Store) SavePixMappings(rows []PixMapping) error {
	return s.writeCSV(pixMappingsFile, &rows)
}

// ReceiptMappings returns the complement→category table as a lookup map.
func (s *Store) ReceiptMappings() (map[string]string, error) {
	var rows []ReceiptMapping
	if err := s.readCSV(receiptMappingsFile, &rows); err != nil {
		return nil, err
	}

	mappings := make(map[string]string, len(rows))
	for _, row := range rows {
		mappings[row.Complement] = row.Category
	}
	return mappings, nil
}

// SaveReceiptMappings replaces the complement→category table.
func (s *Store) SaveReceiptMappings(rows []ReceiptMapping) error {
	return s.writeCSV(receiptMappingsFile, &rows)
}

// Debts returns the manual debt rows.
func (s *Store) Debts() ([]Debt, error) {
	var rows []Debt
	if err := s.readCSV(debtsFile, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SaveDebts replaces the debt rows.
func (s *Store) SaveDebts(rows []Debt) error {
	return s.writeCSV(debtsFile, &rows)
}

func (s *Store) readCSV(name string, out interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	if err := gocsv.UnmarshalFile(f, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (s *Store) writeCSV(name string, rows interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(rows, f); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

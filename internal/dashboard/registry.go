package dashboard

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DocumentSet groups the documents of one month: the bank statement, the
// receipt bundle, and the PIX source (the pre-extracted CSV when available,
// otherwise the PDF). Empty paths mean the document does not exist for that
// month.
type DocumentSet struct {
	Label        string `json:"label"`
	StatementPDF string `json:"-"`
	ReceiptPDF   string `json:"-"`
	PixCSV       string `json:"-"`
	PixPDF       string `json:"-"`
}

// Registry is the ordered list of months known to the dashboard. Order is
// chronological and is the concatenation order for the all-months view.
type Registry []DocumentSet

const (
	statementsDir = "extratos"
	receiptsDir   = "boletos"
	pixDir        = "pix"
)

var monthOrder = map[string]time.Month{
	"janeiro":   time.January,
	"fevereiro": time.February,
	"marco":     time.March,
	"março":     time.March,
	"abril":     time.April,
	"maio":      time.May,
	"junho":     time.June,
	"julho":     time.July,
	"agosto":    time.August,
	"setembro":  time.September,
	"outubro":   time.October,
	"novembro":  time.November,
	"dezembro":  time.December,
}

// ScanDataDir builds the registry from a data directory laid out as
// extratos/<month><yy>.pdf, boletos/<month><yy>.pdf and pix/<month><yy>.csv
// (or .pdf). A month exists when any of the three documents does.
func ScanDataDir(dir string) (Registry, error) {
	stems := map[string]struct{}{}

	collect := func(sub, ext string) error {
		entries, err := os.ReadDir(filepath.Join(dir, sub))
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("scan %s: %w", sub, err)
		}
		for _, e := range entries {
			name := e.Name()
			if strings.HasSuffix(name, ext) {
				stems[strings.TrimSuffix(name, ext)] = struct{}{}
			}
		}
		return nil
	}

	if err := collect(statementsDir, ".pdf"); err != nil {
		return nil, err
	}
	if err := collect(receiptsDir, ".pdf"); err != nil {
		return nil, err
	}
	if err := collect(pixDir, ".csv"); err != nil {
		return nil, err
	}
	if err := collect(pixDir, ".pdf"); err != nil {
		return nil, err
	}

	registry := make(Registry, 0, len(stems))
	for stem := range stems {
		set := DocumentSet{Label: labelFor(stem)}
		set.StatementPDF = existing(filepath.Join(dir, statementsDir, stem+".pdf"))
		set.ReceiptPDF = existing(filepath.Join(dir, receiptsDir, stem+".pdf"))
		set.PixCSV = existing(filepath.Join(dir, pixDir, stem+".csv"))
		if set.PixCSV == "" {
			set.PixPDF = existing(filepath.Join(dir, pixDir, stem+".pdf"))
		}
		registry = append(registry, set)
	}

	sort.Slice(registry, func(i, j int) bool {
		yi, mi, oki := parseStemLabel(registry[i].Label)
		yj, mj, okj := parseStemLabel(registry[j].Label)
		if oki != okj {
			return oki
		}
		if !oki {
			return registry[i].Label < registry[j].Label
		}
		if yi != yj {
			return yi < yj
		}
		return mi < mj
	})
	return registry, nil
}

// Find returns the document set with the given label.
func (r Registry) Find(label string) (DocumentSet, bool) {
	for _, set := range r {
		if set.Label == label {
			return set, true
		}
	}
	return DocumentSet{}, false
}

// Labels returns the month labels in registry order.
func (r Registry) Labels() []string {
	labels := make([]string, len(r))
	for i, set := range r {
		labels[i] = set.Label
	}
	return labels
}

func existing(path string) string {
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// labelFor converts a file stem like "agosto24" into "Agosto 2024".
func labelFor(stem string) string {
	name, yy := splitStem(stem)
	if _, ok := monthOrder[name]; !ok || yy == "" {
		return stem
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return fmt.Sprintf("%s 20%s", string(runes), yy)
}

// parseStemLabel recovers (year, month) from a "Agosto 2024" label.
func parseStemLabel(label string) (int, time.Month, bool) {
	name, yearStr, found := strings.Cut(label, " ")
	if !found {
		return 0, 0, false
	}
	month, ok := monthOrder[strings.ToLower(name)]
	if !ok {
		return 0, 0, false
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return 0, 0, false
	}
	return year, month, true
}

func splitStem(stem string) (name, yy string) {
	i := strings.IndexFunc(stem, unicode.IsDigit)
	if i < 0 {
		return stem, ""
	}
	return stem[:i], stem[i:]
}

// Package extract wraps the PDF text-extraction backend behind the two shapes
// the document parsers consume: a single concatenated blob, or the line
// sequence in page-traversal order.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrDocumentUnreadable marks a source file that could not be opened or
// extracted from. Batch callers are expected to skip the document and record
// a warning instead of aborting.
var ErrDocumentUnreadable = errors.New("document unreadable")

// Adapter extracts text from PDF documents. The zero value is ready to use.
type Adapter struct{}

// Text returns the concatenated text of every page, in page order. No
// page-boundary marker is inserted between pages.
func (Adapter) Text(path string) (string, error) {
	var b strings.Builder

	err := eachPage(path, func(_ int, text string) {
		b.WriteString(text)
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// Lines returns every extracted line, page by page in traversal order.
// Page boundaries are not marked.
func (Adapter) Lines(path string) ([]string, error) {
	var lines []string

	err := eachPage(path, func(_ int, text string) {
		for _, line := range strings.Split(text, "\n") {
			if line != "" {
				lines = append(lines, line)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// eachPage opens the document, walks its pages in order and guarantees the
// file handle is released on every path.
func eachPage(path string, visit func(page int, text string)) error {
	f, r, err := pdf.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDocumentUnreadable, path, err)
	}
	defer f.Close()

	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return fmt.Errorf("%w: %s: page %d: %v", ErrDocumentUnreadable, path, i, err)
		}
		visit(i, text)
	}
	return nil
}

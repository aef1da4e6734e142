package extract

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// DumpLines writes every extracted line of the document to w, one output line
// per source line, with a page marker before each page. When savePath is
// non-empty the bare lines (no page markers) are also written there, so the
// dump can be diffed against earlier runs when the parser grammar drifts.
func (a Adapter) DumpLines(path string, w io.Writer, savePath string) error {
	var all []string

	err := eachPage(path, func(page int, text string) {
		fmt.Fprintf(w, "--- page %d ---\n", page)
		for _, line := range strings.Split(text, "\n") {
			if line == "" {
				continue
			}
			fmt.Fprintln(w, line)
			all = append(all, line)
		}
	})
	if err != nil {
		return err
	}

	if savePath != "" {
		data := strings.Join(all, "\n") + "\n"
		if err := os.WriteFile(savePath, []byte(data), 0o644); err != nil {
			return fmt.Errorf("write debug dump: %w", err)
		}
	}
	return nil
}

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"financas/internal/extract"
	"financas/internal/pix"
	"financas/pkg/money"
)

// pdf2csv converts PIX statement PDFs into the CSV layout the dashboard
// prefers. Every *.pdf in the input directory is converted; unreadable files
// are skipped with a warning so one bad download never stops the batch.
func main() {
	dir := flag.String("dir", ".", "directory with PIX statement PDFs")
	debug := flag.Bool("debug", false, "dump extracted lines instead of converting")
	dumpPath := flag.String("dump", os.Getenv("DEBUG_DUMP_PATH"),
		"also save dumped lines to this file (with -debug)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	entries, err := os.ReadDir(*dir)
	if err != nil {
		logger.Error("read input dir", slog.Any("error", err))
		os.Exit(1)
	}

	adapter := &extract.Adapter{}
	converted := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".pdf") {
			continue
		}
		path := filepath.Join(*dir, entry.Name())

		if *debug {
			if err := adapter.DumpLines(path, os.Stdout, *dumpPath); err != nil {
				logger.Warn("dump failed", slog.String("path", path), slog.Any("error", err))
			}
			continue
		}

		if err := convert(adapter, path, logger); err != nil {
			logger.Warn("file skipped", slog.String("path", path), slog.Any("error", err))
			continue
		}
		converted++
	}

	if !*debug {
		logger.Info("done", slog.Int("converted", converted))
	}
}

func convert(adapter *extract.Adapter, path string, logger *slog.Logger) error {
	text, err := adapter.Text(path)
	if err != nil {
		return err
	}

	result := pix.Parse(text)
	if len(result.Entries) == 0 {
		return fmt.Errorf("no pix records found")
	}
	if result.Dropped > 0 {
		logger.Warn("rows dropped", slog.String("path", path), slog.Int("dropped", result.Dropped))
	}

	rows := make([]pix.Row, 0, len(result.Entries))
	for _, e := range result.Entries {
		rows = append(rows, toRow(e))
	}

	outPath := strings.TrimSuffix(path, ".pdf") + ".csv"
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	return gocsv.MarshalFile(&rows, out)
}

func toRow(e pix.Entry) pix.Row {
	operation := "Pix Enviado"
	counterparty := "para " + e.CounterpartyName
	if e.Direction == pix.Received {
		operation = "Pix Recebido"
		counterparty = "de " + e.CounterpartyName
	}
	return pix.Row{
		Operation:    operation,
		Status:       e.OperationStatus,
		Counterparty: counterparty,
		TaxID:        e.CounterpartyTaxID,
		Date:         e.Date.Format(money.DateLayout),
		Amount:       "R$ " + money.FormatBRL(e.Amount),
	}
}

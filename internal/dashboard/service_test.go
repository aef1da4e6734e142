package dashboard

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financas/internal/category"
	"financas/internal/pix"
	"financas/internal/receipt"
	"financas/internal/statement"
)

// fakeExtractor serves canned text keyed by path.
type fakeExtractor struct {
	texts map[string]string
	lines map[string][]string
}

func (f *fakeExtractor) Text(path string) (string, error) {
	text, ok := f.texts[path]
	if !ok {
		return "", fmt.Errorf("unreadable: %s", path)
	}
	return text, nil
}

func (f *fakeExtractor) Lines(path string) ([]string, error) {
	lines, ok := f.lines[path]
	if !ok {
		return nil, fmt.Errorf("unreadable: %s", path)
	}
	return lines, nil
}

const statementText = "EXTRATO DE CONTA CORRENTE\nAGOSTO/2024\n" +
	"05  PIX TRANSFERENCIA  111111  1.000,00\n" +
	"12  PG BOLETO CONDOMINIO  222222  450,00-\n"

const pixCSVText = "Operação,Situação,Pagador/Recebedor,CPF/CNPJ,Data,Valor\n" +
	"Pix Recebido,Efetivado,de JOAO SILVA,123.456.789-01,05/08/2024,\"R$ 1.000,00\"\n" +
	"Pix Enviado,Efetivado,para MERCADO CENTRAL LTDA,12.345.678/0001-90,10/08/2024,\"R$ 200,00\"\n"

func receiptLines() []string {
	var lines []string
	lines = append(lines, "02/08/2024", "123456", "EFETUADA", "R$ 450,00",
		"Pagamento de Boleto", "1234/000567890", "CONDOMINIO")
	// trailing fragment, always discarded
	lines = append(lines, "31/12/2099", "000000", "EFETUADA", "R$ 0,00",
		"Pagamento de Boleto", "0000/000000000", "rodape")
	return lines
}

// writeDocs lays a month's documents out under dir and returns the set paths.
func writeDocs(t *testing.T, dir, stem string) (stmt, rcpt, pixCSV string) {
	t.Helper()
	for _, sub := range []string{statementsDir, receiptsDir, pixDir} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0o755))
	}
	stmt = filepath.Join(dir, statementsDir, stem+".pdf")
	rcpt = filepath.Join(dir, receiptsDir, stem+".pdf")
	pixCSV = filepath.Join(dir, pixDir, stem+".csv")
	require.NoError(t, os.WriteFile(stmt, []byte("%PDF"), 0o644))
	require.NoError(t, os.WriteFile(rcpt, []byte("%PDF"), 0o644))
	require.NoError(t, os.WriteFile(pixCSV, []byte(pixCSVText), 0o644))
	return stmt, rcpt, pixCSV
}

func newTestStore(t *testing.T) *category.Store {
	t.Helper()
	store := category.NewStore(t.TempDir())
	require.NoError(t, store.SavePixMappings([]category.PixMapping{
		{Counterparty: "Joao Silva", Category: "Salário"},
	}))
	require.NoError(t, store.SaveReceiptMappings([]category.ReceiptMapping{
		{Complement: "CONDOMINIO", Category: "Moradia"},
	}))
	return store
}

func TestScanDataDir_ChronologicalOrder(t *testing.T) {
	dir := t.TempDir()
	writeDocs(t, dir, "agosto24")
	writeDocs(t, dir, "julho24")
	writeDocs(t, dir, "setembro23")

	registry, err := ScanDataDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"Setembro 2023", "Julho 2024", "Agosto 2024"}, registry.Labels())
}

func TestScanDataDir_PixCSVPreferredOverPDF(t *testing.T) {
	dir := t.TempDir()
	writeDocs(t, dir, "agosto24")
	require.NoError(t, os.WriteFile(filepath.Join(dir, pixDir, "agosto24.pdf"), []byte("%PDF"), 0o644))

	registry, err := ScanDataDir(dir)
	require.NoError(t, err)
	require.Len(t, registry, 1)
	assert.NotEmpty(t, registry[0].PixCSV)
	assert.Empty(t, registry[0].PixPDF)
}

func TestLoadMonth(t *testing.T) {
	dir := t.TempDir()
	stmt, rcpt, _ := writeDocs(t, dir, "agosto24")

	registry, err := ScanDataDir(dir)
	require.NoError(t, err)

	ex := &fakeExtractor{
		texts: map[string]string{stmt: statementText},
		lines: map[string][]string{rcpt: receiptLines()},
	}
	svc := NewService(registry, ex, newTestStore(t), slog.New(slog.NewTextHandler(io.Discard, nil)))

	data, err := svc.LoadMonth(context.Background(), "Agosto 2024")
	require.NoError(t, err)

	assert.Empty(t, data.Warnings)
	assert.Equal(t, "08/2024", data.Period)

	require.Len(t, data.Statement, 2)
	assert.Equal(t, time.Date(2024, time.August, 5, 0, 0, 0, 0, time.UTC), data.Statement[0].Date)

	require.Len(t, data.Receipts, 1)
	assert.Equal(t, "Moradia", data.Receipts[0].Category)

	require.Len(t, data.Pix, 2)
	assert.Equal(t, "Salário", data.Pix[0].Category)
	assert.Equal(t, pix.Received, data.Pix[0].Direction)
	assert.Empty(t, data.Pix[1].Category, "unmapped counterparty stays uncategorized")
}

func TestLoadMonth_Unknown(t *testing.T) {
	svc := NewService(nil, &fakeExtractor{}, newTestStore(t), slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := svc.LoadMonth(context.Background(), "Janeiro 1999")
	assert.ErrorIs(t, err, ErrUnknownMonth)
}

func TestLoadAll_SkipsUnreadableDocument(t *testing.T) {
	dir := t.TempDir()
	stmtJul, rcptJul, _ := writeDocs(t, dir, "julho24")
	_, rcptAgo, _ := writeDocs(t, dir, "agosto24")

	registry, err := ScanDataDir(dir)
	require.NoError(t, err)

	// agosto's statement is missing from the extractor on purpose
	ex := &fakeExtractor{
		texts: map[string]string{stmtJul: statementText},
		lines: map[string][]string{
			rcptJul: receiptLines(),
			rcptAgo: receiptLines(),
		},
	}
	svc := NewService(registry, ex, newTestStore(t), slog.New(slog.NewTextHandler(io.Discard, nil)))

	all, err := svc.LoadAll(context.Background())
	require.NoError(t, err)

	require.Len(t, all.Warnings, 1, "only the broken document warns")
	assert.Contains(t, all.Warnings[0].Message, "unreadable")
	assert.NotEqual(t, all.Warnings[0].ID.String(), "00000000-0000-0000-0000-000000000000")

	assert.Len(t, all.Statement, 2, "julho's statement still parsed")
	assert.Len(t, all.Receipts, 2, "both receipt bundles parsed")
	assert.Len(t, all.Pix, 4)
}

func TestLoadAll_MatchesPerMonthConcatenation(t *testing.T) {
	dir := t.TempDir()
	stmtJul, rcptJul, _ := writeDocs(t, dir, "julho24")
	stmtAgo, rcptAgo, _ := writeDocs(t, dir, "agosto24")

	registry, err := ScanDataDir(dir)
	require.NoError(t, err)

	ex := &fakeExtractor{
		texts: map[string]string{stmtJul: statementText, stmtAgo: statementText},
		lines: map[string][]string{
			rcptJul: receiptLines(),
			rcptAgo: receiptLines(),
		},
	}
	svc := NewService(registry, ex, newTestStore(t), slog.New(slog.NewTextHandler(io.Discard, nil)))

	all, err := svc.LoadAll(context.Background())
	require.NoError(t, err)

	var stmts, rcpts, pixes int
	for _, label := range svc.Months() {
		data, err := svc.LoadMonth(context.Background(), label)
		require.NoError(t, err)
		stmts += len(data.Statement)
		rcpts += len(data.Receipts)
		pixes += len(data.Pix)
	}
	assert.Equal(t, stmts, len(all.Statement))
	assert.Equal(t, rcpts, len(all.Receipts))
	assert.Equal(t, pixes, len(all.Pix))
}

func TestSummarize(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveDebts([]category.Debt{
		{Description: "Financiamento", Amount: decimal.RequireFromString("1500.00")},
		{Description: "Cartão", Amount: decimal.RequireFromString("350.50")},
	}))
	svc := NewService(nil, &fakeExtractor{}, store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	data := &MonthData{
		Statement: []statement.Entry{
			{Description: "PIX TRANSFERENCIA", Amount: decimal.RequireFromString("1000.00")},
			{Description: "PG BOLETO CONDOMINIO", Amount: decimal.RequireFromString("-450.00")},
			{Description: "PIX MERCADO", Amount: decimal.RequireFromString("-200.00")},
			{Description: "TARIFA PACOTE", Amount: decimal.RequireFromString("-25.00")},
		},
		Pix: []PixRecord{
			{Entry: pix.Entry{Direction: pix.Received, Amount: decimal.RequireFromString("1000.00")}},
			{Entry: pix.Entry{Direction: pix.Sent, Amount: decimal.RequireFromString("200.00")}},
		},
		Receipts: []ReceiptRecord{
			{Entry: receipt.Entry{Status: receipt.StatusPaid, Amount: decimal.RequireFromString("450.00"), Complement: "CONDOMINIO"}},
			{Entry: receipt.Entry{Status: receipt.StatusOther, Amount: decimal.RequireFromString("99.00"), Complement: "AGENDADO"}},
		},
	}

	sum, err := svc.Summarize(data)
	require.NoError(t, err)

	assert.True(t, sum.TotalIn.Equal(decimal.RequireFromString("1000.00")))
	assert.True(t, sum.TotalOut.Equal(decimal.RequireFromString("675.00")))

	require.Len(t, sum.OutByForm, 3)
	assert.Equal(t, "Boleto", sum.OutByForm[0].Key)
	assert.Equal(t, "Pix", sum.OutByForm[1].Key)
	assert.Equal(t, "Tarifa Pacote", sum.OutByForm[2].Key)
	assert.Equal(t, "R$450,00", sum.OutByForm[0].Display)

	assert.True(t, sum.PixReceived.Equal(decimal.RequireFromString("1000.00")))
	assert.True(t, sum.PixSent.Equal(decimal.RequireFromString("200.00")))

	assert.True(t, sum.ReceiptsPaid.Equal(decimal.RequireFromString("450.00")), "scheduled receipts excluded")
	require.Len(t, sum.PaidByComplement, 1)
	assert.Equal(t, "CONDOMINIO", sum.PaidByComplement[0].Key)

	assert.True(t, sum.DebtTotal.Equal(decimal.RequireFromString("1850.50")))
}

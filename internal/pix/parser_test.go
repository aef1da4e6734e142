package pix

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Received(t *testing.T) {
	blob := "Pix Recebido Efetivado de JOAO SILVA 123.456.789-00 01/03/2025 R$ 100,00"

	res := Parse(blob)

	require.Len(t, res.Entries, 1)
	e := res.Entries[0]
	assert.Equal(t, Received, e.Direction)
	assert.Equal(t, "Recebido Efetivado", e.OperationStatus)
	assert.Equal(t, "JOAO SILVA", e.CounterpartyName)
	assert.Equal(t, "123.456.789-00", e.CounterpartyTaxID)
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), e.Date)
	assert.True(t, e.Amount.Equal(decimal.NewFromInt(100)))
}

func TestParse_SentWithCNPJ(t *testing.T) {
	blob := "Pix Enviado Efetivado para MERCADO CENTRAL LTDA 12.345.678/0001-90 15/02/2025 R$ 1.234,56"

	res := Parse(blob)

	require.Len(t, res.Entries, 1)
	e := res.Entries[0]
	assert.Equal(t, Sent, e.Direction)
	assert.Equal(t, "MERCADO CENTRAL LTDA", e.CounterpartyName)
	assert.Equal(t, "12.345.678/0001-90", e.CounterpartyTaxID)
	assert.True(t, e.Amount.Equal(decimal.RequireFromString("1234.56")))
	assert.True(t, e.Amount.IsPositive(), "amount carries no sign; direction does")
}

func TestParse_WrappedText(t *testing.T) {
	// Line wraps inside the record, including a hyphen split mid-token.
	blob := "Pix Recebido Efe-\ntivado de JOAO\nSILVA 123.456.789-00\n01/03/2025 R$ 100,00"

	res := Parse(blob)

	require.Len(t, res.Entries, 1)
	assert.Equal(t, "JOAO SILVA", res.Entries[0].CounterpartyName)
	assert.Equal(t, "Recebido Efetivado", res.Entries[0].OperationStatus)
}

func TestParse_MultipleRecordsWithNoise(t *testing.T) {
	blob := strings.Join([]string{
		"Extrato Pix - Banrisul",
		"Pix Recebido Efetivado de JOAO SILVA 123.456.789-00 01/03/2025 R$ 100,00",
		"saldo em conta nao relacionado",
		"Pix Enviado Efetivado para MARIA SOUZA 987.654.321-00 02/03/2025 R$ 50,00",
		"rodape do documento",
	}, "\n")

	res := Parse(blob)

	require.Len(t, res.Entries, 2)
	assert.Equal(t, Received, res.Entries[0].Direction)
	assert.Equal(t, Sent, res.Entries[1].Direction)
	assert.Zero(t, res.Dropped)
}

func TestParse_NonMatchingBlobYieldsNothing(t *testing.T) {
	res := Parse("nothing resembling a transfer record")
	assert.Empty(t, res.Entries)
	assert.Zero(t, res.Dropped)
}

func TestNormalize(t *testing.T) {
	got := Normalize("abc-\ndef  ghi\njkl   mno ")
	assert.Equal(t, "abcdef ghi jkl mno", got)
}

func TestParse_GeneratedNames(t *testing.T) {
	gofakeit.Seed(7)

	for i := 0; i < 50; i++ {
		name := strings.ToUpper(gofakeit.Name())
		blob := fmt.Sprintf("Pix Recebido Efetivado de %s 123.456.789-00 01/03/2025 R$ 10,00", name)

		res := Parse(blob)
		require.Len(t, res.Entries, 1, "name %q", name)
		assert.Equal(t, name, res.Entries[0].CounterpartyName)
	}
}

func TestParseCSV(t *testing.T) {
	csv := strings.Join([]string{
		"Operação,Situação,Pagador/Recebedor,CPF/CNPJ,Data,Valor",
		`Pix Recebido,Efetivado,de JOAO SILVA,123.456.789-00,01/03/2025,"R$ 100,00"`,
		"Operação,Situação,Pagador/Recebedor,CPF/CNPJ,Data,Valor",
		`Pix Enviado,Efetivado,para MARIA SOUZA,987.654.321-00,02/03/2025,"R$ 1.234,56"`,
	}, "\n")

	res, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)

	require.Len(t, res.Entries, 2)
	assert.Equal(t, "Joao Silva", res.Entries[0].CounterpartyName)
	assert.Equal(t, Received, res.Entries[0].Direction)
	assert.True(t, res.Entries[0].Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "Maria Souza", res.Entries[1].CounterpartyName)
	assert.Equal(t, Sent, res.Entries[1].Direction)
	assert.True(t, res.Entries[1].Amount.Equal(decimal.RequireFromString("1234.56")))
}

func TestParseCSV_MalformedRowsDropped(t *testing.T) {
	csv := strings.Join([]string{
		"Operação,Situação,Pagador/Recebedor,CPF/CNPJ,Data,Valor",
		`Pix Recebido,Efetivado,de JOAO SILVA,123.456.789-00,not-a-date,"R$ 100,00"`,
		`Pix Recebido,Efetivado,de JOAO SILVA,123.456.789-00,01/03/2025,oops`,
		`Pix Recebido,Efetivado,de JOAO SILVA,123.456.789-00,01/03/2025,"R$ 50,00"`,
	}, "\n")

	res, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Dropped)
	require.Len(t, res.Entries, 1)
}

func TestCleanCounterparty(t *testing.T) {
	assert.Equal(t, "Joao Silva", CleanCounterparty("de JOAO SILVA"))
	assert.Equal(t, "Maria Souza", CleanCounterparty("para maria souza"))
	assert.Equal(t, "JOAO SILVA", CleanCounterparty("JOAO SILVA"), "no preposition, name kept as-is")
}

package category

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Categories(t *testing.T) {
	s := NewStore(t.TempDir())

	categories, err := s.Categories()
	require.NoError(t, err)
	assert.Empty(t, categories, "missing file reads as empty")

	require.NoError(t, s.AddCategory("Mercado"))
	require.NoError(t, s.AddCategory("Energia"))

	categories, err = s.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"Mercado", "Energia"}, categories)
}

func TestStore_AddCategoryRejectsBlankAndDuplicate(t *testing.T) {
	s := NewStore(t.TempDir())

	require.ErrorIs(t, s.AddCategory("   "), ErrBlankCategory)

	require.NoError(t, s.AddCategory("Mercado"))
	err := s.AddCategory("mercado")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateCategory)
}

func TestStore_PixMappingsRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())

	mappings, err := s.PixMappings()
	require.NoError(t, err)
	assert.Empty(t, mappings)

	rows := []PixMapping{
		{Counterparty: "Joao Silva", Category: "Aluguel"},
		{Counterparty: "Mercado Central", Category: "Mercado"},
	}
	require.NoError(t, s.SavePixMappings(rows))

	mappings, err = s.PixMappings()
	require.NoError(t, err)
	assert.Equal(t, "Aluguel", mappings["Joao Silva"])
	assert.Equal(t, "Mercado", mappings["Mercado Central"])
}

func TestStore_ReceiptMappingsRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())

	rows := []ReceiptMapping{{Complement: "CONDOMINIO", Category: "Moradia"}}
	require.NoError(t, s.SaveReceiptMappings(rows))

	mappings, err := s.ReceiptMappings()
	require.NoError(t, err)
	assert.Equal(t, "Moradia", mappings["CONDOMINIO"])
}

func TestStore_DebtsRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())

	debts := []Debt{
		{Description: "Emprestimo carro", Amount: decimal.RequireFromString("12500.00")},
		{Description: "Cartao", Amount: decimal.RequireFromString("830.45")},
	}
	require.NoError(t, s.SaveDebts(debts))

	got, err := s.Debts()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Emprestimo carro", got[0].Description)
	assert.True(t, got[0].Amount.Equal(decimal.RequireFromString("12500.00")))
}

func TestSuggest(t *testing.T) {
	known := []string{"Mercado Central", "Joao Silva", "Energia CEEE"}

	got := Suggest("mercado centra", known, 2)
	require.NotEmpty(t, got)
	assert.Equal(t, "Mercado Central", got[0])

	assert.Nil(t, Suggest("", known, 3))
	assert.Nil(t, Suggest("x", nil, 3))
}

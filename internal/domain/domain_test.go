package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Decoração":          "decoracao",
		"Peças Mecânicas":    "pecas-mecanicas",
		"  Itens   Táticos ": "itens-taticos",
		"Kits & Brindes!":    "kits-brindes",
		"Modelo 3D":          "modelo-3d",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
		assert.True(t, IsValidSlug(Slugify(in)), in)
	}
}

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("festas"))
	assert.False(t, IsValidSlug(""))
	assert.False(t, IsValidSlug("-festas"))
	assert.False(t, IsValidSlug("fes--tas"))
	assert.False(t, IsValidSlug("Festas"))
}

func TestResolveIcon(t *testing.T) {
	assert.Equal(t, "wrench", ResolveIcon("wrench"))
	assert.Equal(t, DefaultIcon, ResolveIcon("rocket"))
	assert.Equal(t, DefaultIcon, ResolveIcon(""))
}

func TestFormatPrice(t *testing.T) {
	cases := map[string]string{
		"79.9":    "R$ 79,90",
		"0":       "R$ 0,00",
		"1234.5":  "R$ 1.234,50",
		"1000000": "R$ 1.000.000,00",
		"-12.345": "-R$ 12,35",
		"-0.001":  "R$ 0,00",
		"0.005":   "R$ 0,01",
		"-1500":   "-R$ 1.500,00",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatPrice(decimal.RequireFromString(in)), in)
	}
}

func TestCategoryValidate(t *testing.T) {
	c := &Category{Name: " Peças Mecânicas ", Icon: "unknown"}
	require.NoError(t, c.Validate())
	assert.Equal(t, "Peças Mecânicas", c.Name)
	assert.Equal(t, "pecas-mecanicas", c.Slug)
	assert.Equal(t, DefaultIcon, c.Icon)

	err := (&Category{Name: "  "}).Validate()
	assert.True(t, errors.Is(err, ErrValidation))

	err = (&Category{Name: "Festas", Slug: "Bad Slug"}).Validate()
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestCategoryValidateUpdateIgnoresSlug(t *testing.T) {
	c := &Category{ID: 4, Name: " Кружки ", Icon: "diamond"}
	require.NoError(t, c.ValidateUpdate())
	assert.Equal(t, "Кружки", c.Name)
	assert.Empty(t, c.Slug)

	assert.True(t, errors.Is((&Category{Name: "Кружки"}).Validate(), ErrValidation))
	assert.True(t, errors.Is((&Category{ID: 4, Name: " "}).ValidateUpdate(), ErrValidation))
}

func TestProductValidate(t *testing.T) {
	ok := &Product{Name: "Vaso", Price: decimal.RequireFromString("79.90"), CategoryID: 1}
	require.NoError(t, ok.Validate())

	free := &Product{Name: "Brinde", Price: decimal.Zero, CategoryID: 1}
	require.NoError(t, free.Validate())

	for name, p := range map[string]*Product{
		"empty name":     {Name: "", CategoryID: 1},
		"negative price": {Name: "x", Price: decimal.NewFromInt(-1), CategoryID: 1},
		"negative stock": {Name: "x", Stock: -1, CategoryID: 1},
		"no category":    {Name: "x"},
	} {
		assert.True(t, errors.Is(p.Validate(), ErrValidation), name)
	}
}

func TestProductEditableFields(t *testing.T) {
	p := &Product{ID: 3, Name: "Engrenagem", Stock: 2, CategoryID: 9}
	fields := p.EditableFields()
	assert.ElementsMatch(t,
		[]string{"name", "description", "price", "stock", "merchandise", "image_url"},
		keys(fields))
	assert.NotContains(t, fields, "id")
	assert.NotContains(t, fields, "category_id")
}

func TestProductCloneIsDeep(t *testing.T) {
	desc := "original"
	p := Product{Name: "a", Description: &desc}
	c := p.Clone()
	*c.Description = "changed"
	assert.Equal(t, "original", *p.Description)
}

func TestPurchaseTotalsAndCodes(t *testing.T) {
	p := &Purchase{Items: []PurchaseItem{
		{ProductID: 2, Quantity: 1, Price: decimal.RequireFromString("129.90")},
		{ProductID: 4, Quantity: 2, Price: decimal.RequireFromString("99.95")},
	}}
	assert.Equal(t, "329.8", p.ComputeTotal().String())
	assert.Equal(t, "PED-001", PurchaseCode(1))
	assert.Equal(t, "PED-1234", PurchaseCode(1234))
	assert.True(t, IsValidStatus(StatusCompleted))
	assert.False(t, IsValidStatus("shipped"))
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

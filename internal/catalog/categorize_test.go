package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/domain"
)

func TestResolveMainCategory(t *testing.T) {
	tests := []struct {
		name      string
		family    string
		subFamily string
		want      domain.MainCategory
	}{
		{name: "gadget family", family: "Smartwatch", want: domain.MainCategoryGadgets},
		{name: "smart home family", family: "Iluminação", want: domain.MainCategorySmartHome},
		{name: "unknown family", family: "Cabos", want: domain.MainCategoryNone},
		{name: "case insensitive", family: "SMARTWATCH", want: domain.MainCategoryGadgets},
		{name: "substring of family", family: "Iluminação Exterior", want: domain.MainCategorySmartHome},
		{name: "match in sub family", family: "Acessórios", subFamily: "Aspirador Robô", want: domain.MainCategoryGadgets},
		{name: "smart home checked first", family: "Tomadas", subFamily: "Smartwatch", want: domain.MainCategorySmartHome},
		{name: "gadgets inteligentes is smart home", family: "Gadgets Inteligentes", want: domain.MainCategorySmartHome},
		{name: "both blank", want: domain.MainCategoryNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveMainCategory(tt.family, tt.subFamily))
		})
	}
}

func TestResolveMainCategory_FieldOrderIndependent(t *testing.T) {
	a := ResolveMainCategory("smartwatch", "")
	b := ResolveMainCategory("", "smartwatch")
	assert.Equal(t, a, b)
	assert.Equal(t, domain.MainCategoryGadgets, a)
}

func TestDeriveCategories(t *testing.T) {
	t.Run("full record", func(t *testing.T) {
		rec := &domain.SupplierRecord{
			Brand:       " Xiaomi ",
			Family:      "Smartwatch",
			SubFamily:   "Pulseiras",
			ProductLine: "Mi Band",
		}
		got := DeriveCategories(rec)
		assert.Equal(t, domain.MainCategoryGadgets, got.Main)
		assert.Equal(t, []string{"Xiaomi", "Smartwatch", "Pulseiras", "Mi Band", "Gadgets"}, got.Tags)
	})

	t.Run("blank fields dropped", func(t *testing.T) {
		rec := &domain.SupplierRecord{Brand: "Aqara", Family: "  ", SubFamily: ""}
		got := DeriveCategories(rec)
		assert.Equal(t, domain.MainCategoryNone, got.Main)
		assert.Equal(t, []string{"Aqara"}, got.Tags)
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		rec := &domain.SupplierRecord{Brand: "Gadgets", Family: "Gadgets Diversos", SubFamily: "Gadgets Diversos"}
		got := DeriveCategories(rec)
		assert.Equal(t, []string{"Gadgets", "Gadgets Diversos"}, got.Tags)
	})

	t.Run("empty record", func(t *testing.T) {
		got := DeriveCategories(&domain.SupplierRecord{})
		assert.Empty(t, got.Tags)
	})
}

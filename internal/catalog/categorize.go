package catalog

import (
	"strings"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/domain"
)

// smartHomeFamilies map to "Casa Inteligente"; checked before gadgetFamilies.
var smartHomeFamilies = []string{
	"Assistentes Virtuais",
	"Campainha Inteligente",
	"Fechaduras Inteligentes",
	"Hubs Inteligentes",
	"Iluminação",
	"Interruptor Inteligente",
	"Motor Cortinas",
	"Painel Controlo",
	"Termostato Inteligente",
	"Tomadas",
	"Gadgets Inteligentes",
}

var gadgetFamilies = []string{
	"Auscultadores",
	"Smartwatch",
	"Cozinha",
	"Gadgets P/ Animais",
	"Gadgets Diversos",
	"Aspiradores",
	"Mini Aspirador",
	"Aspirador Vertical",
	"Aspirador Robô",
}

// ResolveMainCategory finds the main category by case-insensitive substring
// match of a known family name inside the family or sub-family field.
func ResolveMainCategory(family, subFamily string) domain.MainCategory {
	fields := []string{strings.ToLower(family), strings.ToLower(subFamily)}
	if containsAny(fields, smartHomeFamilies) {
		return domain.MainCategorySmartHome
	}
	if containsAny(fields, gadgetFamilies) {
		return domain.MainCategoryGadgets
	}
	return domain.MainCategoryNone
}

func containsAny(fields []string, names []string) bool {
	for _, name := range names {
		needle := strings.ToLower(name)
		for _, f := range fields {
			if f != "" && strings.Contains(f, needle) {
				return true
			}
		}
	}
	return false
}

// DeriveCategories builds the main category and the listing tag set for a record.
func DeriveCategories(rec *domain.SupplierRecord) domain.CategoryAssignment {
	main := ResolveMainCategory(rec.Family, rec.SubFamily)

	tags := newTagSet()
	tags.add(rec.Brand)
	tags.add(rec.Family)
	tags.add(rec.SubFamily)
	tags.add(rec.ProductLine)
	tags.add(string(main))

	return domain.CategoryAssignment{Main: main, Tags: tags.values}
}

// tagSet keeps insertion order and drops blanks and repeats.
type tagSet struct {
	seen   map[string]struct{}
	values []string
}

func newTagSet() *tagSet {
	return &tagSet{seen: make(map[string]struct{})}
}

func (s *tagSet) add(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}
	if _, ok := s.seen[tag]; ok {
		return
	}
	s.seen[tag] = struct{}{}
	s.values = append(s.values, tag)
}

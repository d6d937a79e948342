// Package catalog holds the read-only product model served by the storefront backend.
package catalog

import "fmt"

// Category is one of the fixed product groupings the backend knows about.
type Category string

const (
	CategoryGeeks    Category = "geeks"
	CategoryGelDor   Category = "gel-dor"
	CategoryDiversos Category = "diversos"
)

// CategoryInfo is the display metadata shown on the home page cards and
// category page titles.
type CategoryInfo struct {
	ID          Category
	Name        string
	Description string
}

var categories = []CategoryInfo{
	{
		ID:          CategoryGeeks,
		Name:        "Produtos Geeks",
		Description: "Itens para os apaixonados por tecnologia e cultura pop",
	},
	{
		ID:          CategoryGelDor,
		Name:        "Gel para Dor",
		Description: "Produtos para alívio de dores musculares e articulares",
	},
	{
		ID:          CategoryDiversos,
		Name:        "Diversos",
		Description: "Variedade de produtos úteis para o dia a dia",
	},
}

// Categories returns the categories in display order.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory validates a category identifier.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q (valid: %s, %s, %s)", s, CategoryGeeks, CategoryGelDor, CategoryDiversos)
	}
	return c, nil
}

// Valid reports whether c is part of the fixed set.
func (c Category) Valid() bool {
	for _, info := range categories {
		if info.ID == c {
			return true
		}
	}
	return false
}

// DisplayName returns the human label, falling back to "Categoria" for
// identifiers outside the fixed set.
func (c Category) DisplayName() string {
	for _, info := range categories {
		if info.ID == c {
			return info.Name
		}
	}
	return "Categoria"
}

func (c Category) String() string { return string(c) }

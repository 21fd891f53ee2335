package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// the backend speaks JSON numbers for every price field
	decimal.MarshalJSONWithoutQuotes = true
}

type Category string

const (
	CategoryApparel     Category = "Apparel"
	CategoryAccessories Category = "Accessories"
	CategoryMerchandise Category = "Merchandise"
	CategoryBooks       Category = "Books"
	CategoryOthers      Category = "Others"
)

// Categories lists every category in the order the storefront shows them.
var Categories = []Category{
	CategoryApparel,
	CategoryAccessories,
	CategoryMerchandise,
	CategoryBooks,
	CategoryOthers,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory matches case-insensitively. "All" and "" mean no category.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return "", true
	}
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

type Product struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
	Stock       int             `json:"stock"`
	Featured    bool            `json:"featured"`
	Rating      float64         `json:"rating"`
	NumReviews  int             `json:"numReviews"`
	Image       string          `json:"image"`
	Images      []string        `json:"images,omitempty"`
	Sizes       []string        `json:"sizes,omitempty"`
	Colors      []string        `json:"colors,omitempty"`
}

func (p Product) InStock() bool {
	return p.Stock > 0
}

// Gallery returns the primary image followed by any additional images,
// skipping duplicates and blanks.
func (p Product) Gallery() []string {
	seen := make(map[string]bool, len(p.Images)+1)
	out := make([]string, 0, len(p.Images)+1)
	for _, img := range append([]string{p.Image}, p.Images...) {
		if img == "" || seen[img] {
			continue
		}
		seen[img] = true
		out = append(out, img)
	}
	return out
}

// ProductQuery is the filter accepted by GET /products.
type ProductQuery struct {
	Search   string
	Category Category
	Featured bool
}

func (p Product) Clone() Product {
	p.Images = append([]string(nil), p.Images...)
	p.Sizes = append([]string(nil), p.Sizes...)
	p.Colors = append([]string(nil), p.Colors...)
	return p
}

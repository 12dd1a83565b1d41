package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/example/storefront/internal/money"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidSort     = errors.New("invalid sort option")
)

type Color struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Details struct {
	Material string `json:"material"`
	Fit      string `json:"fit"`
	Care     string `json:"care"`
	Origin   string `json:"origin"`
}

// Product is loaded once from the static catalog and never mutated.
type Product struct {
	ID          string      `json:"id"`
	Slug        string      `json:"slug"`
	Name        string      `json:"name"`
	Price       money.Cents `json:"price"`
	Category    string      `json:"category"`
	Featured    bool        `json:"featured"`
	InStock     bool        `json:"inStock"`
	Images      []string    `json:"images"`
	Colors      []Color     `json:"colors"`
	Sizes       []string    `json:"sizes"`
	Description string      `json:"description"`
	Details     Details     `json:"details"`
}

// PrimaryImage returns the first image, or "" when the product has none.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

func (p Product) HasColor(name string) bool {
	for _, c := range p.Colors {
		if strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (p Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// Catalog is a read-only view over a fixed product list.
type Catalog struct {
	products []Product
	bySlug   map[string]int
	byID     map[string]int
}

func New(products []Product) *Catalog {
	c := &Catalog{
		products: append([]Product(nil), products...),
		bySlug:   make(map[string]int, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for i, p := range c.products {
		// first occurrence wins on duplicate keys
		if _, ok := c.bySlug[p.Slug]; !ok {
			c.bySlug[p.Slug] = i
		}
		if _, ok := c.byID[p.ID]; !ok {
			c.byID[p.ID] = i
		}
	}
	return c
}

// Load decodes a JSON array of products.
func Load(r io.Reader) (*Catalog, error) {
	var products []Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	for i, p := range products {
		if p.ID == "" || p.Slug == "" {
			return nil, fmt.Errorf("failed to decode catalog: product %d is missing id or slug", i)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("failed to decode catalog: product %s has a negative price", p.ID)
		}
	}
	return New(products), nil
}

func (c *Catalog) All() []Product {
	return append([]Product(nil), c.products...)
}

func (c *Catalog) Len() int {
	return len(c.products)
}

// BySlug reports false when no product has the slug.
func (c *Catalog) BySlug(slug string) (Product, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

func (c *Catalog) ByID(id string) (Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

func (c *Catalog) Featured() []Product {
	return c.where(func(p Product) bool { return p.Featured })
}

func (c *Catalog) ByCategory(category string) []Product {
	return c.where(func(p Product) bool { return p.Category == category })
}

// Categories returns each category once, in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range c.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// Colors deduplicates by name; the first occurrence's value wins.
func (c *Catalog) Colors() []Color {
	seen := make(map[string]struct{})
	var out []Color
	for _, p := range c.products {
		for _, col := range p.Colors {
			if _, ok := seen[col.Name]; ok {
				continue
			}
			seen[col.Name] = struct{}{}
			out = append(out, col)
		}
	}
	return out
}

func (c *Catalog) Sizes() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range c.products {
		for _, s := range p.Sizes {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

func (c *Catalog) where(keep func(Product) bool) []Product {
	out := make([]Product, 0)
	for _, p := range c.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// Package fixtures embeds the static product and review data the storefront
// ships with. Paths in config can point the loaders at other files instead.
package fixtures

import (
	"embed"
	"fmt"
	"io"
	"os"

	"github.com/example/storefront/internal/domain/catalog"
	"github.com/example/storefront/internal/domain/review"
)

//go:embed data/*.json
var files embed.FS

const (
	productsFile = "data/products.json"
	reviewsFile  = "data/reviews.json"
)

// LoadCatalog reads products from path, or from the embedded fixture when path is empty.
func LoadCatalog(path string) (*catalog.Catalog, error) {
	r, err := open(path, productsFile)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return catalog.Load(r)
}

// LoadReviews reads reviews from path, or from the embedded fixture when path is empty.
func LoadReviews(path string) (*review.Repository, error) {
	r, err := open(path, reviewsFile)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return review.LoadRepository(r)
}

func open(path, embedded string) (io.ReadCloser, error) {
	if path == "" {
		f, err := files.Open(embedded)
		if err != nil {
			return nil, fmt.Errorf("failed to open embedded %s: %w", embedded, err)
		}
		return f, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

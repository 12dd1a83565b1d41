// Package cart holds the shopping cart model. Every operation is a pure
// transition: it returns a new Cart and never mutates its input. Total and
// ItemCount are always derived from Items by CalculateTotal and
// CalculateItemCount.
package cart

import (
	"errors"

	"github.com/example/storefront/internal/domain/catalog"
	"github.com/example/storefront/internal/money"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidProduct  = errors.New("product id is required")
)

// Variant is the color/size pair chosen for a line item.
type Variant struct {
	Color string `json:"color"`
	Size  string `json:"size"`
}

// Item is a cart line. Price is captured when the item is first added.
type Item struct {
	ID        string      `json:"id"`
	ProductID string      `json:"productId"`
	Name      string      `json:"name"`
	Price     money.Cents `json:"price"`
	Image     string      `json:"image"`
	Color     string      `json:"color"`
	Size      string      `json:"size"`
	Quantity  int         `json:"quantity"`
}

func (i Item) Variant() Variant {
	return Variant{Color: i.Color, Size: i.Size}
}

// LineTotal is price times quantity.
func (i Item) LineTotal() money.Cents {
	return i.Price.Mul(i.Quantity)
}

type Cart struct {
	Items     []Item      `json:"items"`
	Total     money.Cents `json:"total"`
	ItemCount int         `json:"itemCount"`
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Find returns the item with the given id.
func (c Cart) Find(itemID string) (Item, bool) {
	for _, item := range c.Items {
		if item.ID == itemID {
			return item, true
		}
	}
	return Item{}, false
}

// ItemID derives the line identity from the product and chosen variant.
func ItemID(productID string, v Variant) string {
	return productID + "-" + v.Color + "-" + v.Size
}

// NewItem builds a line item from a product snapshot.
func NewItem(p catalog.Product, v Variant, quantity int) (Item, error) {
	if p.ID == "" {
		return Item{}, ErrInvalidProduct
	}
	if quantity < 1 {
		return Item{}, ErrInvalidQuantity
	}
	return Item{
		ID:        ItemID(p.ID, v),
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.PrimaryImage(),
		Color:     v.Color,
		Size:      v.Size,
		Quantity:  quantity,
	}, nil
}

// Clear returns the canonical empty cart.
func Clear() Cart {
	return Cart{Items: []Item{}}
}

// Add merges item into an existing line with the same id, otherwise appends it.
// The existing line keeps its original price.
func Add(c Cart, item Item) Cart {
	items := make([]Item, 0, len(c.Items)+1)
	merged := false
	for _, existing := range c.Items {
		if existing.ID == item.ID {
			existing.Quantity += item.Quantity
			merged = true
		}
		items = append(items, existing)
	}
	if !merged {
		items = append(items, item)
	}
	return build(items)
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes it. Unknown ids leave the cart unchanged.
func UpdateQuantity(c Cart, itemID string, quantity int) Cart {
	if quantity <= 0 {
		return Remove(c, itemID)
	}
	items := make([]Item, 0, len(c.Items))
	for _, existing := range c.Items {
		if existing.ID == itemID {
			existing.Quantity = quantity
		}
		items = append(items, existing)
	}
	return build(items)
}

func Remove(c Cart, itemID string) Cart {
	items := make([]Item, 0, len(c.Items))
	for _, existing := range c.Items {
		if existing.ID != itemID {
			items = append(items, existing)
		}
	}
	return build(items)
}

func CalculateTotal(items []Item) money.Cents {
	var total money.Cents
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}

func CalculateItemCount(items []Item) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// QuantityOf sums the quantity held for a product, narrowed to one variant
// when v is non-nil.
func QuantityOf(c Cart, productID string, v *Variant) int {
	count := 0
	for _, item := range c.Items {
		if item.ProductID != productID {
			continue
		}
		if v != nil && item.Variant() != *v {
			continue
		}
		count += item.Quantity
	}
	return count
}

func Contains(c Cart, productID string, v Variant) bool {
	_, ok := c.Find(ItemID(productID, v))
	return ok
}

func build(items []Item) Cart {
	return Cart{
		Items:     items,
		Total:     CalculateTotal(items),
		ItemCount: CalculateItemCount(items),
	}
}

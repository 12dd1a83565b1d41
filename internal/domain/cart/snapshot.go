package cart

import (
	"encoding/json"
	"fmt"
)

// Encode writes the persisted layout: {"items": [...], "total": n, "itemCount": n}.
func Encode(c Cart) ([]byte, error) {
	if c.Items == nil {
		c.Items = []Item{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart: %w", err)
	}
	return data, nil
}

// Decode reads a persisted cart. Stored totals are ignored and recomputed,
// and lines with a non-positive quantity are dropped.
func Decode(data []byte) (Cart, error) {
	var stored struct {
		Items []Item `json:"items"`
	}
	if err := json.Unmarshal(data, &stored); err != nil {
		return Clear(), fmt.Errorf("failed to decode cart: %w", err)
	}

	items := make([]Item, 0, len(stored.Items))
	for _, item := range stored.Items {
		if item.Quantity <= 0 {
			continue
		}
		items = append(items, item)
	}
	return build(items), nil
}

package cart

import "time"

const (
	EventItemAdded       = "ItemAddedToCart"
	EventItemRemoved     = "ItemRemovedFromCart"
	EventQuantityUpdated = "CartItemQuantityUpdated"
	EventCartCleared     = "CartCleared"
	EventCartReloaded    = "CartReloaded"
	EventCartStored      = "CartStored"
)

// Change describes a cart after a transition. It is delivered to in-process
// subscribers and published on the change topic.
type Change struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	EventType string    `json:"event_type"`
	ItemID    string    `json:"item_id,omitempty"`
	Cart      Cart      `json:"cart"`
	Revision  int       `json:"revision"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/go-playground/validator/v10"
)

const EventOrderPlaced = "OrderPlaced"

var ErrInvalidContact = errors.New("invalid contact details")

var validate = validator.New()

// Contact is what the checkout form collects about the buyer. Every field is
// optional; a confirmation email goes out only when Email is set.
type Contact struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" binding:"omitempty,email"`
}

// Validate accepts a bare address only; Email is used as the SMTP recipient.
func (c Contact) Validate() error {
	if c.Email == "" {
		return nil
	}
	if err := validate.Var(c.Email, "email"); err != nil {
		return fmt.Errorf("%w: email %q", ErrInvalidContact, c.Email)
	}
	return nil
}

func (c Contact) Name() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Placed is published after a successful checkout.
type Placed struct {
	EventType string      `json:"event_type"`
	OrderID   string      `json:"order_id"`
	SessionID string      `json:"session_id"`
	Contact   Contact     `json:"contact"`
	Items     []cart.Item `json:"items"`
	ItemCount int         `json:"item_count"`
	Totals    Total       `json:"totals"`
	PlacedAt  time.Time   `json:"placed_at"`
	Demo      bool        `json:"demo"`
}

func NewPlaced(sessionID string, conf *Confirmation, c cart.Cart, contact Contact) Placed {
	return Placed{
		EventType: EventOrderPlaced,
		OrderID:   conf.OrderID,
		SessionID: sessionID,
		Contact:   contact,
		Items:     append([]cart.Item{}, c.Items...),
		ItemCount: conf.ItemCount,
		Totals:    conf.Totals,
		PlacedAt:  conf.PlacedAt,
		Demo:      conf.Demo,
	}
}

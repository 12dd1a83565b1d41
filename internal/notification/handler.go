// Package notification emails buyers when an order is placed.
package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/storefront/internal/domain/order"
	"go.uber.org/zap"
)

// Sender is implemented by email.Service.
type Sender interface {
	SendOrderConfirmation(to string, placed order.Placed) error
}

// Handler processes events for sending notifications
type Handler struct {
	sender Sender
	logger *zap.Logger
}

func NewHandler(sender Sender, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{sender: sender, logger: logger}
}

// HandleEvent is a kafka.MessageHandler for the order topic.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var placed order.Placed
	if err := json.Unmarshal(value, &placed); err != nil {
		return fmt.Errorf("failed to decode order event: %w", err)
	}

	// Only process OrderPlaced events
	if placed.EventType != order.EventOrderPlaced {
		return nil
	}

	log := h.logger.With(zap.String("order_id", placed.OrderID))
	if placed.Contact.Email == "" {
		log.Debug("no contact email, skipping confirmation")
		return nil
	}

	if err := h.sender.SendOrderConfirmation(placed.Contact.Email, placed); err != nil {
		return err
	}

	log.Info("order confirmation sent", zap.Int("item_count", placed.ItemCount))
	return nil
}

// Package projection keeps live sessions in step with cart writes made by
// other instances.
package projection

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/session"
	"go.uber.org/zap"
)

type Projector struct {
	sessions   *session.Registry
	instanceID string
	logger     *zap.Logger
}

// NewProjector ignores changes whose source is instanceID.
func NewProjector(sessions *session.Registry, instanceID string, logger *zap.Logger) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Projector{sessions: sessions, instanceID: instanceID, logger: logger}
}

// HandleEvent is a kafka.MessageHandler for the cart change topic. Storage is
// last-write-wins, so a foreign change means "re-read your key".
func (p *Projector) HandleEvent(ctx context.Context, key, value []byte) error {
	var change cart.Change
	if err := json.Unmarshal(value, &change); err != nil {
		return fmt.Errorf("failed to decode cart change: %w", err)
	}
	if change.SessionID == "" {
		change.SessionID = string(key)
	}

	if change.Source != "" && change.Source == p.instanceID {
		return nil
	}

	s, ok := p.sessions.Lookup(change.SessionID)
	if !ok {
		return nil
	}

	c := s.Cart.Reload(ctx)
	p.logger.Debug("refreshed cart from foreign change",
		zap.String("session_id", change.SessionID),
		zap.String("event_type", change.EventType),
		zap.String("source", change.Source),
		zap.Int("item_count", c.ItemCount),
	)
	return nil
}

// internal/game/special_actions.go
package game

import (
	"context"
	"fmt"

	engine "github.com/jason-s-yu/pathgame/engine"
	"github.com/jason-s-yu/pathgame/internal/cache"
	"github.com/jason-s-yu/pathgame/internal/protocol"
	"github.com/sirupsen/logrus"
)

// collectDiscard runs the Ri exchange: ask the mover for a card and return
// it to the deck. A missing, malformed or unheld card is fatal.
func (d *Dealer) collectDiscard(ctx context.Context, id int) (engine.Card, error) {
	conn := d.players[id]
	if err := conn.Send(protocol.AskDiscard()); err != nil {
		return engine.NoCard, fmt.Errorf("player %d: send discard request: %w", id, err)
	}
	msg, err := conn.Receive(ctx)
	if err != nil {
		return engine.NoCard, fmt.Errorf("player %d: %w", id, err)
	}
	if msg.Kind != protocol.KindDiscard {
		return engine.NoCard, fmt.Errorf("player %d: %w: expected RD, got %s", id, ErrProtocolViolation, msg.Kind)
	}
	if err := d.applyDiscard(id, msg.Card); err != nil {
		return engine.NoCard, err
	}

	d.log.WithFields(logrus.Fields{"player": id, "card": msg.Card}).Debug("card returned")
	d.logAction(id, cache.ActionPlayerDiscard, map[string]any{
		"card": msg.Card.String(), "deck": d.Engine.Deck.Remaining(),
	})
	return msg.Card, nil
}

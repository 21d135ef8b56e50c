// internal/game/engine_adapter.go
package game

import (
	"errors"
	"fmt"

	engine "github.com/jason-s-yu/pathgame/engine"
	"github.com/jason-s-yu/pathgame/internal/protocol"
)

// applyMove applies a DO request to the engine. Rule violations are protocol
// violations: the move is not re-requested.
func (d *Dealer) applyMove(id, steps int) (engine.Outcome, error) {
	d.Mu.Lock()
	defer d.Mu.Unlock()
	out, err := d.Engine.ApplyMove(id, steps)
	if err != nil {
		return out, engineError(id, err)
	}
	return out, nil
}

// applyDiscard applies an RD reply to the engine.
func (d *Dealer) applyDiscard(id int, c engine.Card) error {
	d.Mu.Lock()
	defer d.Mu.Unlock()
	if err := d.Engine.Discard(id, c); err != nil {
		return engineError(id, err)
	}
	return nil
}

func engineError(id int, err error) error {
	if errors.Is(err, engine.ErrIllegalMove) {
		return fmt.Errorf("player %d: %w: %v", id, ErrProtocolViolation, err)
	}
	return fmt.Errorf("player %d: %w", id, err)
}

// happeningFor builds the mover's broadcast for an applied move. money is the
// mover's balance after the move.
func happeningFor(out engine.Outcome, money int) protocol.Message {
	if out.Drawn.Valid() {
		return protocol.Happened(out.Player, out.Site, money, out.Drawn, 1)
	}
	return protocol.Happened(out.Player, out.Site, money, engine.NoCard, 0)
}

package engine

import (
	"errors"
	"fmt"
)

// ErrIllegalMove is returned for any action the rules do not allow.
var ErrIllegalMove = errors.New("illegal move")

// Outcome describes the result of one applied move.
type Outcome struct {
	Player     int
	From       int
	Site       int
	MoneyDelta int
	Drawn      Card // NoCard unless a card was drawn
	// NeedsDiscard is set when the player landed on Ri holding cards and must
	// now choose one to return.
	NeedsDiscard bool
}

// Destination returns the site a move of steps from site lands on. The move
// is clamped to the next barrier and must land on an available site.
func Destination(path *Path, site, steps int) (int, error) {
	if steps < 1 {
		return 0, fmt.Errorf("%w: steps must be positive, got %d", ErrIllegalMove, steps)
	}
	if site >= path.Last() {
		return 0, fmt.Errorf("%w: already at the goal", ErrIllegalMove)
	}
	dest := min(site+steps, path.FindNextBarrier(site))
	if !path.Available(dest) {
		return 0, fmt.Errorf("%w: site %d is full", ErrIllegalMove, dest)
	}
	return dest, nil
}

// ApplyMove moves player id by steps and applies the destination's effect.
//
// A draw from an empty deck is not an error: the move stands and the game
// ends with EndDeckEmpty.
func (g *GameState) ApplyMove(id, steps int) (Outcome, error) {
	if g.IsTerminal() {
		return Outcome{}, fmt.Errorf("%w: game is over", ErrIllegalMove)
	}
	if p, ok := g.PendingDiscard(); ok {
		return Outcome{}, fmt.Errorf("%w: player %d owes a discard", ErrIllegalMove, p)
	}
	next, ok := g.NextPlayerToMove()
	if !ok || next != id {
		return Outcome{}, fmt.Errorf("%w: not player %d's turn", ErrIllegalMove, id)
	}
	p := g.Players[id]
	dest, err := Destination(g.Path, p.Site, steps)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{Player: id, From: p.Site, Site: dest, Drawn: NoCard}
	g.Path.Remove(id, p.Site)
	g.Path.Place(id, dest)
	p.Site = dest
	g.TurnNumber++

	g.applySiteEffect(p, &out)

	ArrangeOrder(g.Players)
	if g.AllFinished() {
		g.End(EndFinished)
	}
	return out, nil
}

// Discard returns a card from the pending player's hand to the deck tail.
func (g *GameState) Discard(id int, c Card) error {
	if pending, ok := g.PendingDiscard(); !ok || pending != id {
		return fmt.Errorf("%w: player %d has no discard pending", ErrIllegalMove, id)
	}
	p := g.Players[id]
	if !c.Valid() || p.Cards[c] == 0 {
		return fmt.Errorf("%w: player %d does not hold %s", ErrIllegalMove, id, c)
	}
	p.Cards[c]--
	g.Deck.Add(c)
	g.pendingDiscard = -1
	return nil
}

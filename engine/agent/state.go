// Package agent implements the player side of the game: a local view of the
// board rebuilt from dealer messages, and the move strategies.
package agent

import (
	"errors"
	"fmt"

	engine "github.com/jason-s-yu/pathgame/engine"
)

// ErrDesync is returned when a dealer message contradicts the local view.
var ErrDesync = errors.New("local view out of sync with dealer")

// Happening is one decoded state broadcast.
type Happening struct {
	Player int
	Site   int
	Money  int
	// Card is the card drawn (Delta +1) or discarded (Delta -1). Only the
	// mover ever receives a non-zero Delta.
	Card  engine.Card
	Delta int
}

// AgentState is a player's view of the game. It holds every player's site,
// money and visit counts, but only its own card tally.
type AgentState struct {
	PlayerID      int
	Path          *engine.Path
	Players       []*engine.Player
	Rules         engine.Rules
	DeckRemaining int
	Turns         int
}

// NewAgentState builds the starting view from the dealer's path line under
// rules, which must match the dealer's.
func NewAgentState(pathLine string, numPlayers, playerID int, rules engine.Rules) (*AgentState, error) {
	if numPlayers < 1 {
		return nil, fmt.Errorf("%w: %d", engine.ErrPlayerCount, numPlayers)
	}
	if playerID < 0 || playerID >= numPlayers {
		return nil, fmt.Errorf("player id %d out of range for %d players", playerID, numPlayers)
	}
	path, err := engine.LoadPath(pathLine)
	if err != nil {
		return nil, err
	}
	a := &AgentState{
		PlayerID:      playerID,
		Path:          path,
		Players:       make([]*engine.Player, numPlayers),
		Rules:         rules,
		DeckRemaining: -1,
	}
	for id := range numPlayers {
		a.Players[id] = engine.NewPlayer(id, rules)
		path.Place(id, 0)
	}
	engine.ArrangeOrder(a.Players)
	return a, nil
}

// Me returns the agent's own record.
func (a *AgentState) Me() *engine.Player { return a.Players[a.PlayerID] }

// CheckTurn verifies a turn cue against the local view: it must be this
// player's turn and the dealer's site and money must match.
func (a *AgentState) CheckTurn(site, money, deckRemaining int) error {
	next, ok := engine.NextPlayerToMove(a.Players, a.Path)
	if !ok || next != a.PlayerID {
		return fmt.Errorf("%w: turn cue for player %d but player %d is due", ErrDesync, a.PlayerID, next)
	}
	me := a.Me()
	if me.Site != site || me.Money != money {
		return fmt.Errorf("%w: dealer has site %d money %d, local has site %d money %d",
			ErrDesync, site, money, me.Site, me.Money)
	}
	if deckRemaining < 0 {
		return fmt.Errorf("%w: negative deck size %d", ErrDesync, deckRemaining)
	}
	a.DeckRemaining = deckRemaining
	return nil
}

// Apply updates the view from one broadcast. The broadcast must describe a
// legal move by the player whose turn it was.
func (a *AgentState) Apply(h Happening) error {
	if h.Player < 0 || h.Player >= len(a.Players) {
		return fmt.Errorf("%w: unknown player %d", ErrDesync, h.Player)
	}
	if next, ok := engine.NextPlayerToMove(a.Players, a.Path); !ok || next != h.Player {
		return fmt.Errorf("%w: player %d moved out of turn", ErrDesync, h.Player)
	}
	p := a.Players[h.Player]
	got, err := engine.Destination(a.Path, p.Site, h.Site-p.Site)
	if err != nil {
		return fmt.Errorf("%w: player %d to site %d: %v", ErrDesync, h.Player, h.Site, err)
	}
	if got != h.Site {
		return fmt.Errorf("%w: player %d jumped the barrier at %d", ErrDesync, h.Player, got)
	}

	dest := a.Path.Sites[h.Site].Type
	want := p.Money
	if dest == engine.SiteMo {
		want += a.Rules.MoneyPerMo
	}
	if h.Money != want {
		return fmt.Errorf("%w: player %d money %d, expected %d", ErrDesync, h.Player, h.Money, want)
	}
	if err := a.applyCard(h, dest); err != nil {
		return err
	}

	a.Path.Remove(p.ID, p.Site)
	a.Path.Place(p.ID, h.Site)
	p.Site = h.Site
	p.Money = h.Money
	switch dest {
	case engine.SiteV1:
		p.VisitsV1++
	case engine.SiteV2:
		p.VisitsV2++
	}
	engine.ArrangeOrder(a.Players)
	a.Turns++
	return nil
}

func (a *AgentState) applyCard(h Happening, dest engine.SiteType) error {
	if h.Delta == 0 {
		if h.Player != a.PlayerID {
			return nil
		}
		switch {
		case dest == engine.SiteDo:
			return fmt.Errorf("%w: landed on Do without a card", ErrDesync)
		case dest == engine.SiteRi && a.Me().Cards.Total() > 0:
			return fmt.Errorf("%w: landed on Ri holding cards without a discard", ErrDesync)
		}
		return nil
	}
	if h.Player != a.PlayerID {
		return fmt.Errorf("%w: card shown for player %d", ErrDesync, h.Player)
	}
	if !h.Card.Valid() {
		return fmt.Errorf("%w: invalid card", ErrDesync)
	}
	me := a.Me()
	switch {
	case h.Delta > 0 && dest == engine.SiteDo:
		me.Cards[h.Card]++
	case h.Delta < 0 && dest == engine.SiteRi && me.Cards[h.Card] > 0:
		me.Cards[h.Card]--
	default:
		return fmt.Errorf("%w: card change %+d %s on %s", ErrDesync, h.Delta, h.Card, dest)
	}
	return nil
}

// LegalMoves returns the destinations open to this player, nearest first.
func (a *AgentState) LegalMoves() []int {
	return engine.LegalDestinations(a.Path, a.Me().Site)
}

// ValidateMove checks a move against the local view and returns its
// destination.
func (a *AgentState) ValidateMove(steps int) (int, error) {
	return engine.Destination(a.Path, a.Me().Site, steps)
}

// Score returns the agent's own score as far as it can tell.
func (a *AgentState) Score() int { return a.Me().Score(a.Rules) }

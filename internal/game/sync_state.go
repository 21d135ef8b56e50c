// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"
)

// PublicPlayer is what anyone may know about a player. Card tallies are
// private and never included.
type PublicPlayer struct {
	ID       int  `json:"id"`
	Site     int  `json:"site"`
	Money    int  `json:"money"`
	VisitsV1 int  `json:"v1"`
	VisitsV2 int  `json:"v2"`
	Position int  `json:"position"`
	Finished bool `json:"finished"`
}

// PublicState is a snapshot of the game as a spectator sees it.
type PublicState struct {
	GameID        uuid.UUID      `json:"gameId"`
	Path          string         `json:"path"`
	TurnNumber    int            `json:"turn"`
	DeckRemaining int            `json:"deck"`
	GameOver      bool           `json:"gameOver"`
	Reason        string         `json:"reason,omitempty"`
	Players       []PublicPlayer `json:"players"`
}

// PublicState returns the current public snapshot. It is safe to call from
// any goroutine while the game runs.
func (d *Dealer) PublicState() PublicState {
	d.Mu.Lock()
	defer d.Mu.Unlock()

	g := d.Engine
	st := PublicState{
		GameID:        d.ID,
		Path:          g.Path.Encode(),
		TurnNumber:    g.TurnNumber,
		DeckRemaining: g.Deck.Remaining(),
		GameOver:      g.IsTerminal(),
		Players:       make([]PublicPlayer, len(g.Players)),
	}
	if st.GameOver {
		st.Reason = g.Reason.String()
	}
	for i, p := range g.Players {
		st.Players[i] = PublicPlayer{
			ID:       p.ID,
			Site:     p.Site,
			Money:    p.Money,
			VisitsV1: p.VisitsV1,
			VisitsV2: p.VisitsV2,
			Position: p.Position,
			Finished: p.Finished(g.Path),
		}
	}
	return st
}

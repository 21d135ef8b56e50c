// Package engine implements the path game rules.
//
// The dealer owns one GameState and mutates it from a single goroutine, so
// nothing here takes locks. Player agents build their own copies of the board
// and player records from broadcasts (see package agent) and reuse the same
// ordering and legality helpers.
package engine

import (
	"errors"
	"fmt"
	"slices"
)

// ErrPlayerCount is returned when a game is created with no players.
var ErrPlayerCount = errors.New("invalid player count")

// GameState holds the authoritative state of one game.
type GameState struct {
	Path       *Path
	Players    []*Player
	Deck       *Deck
	Rules      Rules
	TurnNumber int
	Reason     EndReason

	// pendingDiscard is the id of a player who landed on Ri while holding
	// cards and still owes a discard, or -1.
	pendingDiscard int
}

// NewGame places numPlayers players on the start site in id order.
func NewGame(path *Path, deck *Deck, numPlayers int, rules Rules) (*GameState, error) {
	if numPlayers < 1 {
		return nil, fmt.Errorf("%w: %d", ErrPlayerCount, numPlayers)
	}
	g := &GameState{
		Path:           path,
		Deck:           deck,
		Rules:          rules,
		Players:        make([]*Player, numPlayers),
		pendingDiscard: -1,
	}
	for id := range numPlayers {
		g.Players[id] = NewPlayer(id, rules)
		path.Place(id, 0)
	}
	ArrangeOrder(g.Players)
	return g, nil
}

// TurnOrder returns player ids sorted by site ascending, then id ascending.
func TurnOrder(players []*Player) []int {
	ids := make([]int, len(players))
	for i := range players {
		ids[i] = i
	}
	slices.SortFunc(ids, func(a, b int) int {
		if d := players[a].Site - players[b].Site; d != 0 {
			return d
		}
		return players[a].ID - players[b].ID
	})
	return ids
}

// ArrangeOrder rewrites every player's Position from the current board.
func ArrangeOrder(players []*Player) {
	for rank, idx := range TurnOrder(players) {
		players[idx].Position = rank
	}
}

// NextPlayerToMove returns the furthest-back unfinished player, ties going
// to the lowest id. ok is false when every player has finished.
func NextPlayerToMove(players []*Player, path *Path) (id int, ok bool) {
	for _, idx := range TurnOrder(players) {
		if !players[idx].Finished(path) {
			return players[idx].ID, true
		}
	}
	return -1, false
}

// NextPlayerToMove returns the player whose turn is due.
func (g *GameState) NextPlayerToMove() (int, bool) {
	return NextPlayerToMove(g.Players, g.Path)
}

// PendingDiscard returns the player who owes a discard, if any.
func (g *GameState) PendingDiscard() (int, bool) {
	return g.pendingDiscard, g.pendingDiscard >= 0
}

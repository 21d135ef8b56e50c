package engine

import "fmt"

// EndReason says why a game ended. The zero value means it has not.
type EndReason uint8

const (
	EndNone          EndReason = iota
	EndFinished                // every player reached the goal
	EndDeckEmpty               // a draw hit an empty deck
	EndCommunication           // a player broke the protocol or its channel closed
	EndInterrupted             // the dealer was told to stop
)

var endReasonCodes = [...]string{
	EndNone:          "none",
	EndFinished:      "end",
	EndDeckEmpty:     "deck",
	EndCommunication: "comm",
	EndInterrupted:   "intr",
}

// String returns the wire code of the reason.
func (r EndReason) String() string {
	if int(r) < len(endReasonCodes) {
		return endReasonCodes[r]
	}
	return fmt.Sprintf("EndReason(%d)", uint8(r))
}

// ParseEndReason converts a wire code into an EndReason. "none" is rejected.
func ParseEndReason(code string) (EndReason, bool) {
	for i, c := range endReasonCodes {
		if c == code && EndReason(i) != EndNone {
			return EndReason(i), true
		}
	}
	return EndNone, false
}

// Normal reports whether the reason is an expected end of play rather than
// a failure.
func (r EndReason) Normal() bool {
	return r == EndFinished || r == EndDeckEmpty
}

// IsTerminal reports whether the game is over.
func (g *GameState) IsTerminal() bool { return g.Reason != EndNone }

// End marks the game over. The first reason recorded wins.
func (g *GameState) End(reason EndReason) {
	if g.Reason == EndNone {
		g.Reason = reason
	}
}

// AllFinished reports whether every player stands on the goal site.
func (g *GameState) AllFinished() bool {
	for _, p := range g.Players {
		if !p.Finished(g.Path) {
			return false
		}
	}
	return true
}

package agent

import (
	"fmt"

	engine "github.com/jason-s-yu/pathgame/engine"
)

// Kind names a player strategy.
type Kind string

const (
	KindA Kind = "A" // deterministic: draw first, else go far
	KindB Kind = "B" // catch-up heuristics, optionally driven by a human
)

// Strategy decides a player's moves from its local view.
type Strategy interface {
	Name() string
	// ChooseMove returns the step count for the next move.
	ChooseMove(s *AgentState) (int, error)
	// ChooseDiscard returns the card to give back on a Ri site.
	ChooseDiscard(s *AgentState) (engine.Card, error)
}

// Options configures NewStrategy.
type Options struct {
	MaxStep int     // A only; 0 means no limit
	Input   Chooser // B only; nil means always take the suggestion
}

// NewStrategy creates the strategy of the given kind.
func NewStrategy(kind Kind, opts Options) (Strategy, error) {
	switch kind {
	case KindA:
		if opts.MaxStep < 0 {
			return nil, fmt.Errorf("negative max step %d", opts.MaxStep)
		}
		return &PlayerA{MaxStep: opts.MaxStep}, nil
	case KindB:
		return &PlayerB{Input: opts.Input}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", kind)
	}
}

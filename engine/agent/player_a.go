package agent

import (
	"fmt"

	engine "github.com/jason-s-yu/pathgame/engine"
)

// PlayerA heads for the nearest draw site in reach, otherwise as far as it
// can go. Its choices depend only on the local view.
type PlayerA struct {
	// MaxStep limits how far ahead A looks. Zero means up to the next barrier.
	MaxStep int
}

func (*PlayerA) Name() string { return "A" }

func (p *PlayerA) ChooseMove(s *AgentState) (int, error) {
	site := s.Me().Site
	barrier := s.Path.FindNextBarrier(site)
	limit := barrier
	if p.MaxStep > 0 {
		limit = min(limit, site+p.MaxStep)
	}

	far := -1
	for _, d := range s.LegalMoves() {
		if d > limit {
			break
		}
		if s.Path.Sites[d].Type == engine.SiteDo {
			return engine.StepsTo(site, d), nil
		}
		far = d
	}
	if far < 0 {
		far = barrier
	}
	if _, err := s.ValidateMove(engine.StepsTo(site, far)); err != nil {
		return 0, err
	}
	return engine.StepsTo(site, far), nil
}

func (*PlayerA) ChooseDiscard(s *AgentState) (engine.Card, error) {
	c, ok := s.Me().Cards.Most()
	if !ok {
		return engine.NoCard, fmt.Errorf("%w: asked to discard with no cards", ErrDesync)
	}
	return c, nil
}

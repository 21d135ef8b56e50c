package engine

// CardPoints scores a tally by repeatedly taking one card of every letter
// still held and scoring that set by its size.
func CardPoints(t CardTally, rules Rules) int {
	points := 0
	for {
		distinct := 0
		for i := range t {
			if t[i] > 0 {
				t[i]--
				distinct++
			}
		}
		if distinct == 0 {
			return points
		}
		points += rules.SetPoints[distinct]
	}
}

// Score returns the player's final score: money plus card set points plus one
// point per V1 and V2 visit.
func (p *Player) Score(rules Rules) int {
	return p.Money + CardPoints(p.Cards, rules) + p.VisitsV1 + p.VisitsV2
}

// Scores returns the final score of every player, indexed by id.
func (g *GameState) Scores() []int {
	out := make([]int, len(g.Players))
	for i, p := range g.Players {
		out[i] = p.Score(g.Rules)
	}
	return out
}

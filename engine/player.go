package engine

// Player is the dealer's record of one player.
type Player struct {
	ID       int
	Money    int
	Site     int
	VisitsV1 int
	VisitsV2 int
	Cards    CardTally
	// Position is the player's rank in turn order; 0 moves next.
	Position int
}

// NewPlayer creates a player on the start site with the starting balance.
func NewPlayer(id int, rules Rules) *Player {
	return &Player{ID: id, Money: rules.StartingMoney}
}

// Finished reports whether the player has reached the goal site.
func (p *Player) Finished(path *Path) bool {
	return p.Site >= path.Last()
}

// recordVisit applies the visit counter for the site type, if any.
func (p *Player) recordVisit(t SiteType) {
	switch t {
	case SiteV1:
		p.VisitsV1++
	case SiteV2:
		p.VisitsV2++
	}
}

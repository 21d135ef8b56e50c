package engine

// applySiteEffect applies the effect of the site p just landed on.
func (g *GameState) applySiteEffect(p *Player, out *Outcome) {
	t := g.Path.Sites[p.Site].Type
	switch t {
	case SiteMo:
		p.Money += g.Rules.MoneyPerMo
		out.MoneyDelta = g.Rules.MoneyPerMo
	case SiteV1, SiteV2:
		p.recordVisit(t)
	case SiteDo:
		c, err := g.Deck.Next()
		if err != nil {
			g.End(EndDeckEmpty)
			return
		}
		p.Cards[c]++
		out.Drawn = c
	case SiteRi:
		if p.Cards.Total() > 0 {
			g.pendingDiscard = p.ID
			out.NeedsDiscard = true
		}
	}
}

package engine

import "testing"

// newTestGame builds a game over pathText with the given deck and player count.
func newTestGame(t *testing.T, pathText string, deck []Card, n int) *GameState {
	t.Helper()
	g, err := NewGame(mustPath(t, pathText), NewDeck(deck...), n, DefaultRules())
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

// place moves a player directly, bypassing the rules.
func place(g *GameState, id, site int) {
	p := g.Players[id]
	g.Path.Remove(id, p.Site)
	g.Path.Place(id, site)
	p.Site = site
	ArrangeOrder(g.Players)
}

// TestNewGame verifies starting money, placement and initial order.
func TestNewGame(t *testing.T) {
	g := newTestGame(t, scenarioPath, []Card{CardA}, 3)
	for i, p := range g.Players {
		if p.ID != i || p.Money != 7 || p.Site != 0 || p.Position != i {
			t.Errorf("player %d = %+v", i, *p)
		}
	}
	occ := g.Path.Sites[0].Occupants
	if len(occ) != 3 || occ[0] != 0 || occ[2] != 2 {
		t.Errorf("start occupants = %v, want [0 1 2]", occ)
	}
	if _, err := NewGame(mustPath(t, scenarioPath), NewDeck(CardA), 0, DefaultRules()); err == nil {
		t.Error("NewGame accepted zero players")
	}
}

// TestNextPlayerToMove verifies furthest-back first, lowest id on ties.
func TestNextPlayerToMove(t *testing.T) {
	g := newTestGame(t, scenarioPath, []Card{CardA}, 3)
	if id, ok := g.NextPlayerToMove(); !ok || id != 0 {
		t.Fatalf("all on start: next = %d, %v; want 0", id, ok)
	}

	place(g, 0, 2)
	if id, _ := g.NextPlayerToMove(); id != 1 {
		t.Errorf("after p0 moved: next = %d, want 1", id)
	}

	place(g, 1, 1)
	place(g, 2, 1)
	if id, _ := g.NextPlayerToMove(); id != 1 {
		t.Errorf("p1 and p2 tied on 1: next = %d, want 1", id)
	}
	if g.Players[1].Position != 0 || g.Players[2].Position != 1 || g.Players[0].Position != 2 {
		t.Errorf("positions = %d %d %d; want 2 0 1",
			g.Players[0].Position, g.Players[1].Position, g.Players[2].Position)
	}
}

// TestNextPlayerSkipsFinished verifies players on the goal never move again.
func TestNextPlayerSkipsFinished(t *testing.T) {
	g := newTestGame(t, scenarioPath, []Card{CardA}, 2)
	place(g, 0, 7)
	if id, ok := g.NextPlayerToMove(); !ok || id != 1 {
		t.Fatalf("next = %d, %v; want 1", id, ok)
	}
	place(g, 1, 7)
	if _, ok := g.NextPlayerToMove(); ok {
		t.Error("NextPlayerToMove reported a mover with everyone finished")
	}
	if !g.AllFinished() {
		t.Error("AllFinished = false with everyone on the goal")
	}
}

// TestTurnOrderTotality plays one-step moves and checks that every reachable
// state has exactly one mover: the minimum (site, id) unfinished player.
func TestTurnOrderTotality(t *testing.T) {
	g := newTestGame(t, "10;::-Mo2V12::-Do2Ri2V22Mo2Do2::-", []Card{CardA, CardB, CardC, CardD, CardE, CardA, CardB, CardC}, 4)
	seen := map[int]bool{}
	for turn := 0; !g.IsTerminal() && turn < 200; turn++ {
		id, ok := g.NextPlayerToMove()
		if !ok {
			t.Fatal("no mover in a non-terminal state")
		}
		for _, p := range g.Players {
			if p.Finished(g.Path) {
				continue
			}
			mover := g.Players[id]
			if p.Site < mover.Site || (p.Site == mover.Site && p.ID < mover.ID) {
				t.Fatalf("turn %d: mover %d at %d but player %d at %d is further back", turn, id, mover.Site, p.ID, p.Site)
			}
		}
		seen[id] = true

		dests := LegalDestinations(g.Path, g.Players[id].Site)
		if len(dests) == 0 {
			t.Fatalf("turn %d: player %d has no legal move", turn, id)
		}
		if _, err := g.ApplyMove(id, StepsTo(g.Players[id].Site, dests[0])); err != nil {
			t.Fatalf("turn %d: ApplyMove: %v", turn, err)
		}
		if pending, ok := g.PendingDiscard(); ok {
			c, _ := g.Players[pending].Cards.Most()
			if err := g.Discard(pending, c); err != nil {
				t.Fatalf("turn %d: Discard: %v", turn, err)
			}
		}
	}
	if !g.IsTerminal() {
		t.Fatal("game did not terminate")
	}
	if len(seen) != 4 {
		t.Errorf("only %d players ever moved", len(seen))
	}
}

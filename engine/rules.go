package engine

// Rules holds the ruleset constants. They are not negotiated over the wire:
// dealer and players must be started with the same Rules.
type Rules struct {
	StartingMoney int
	MoneyPerMo    int
	// SetPoints[k] scores a set of k distinct card letters.
	SetPoints [NumCards + 1]int
}

// DefaultRules returns the standard ruleset.
func DefaultRules() Rules {
	return Rules{
		StartingMoney: 7,
		MoneyPerMo:    3,
		SetPoints:     [NumCards + 1]int{0, 1, 3, 5, 7, 10},
	}
}

// OrDefault returns r, or DefaultRules when r is the zero value.
func (r Rules) OrDefault() Rules {
	if r == (Rules{}) {
		return DefaultRules()
	}
	return r
}

package engine

import "fmt"

// SiteType is the kind of a site on the path.
type SiteType uint8

const (
	SiteBarrier SiteType = iota // ::
	SiteMo                      // Mo: money
	SiteV1                      // V1: visit counted
	SiteV2                      // V2: visit counted
	SiteDo                      // Do: draw a card
	SiteRi                      // Ri: discard a card
)

// siteCodes maps each SiteType to its two-character code in path files.
var siteCodes = [...]string{
	SiteBarrier: "::",
	SiteMo:      "Mo",
	SiteV1:      "V1",
	SiteV2:      "V2",
	SiteDo:      "Do",
	SiteRi:      "Ri",
}

// String returns the two-character site code.
func (t SiteType) String() string {
	if int(t) < len(siteCodes) {
		return siteCodes[t]
	}
	return fmt.Sprintf("SiteType(%d)", uint8(t))
}

// ParseSiteType converts a two-character code into a SiteType.
func ParseSiteType(code string) (SiteType, bool) {
	for i, c := range siteCodes {
		if c == code {
			return SiteType(i), true
		}
	}
	return 0, false
}

// Card is one of the five card symbols A through E.
type Card uint8

const (
	CardA Card = iota
	CardB
	CardC
	CardD
	CardE
)

// NumCards is the size of the card alphabet.
const NumCards = 5

// NoCard marks the absence of a card in outcomes.
const NoCard Card = 0xFF

// String returns the card letter.
func (c Card) String() string {
	if c < NumCards {
		return string(rune('A' + c))
	}
	return "-"
}

// Valid reports whether c is a member of the alphabet.
func (c Card) Valid() bool { return c < NumCards }

// ParseCard converts a single letter into a Card.
func ParseCard(b byte) (Card, bool) {
	if b < 'A' || b > 'E' {
		return NoCard, false
	}
	return Card(b - 'A'), true
}

// CardTally counts how many of each card a player holds.
type CardTally [NumCards]int

// Total returns the number of cards held.
func (t CardTally) Total() int {
	n := 0
	for _, c := range t {
		n += c
	}
	return n
}

// Most returns the card held in the largest number, ties going to the
// earliest letter. ok is false when no cards are held.
func (t CardTally) Most() (Card, bool) {
	best, bestN := NoCard, 0
	for i, n := range t {
		if n > bestN {
			best, bestN = Card(i), n
		}
	}
	return best, bestN > 0
}

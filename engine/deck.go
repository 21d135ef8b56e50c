package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidDeckFile is returned for any malformed deck description.
	ErrInvalidDeckFile = errors.New("invalid deck file")
	// ErrDeckEmpty is returned when a draw is attempted past the last card.
	ErrDeckEmpty = errors.New("deck is empty")
)

// Deck is an ordered card sequence with a draw cursor. Added cards go to the
// tail, so draws stay first-in first-out.
type Deck struct {
	cards  []Card
	cursor int
}

// NewDeck builds a deck from cards in draw order.
func NewDeck(cards ...Card) *Deck {
	return &Deck{cards: append([]Card(nil), cards...)}
}

// LoadDeck parses a deck description: a decimal count followed by that many
// card letters, e.g. "5ABCDE".
func LoadDeck(text string) (*Deck, error) {
	text = strings.TrimRight(text, "\r\n")
	i := 0
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	n, err := strconv.Atoi(text[:i])
	if err != nil || n < 1 {
		return nil, fmt.Errorf("%w: bad card count %q", ErrInvalidDeckFile, text[:i])
	}
	letters := text[i:]
	if len(letters) != n {
		return nil, fmt.Errorf("%w: expected %d cards, got %d", ErrInvalidDeckFile, n, len(letters))
	}
	d := &Deck{cards: make([]Card, 0, n)}
	for j := 0; j < len(letters); j++ {
		c, ok := ParseCard(letters[j])
		if !ok {
			return nil, fmt.Errorf("%w: unknown card %q", ErrInvalidDeckFile, letters[j])
		}
		d.cards = append(d.cards, c)
	}
	return d, nil
}

// Next draws the card at the cursor.
func (d *Deck) Next() (Card, error) {
	if d.cursor >= len(d.cards) {
		return NoCard, ErrDeckEmpty
	}
	c := d.cards[d.cursor]
	d.cursor++
	return c, nil
}

// Add appends a card to the tail of the deck.
func (d *Deck) Add(c Card) {
	d.cards = append(d.cards, c)
}

// Remaining returns the number of cards left to draw.
func (d *Deck) Remaining() int { return len(d.cards) - d.cursor }

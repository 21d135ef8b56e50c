// internal/protocol/message.go
package protocol

import (
	engine "github.com/jason-s-yu/pathgame/engine"
)

// Kind identifies a protocol message.
type Kind uint8

// Message kinds, in the order they usually appear in a game.
const (
	KindReady         Kind = iota + 1 // P->D "^"
	KindPath                          // D->P "PATH <line>"
	KindYourTurn                      // D->P "YT <site>,<money>,<deck>"
	KindMove                          // P->D "DO <steps>"
	KindAskDiscard                    // D->P "RI"
	KindDiscard                       // P->D "RD <card>"
	KindHappening                     // D->P "HAP <player>,<site>,<money>,<card>"
	KindDone                          // D->P "DONE <reason>"
)

var kindKeywords = map[Kind]string{
	KindReady:      "^",
	KindPath:       "PATH",
	KindYourTurn:   "YT",
	KindMove:       "DO",
	KindAskDiscard: "RI",
	KindDiscard:    "RD",
	KindHappening:  "HAP",
	KindDone:       "DONE",
}

func (k Kind) String() string {
	if s, ok := kindKeywords[k]; ok {
		return s
	}
	return "?"
}

// Message is one decoded protocol line. Only the fields used by Kind are set.
type Message struct {
	Kind Kind

	Path string // PATH

	Player int // HAP
	Site   int // YT, HAP
	Money  int // YT, HAP
	Deck   int // YT
	Steps  int // DO

	// Card and Delta describe a card change: Delta is +1 for a draw, -1 for a
	// discard and 0 when there is nothing to show. RD uses Card alone.
	Card  engine.Card
	Delta int

	Reason engine.EndReason // DONE
}

// Ready is the player's handshake.
func Ready() Message { return Message{Kind: KindReady} }

// PathMessage carries the encoded board.
func PathMessage(line string) Message { return Message{Kind: KindPath, Path: line} }

// YourTurn is the turn cue sent to the mover.
func YourTurn(site, money, deck int) Message {
	return Message{Kind: KindYourTurn, Site: site, Money: money, Deck: deck}
}

// Move asks the dealer to move steps sites forward.
func Move(steps int) Message { return Message{Kind: KindMove, Steps: steps} }

// AskDiscard asks the mover for a card to return.
func AskDiscard() Message { return Message{Kind: KindAskDiscard} }

// Discard returns card c to the dealer.
func Discard(c engine.Card) Message { return Message{Kind: KindDiscard, Card: c} }

// Happened broadcasts a move. Pass delta 0 to hide the card.
func Happened(player, site, money int, c engine.Card, delta int) Message {
	m := Message{Kind: KindHappening, Player: player, Site: site, Money: money, Card: engine.NoCard}
	if delta != 0 && c.Valid() {
		m.Card, m.Delta = c, delta
	}
	return m
}

// Public returns a copy of m safe to show to anyone but the mover.
func (m Message) Public() Message {
	if m.Kind == KindHappening {
		m.Card, m.Delta = engine.NoCard, 0
	}
	return m
}

// Done ends the game for the receiver.
func Done(reason engine.EndReason) Message { return Message{Kind: KindDone, Reason: reason} }

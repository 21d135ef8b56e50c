// internal/protocol/codec.go
package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	engine "github.com/jason-s-yu/pathgame/engine"
)

// ErrMalformed is returned for any line outside the message grammar.
var ErrMalformed = errors.New("malformed message")

// Encode renders m as a protocol line without the trailing newline.
func Encode(m Message) string {
	switch m.Kind {
	case KindReady, KindAskDiscard:
		return m.Kind.String()
	case KindPath:
		return "PATH " + m.Path
	case KindYourTurn:
		return fmt.Sprintf("YT %d,%d,%d", m.Site, m.Money, m.Deck)
	case KindMove:
		return fmt.Sprintf("DO %d", m.Steps)
	case KindDiscard:
		return "RD " + m.Card.String()
	case KindHappening:
		return fmt.Sprintf("HAP %d,%d,%d,%s", m.Player, m.Site, m.Money, encodeCard(m.Card, m.Delta))
	case KindDone:
		return "DONE " + m.Reason.String()
	}
	return ""
}

func encodeCard(c engine.Card, delta int) string {
	switch {
	case delta > 0 && c.Valid():
		return "+" + c.String()
	case delta < 0 && c.Valid():
		return "-" + c.String()
	}
	return "0"
}

// Decode parses one line. A single trailing newline is tolerated; any other
// stray whitespace is malformed.
func Decode(line string) (Message, error) {
	line = strings.TrimSuffix(line, "\n")
	switch line {
	case "^":
		return Ready(), nil
	case "RI":
		return AskDiscard(), nil
	}

	keyword, body, ok := strings.Cut(line, " ")
	if !ok || body == "" {
		return Message{}, malformed(line)
	}
	switch keyword {
	case "PATH":
		if strings.ContainsAny(body, " \t\r\n") {
			return Message{}, malformed(line)
		}
		return PathMessage(body), nil

	case "YT":
		n, err := fields(body, 3, 1)
		if err != nil {
			return Message{}, malformed(line)
		}
		return YourTurn(n[0], n[1], n[2]), nil

	case "DO":
		steps, err := natural(body)
		if err != nil || steps < 1 {
			return Message{}, malformed(line)
		}
		return Move(steps), nil

	case "RD":
		if len(body) != 1 {
			return Message{}, malformed(line)
		}
		c, ok := engine.ParseCard(body[0])
		if !ok {
			return Message{}, malformed(line)
		}
		return Discard(c), nil

	case "HAP":
		head, cardField, ok := cutLast(body)
		if !ok {
			return Message{}, malformed(line)
		}
		n, err := fields(head, 3, 2)
		if err != nil {
			return Message{}, malformed(line)
		}
		c, delta, err := decodeCard(cardField)
		if err != nil {
			return Message{}, malformed(line)
		}
		return Happened(n[0], n[1], n[2], c, delta), nil

	case "DONE":
		r, ok := engine.ParseEndReason(body)
		if !ok {
			return Message{}, malformed(line)
		}
		return Done(r), nil
	}
	return Message{}, malformed(line)
}

func malformed(line string) error {
	return fmt.Errorf("%w: %q", ErrMalformed, line)
}

// fields parses n comma-separated numbers. Only the field at index signed
// (money) may be negative.
func fields(s string, n, signed int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, ErrMalformed
	}
	out := make([]int, n)
	for i, p := range parts {
		parse := natural
		if i == signed {
			parse = integer
		}
		v, err := parse(p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// integer parses a plain decimal number with an optional leading '-'.
func integer(s string) (int, error) {
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		v, err := natural(rest)
		if err != nil || v == 0 {
			return 0, ErrMalformed
		}
		return -v, nil
	}
	return natural(s)
}

// natural parses a plain decimal number: digits only, no sign or spaces.
func natural(s string) (int, error) {
	if s == "" || len(s) > 9 {
		return 0, ErrMalformed
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, ErrMalformed
		}
	}
	return strconv.Atoi(s)
}

func cutLast(s string) (head, tail string, ok bool) {
	i := strings.LastIndexByte(s, ',')
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

func decodeCard(s string) (engine.Card, int, error) {
	if s == "0" {
		return engine.NoCard, 0, nil
	}
	if len(s) != 2 {
		return engine.NoCard, 0, ErrMalformed
	}
	c, ok := engine.ParseCard(s[1])
	if !ok {
		return engine.NoCard, 0, ErrMalformed
	}
	switch s[0] {
	case '+':
		return c, 1, nil
	case '-':
		return c, -1, nil
	}
	return engine.NoCard, 0, ErrMalformed
}

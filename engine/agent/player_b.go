package agent

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	engine "github.com/jason-s-yu/pathgame/engine"
)

// ErrInvalidInput is returned when interactive input is not a legal choice.
var ErrInvalidInput = errors.New("invalid input")

// Chooser asks an outside party to pick from a list of options.
type Chooser interface {
	// Ask shows prompt and returns one line of input without its newline.
	Ask(prompt string) (string, error)
}

// LineChooser reads answers line by line from r and writes prompts to w.
type LineChooser struct {
	r *bufio.Reader
	w io.Writer
}

// NewLineChooser wraps a terminal or a scripted input file.
func NewLineChooser(r io.Reader, w io.Writer) *LineChooser {
	return &LineChooser{r: bufio.NewReader(r), w: w}
}

func (c *LineChooser) Ask(prompt string) (string, error) {
	if _, err := io.WriteString(c.w, prompt); err != nil {
		return "", err
	}
	line, err := c.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// PlayerB tries to catch up when last, then collects money, cards and V2
// visits. With Input set, every suggestion is offered to a human first.
type PlayerB struct {
	Input Chooser
}

func (*PlayerB) Name() string { return "B" }

// Suggest returns B's preferred destination.
func (*PlayerB) Suggest(s *AgentState) int {
	me := s.Me()
	next := me.Site + 1
	if s.Path.Available(next) && allAhead(s, me) {
		return next
	}
	if me.Money%2 != 0 {
		if d := engine.NearestOfType(s.Path, me.Site, engine.SiteMo); d >= 0 {
			return d
		}
	}
	if d := engine.NearestOfType(s.Path, me.Site, engine.SiteDo); d >= 0 {
		return d
	}
	if d := engine.NearestOfType(s.Path, me.Site, engine.SiteV2); d >= 0 {
		return d
	}
	if moves := s.LegalMoves(); len(moves) > 0 {
		return moves[0]
	}
	return s.Path.FindNextBarrier(me.Site)
}

func allAhead(s *AgentState, me *engine.Player) bool {
	for _, p := range s.Players {
		if p.ID != me.ID && p.Site <= me.Site {
			return false
		}
	}
	return true
}

func (b *PlayerB) ChooseMove(s *AgentState) (int, error) {
	site := s.Me().Site
	dest := b.Suggest(s)
	if b.Input != nil {
		moves := s.LegalMoves()
		opts := make([]string, len(moves))
		for i, d := range moves {
			opts[i] = strconv.Itoa(d)
		}
		prompt := fmt.Sprintf("Player %d at site %d. Move to [%s] (enter for %d): ",
			s.PlayerID, site, strings.Join(opts, ","), dest)
		answer, err := b.ask(prompt)
		if err != nil {
			return 0, err
		}
		if answer != "" {
			d, err := strconv.Atoi(answer)
			if err != nil || !slices.Contains(moves, d) {
				return 0, fmt.Errorf("%w: %q is not a legal site", ErrInvalidInput, answer)
			}
			dest = d
		}
	}
	steps := engine.StepsTo(site, dest)
	if _, err := s.ValidateMove(steps); err != nil {
		return 0, err
	}
	return steps, nil
}

func (b *PlayerB) ChooseDiscard(s *AgentState) (engine.Card, error) {
	me := s.Me()
	c, ok := me.Cards.Most()
	if !ok {
		return engine.NoCard, fmt.Errorf("%w: asked to discard with no cards", ErrDesync)
	}
	if b.Input == nil {
		return c, nil
	}
	var held []string
	for i, n := range me.Cards {
		if n > 0 {
			held = append(held, fmt.Sprintf("%s:%d", engine.Card(i), n))
		}
	}
	answer, err := b.ask(fmt.Sprintf("Discard one of [%s] (enter for %s): ", strings.Join(held, ","), c))
	if err != nil {
		return engine.NoCard, err
	}
	if answer == "" {
		return c, nil
	}
	if len(answer) != 1 {
		return engine.NoCard, fmt.Errorf("%w: %q is not a card", ErrInvalidInput, answer)
	}
	pick, ok := engine.ParseCard(answer[0])
	if !ok || me.Cards[pick] == 0 {
		return engine.NoCard, fmt.Errorf("%w: %q is not a held card", ErrInvalidInput, answer)
	}
	return pick, nil
}

func (b *PlayerB) ask(prompt string) (string, error) {
	answer, err := b.Input.Ask(prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return strings.TrimSpace(answer), nil
}

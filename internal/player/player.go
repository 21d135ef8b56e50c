// internal/player/player.go
package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	engine "github.com/jason-s-yu/pathgame/engine"
	"github.com/jason-s-yu/pathgame/engine/agent"
	"github.com/jason-s-yu/pathgame/internal/protocol"
	"github.com/sirupsen/logrus"
)

// Player exit codes.
const (
	ExitNormal        = 0
	ExitArgs          = 1
	ExitPlayerCount   = 2
	ExitID            = 3
	ExitPath          = 4
	ExitEarlyGameOver = 5
	ExitComm          = 6
	ExitInput         = 7
)

var (
	ErrUsage         = errors.New("usage: player pcount ID")
	ErrPlayerCount   = errors.New("invalid player count")
	ErrPlayerID      = errors.New("invalid ID")
	ErrEarlyGameOver = errors.New("early game over")
	ErrCommunication = errors.New("communication error")
)

// Channel is the player's end of its link to the dealer.
type Channel interface {
	Send(m protocol.Message) error
	Receive(ctx context.Context) (protocol.Message, error)
}

// ParseArgs checks the "<numPlayers> <id>" arguments.
func ParseArgs(args []string) (numPlayers, id int, err error) {
	if len(args) != 2 {
		return 0, 0, ErrUsage
	}
	numPlayers, err = strconv.Atoi(args[0])
	if err != nil || numPlayers < 1 {
		return 0, 0, fmt.Errorf("%w: %q", ErrPlayerCount, args[0])
	}
	id, err = strconv.Atoi(args[1])
	if err != nil || id < 0 || id >= numPlayers {
		return 0, 0, fmt.Errorf("%w: %q", ErrPlayerID, args[1])
	}
	return numPlayers, id, nil
}

// ExitCode maps an error returned by ParseArgs or Client.Run to the
// player's exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitNormal
	case errors.Is(err, ErrUsage):
		return ExitArgs
	case errors.Is(err, ErrPlayerCount):
		return ExitPlayerCount
	case errors.Is(err, ErrPlayerID):
		return ExitID
	case errors.Is(err, engine.ErrInvalidPathFile):
		return ExitPath
	case errors.Is(err, ErrEarlyGameOver):
		return ExitEarlyGameOver
	case errors.Is(err, agent.ErrInvalidInput):
		return ExitInput
	}
	return ExitComm
}

// Outcome is what a player knows when its game ends normally.
type Outcome struct {
	Reason engine.EndReason
	Score  int // own score as far as this player can tell
	Turns  int
}

// Client plays one game for one agent.
type Client struct {
	NumPlayers int
	ID         int
	Strategy   agent.Strategy
	// Out, when set, receives the board after every broadcast.
	Out io.Writer
	// Rules must match the dealer's. NewClient sets DefaultRules.
	Rules engine.Rules

	log   *logrus.Entry
	state *agent.AgentState
}

// NewClient creates a client for player id of numPlayers.
func NewClient(numPlayers, id int, strategy agent.Strategy, logger *logrus.Logger) *Client {
	return &Client{
		NumPlayers: numPlayers,
		ID:         id,
		Strategy:   strategy,
		Rules:      engine.DefaultRules(),
		log:        logger.WithFields(logrus.Fields{"player": id, "strategy": strategy.Name()}),
	}
}

// State returns the client's local view, nil before the board arrived.
func (c *Client) State() *agent.AgentState { return c.state }

// Run performs the handshake and plays until DONE. A normal end returns a
// nil error; an abnormal DONE returns ErrEarlyGameOver.
func (c *Client) Run(ctx context.Context, ch Channel) (Outcome, error) {
	if err := ch.Send(protocol.Ready()); err != nil {
		return Outcome{}, commError(err)
	}

	msg, err := ch.Receive(ctx)
	if err != nil {
		return Outcome{}, commError(err)
	}
	switch msg.Kind {
	case protocol.KindPath:
	case protocol.KindDone:
		return Outcome{Reason: msg.Reason}, c.finish(msg.Reason)
	default:
		return Outcome{}, commError(fmt.Errorf("expected PATH, got %s", msg.Kind))
	}
	c.state, err = agent.NewAgentState(msg.Path, c.NumPlayers, c.ID, c.Rules.OrDefault())
	if err != nil {
		return Outcome{}, err
	}
	c.render()

	// moved is set between our DO and the broadcast that resolves it; RI is
	// only valid in that window.
	moved := false
	for {
		msg, err := ch.Receive(ctx)
		if err != nil {
			return c.outcome(), commError(err)
		}
		switch msg.Kind {
		case protocol.KindYourTurn:
			if moved {
				return c.outcome(), commError(errors.New("turn cue before our move was resolved"))
			}
			if err := c.takeTurn(ch, msg); err != nil {
				return c.outcome(), err
			}
			moved = true

		case protocol.KindAskDiscard:
			if !moved {
				return c.outcome(), commError(errors.New("discard request outside our move"))
			}
			if err := c.discard(ch); err != nil {
				return c.outcome(), err
			}

		case protocol.KindHappening:
			if moved && msg.Player != c.ID {
				return c.outcome(), commError(fmt.Errorf("broadcast for player %d while our move was pending", msg.Player))
			}
			err := c.state.Apply(agent.Happening{
				Player: msg.Player, Site: msg.Site, Money: msg.Money, Card: msg.Card, Delta: msg.Delta,
			})
			if err != nil {
				return c.outcome(), commError(err)
			}
			moved = false
			c.render()

		case protocol.KindDone:
			out := c.outcome()
			out.Reason = msg.Reason
			return out, c.finish(msg.Reason)

		default:
			return c.outcome(), commError(fmt.Errorf("unexpected %s", msg.Kind))
		}
	}
}

func (c *Client) takeTurn(ch Channel, msg protocol.Message) error {
	if err := c.state.CheckTurn(msg.Site, msg.Money, msg.Deck); err != nil {
		return commError(err)
	}
	steps, err := c.Strategy.ChooseMove(c.state)
	if err != nil {
		if errors.Is(err, agent.ErrInvalidInput) {
			return err
		}
		return commError(err)
	}
	c.log.WithFields(logrus.Fields{"site": msg.Site, "steps": steps}).Debug("moving")
	if err := ch.Send(protocol.Move(steps)); err != nil {
		return commError(err)
	}
	return nil
}

func (c *Client) discard(ch Channel) error {
	card, err := c.Strategy.ChooseDiscard(c.state)
	if err != nil {
		if errors.Is(err, agent.ErrInvalidInput) {
			return err
		}
		return commError(err)
	}
	c.log.WithField("card", card).Debug("returning card")
	if err := ch.Send(protocol.Discard(card)); err != nil {
		return commError(err)
	}
	return nil
}

func (c *Client) finish(reason engine.EndReason) error {
	c.log.WithField("reason", reason).Info("game over")
	if !reason.Normal() {
		return fmt.Errorf("%w: %s", ErrEarlyGameOver, reason)
	}
	return nil
}

func (c *Client) outcome() Outcome {
	if c.state == nil {
		return Outcome{}
	}
	return Outcome{Score: c.state.Score(), Turns: c.state.Turns}
}

func (c *Client) render() {
	if c.Out == nil || c.state == nil {
		return
	}
	if err := engine.RenderPath(c.Out, c.state.Path); err != nil {
		c.log.WithError(err).Warn("render board")
	}
}

func commError(err error) error {
	return fmt.Errorf("%w: %v", ErrCommunication, err)
}

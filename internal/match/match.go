// internal/match/match.go
package match

import (
	"context"
	"fmt"
	"io"

	engine "github.com/jason-s-yu/pathgame/engine"
	"github.com/jason-s-yu/pathgame/engine/agent"
	"github.com/jason-s-yu/pathgame/internal/game"
	"github.com/jason-s-yu/pathgame/internal/player"
	"github.com/jason-s-yu/pathgame/internal/transport"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Seat is one player of a match. Exactly one of Strategy and Conn is set: a
// Strategy plays in-process over a pipe, a Conn is an already running player
// such as a child process.
type Seat struct {
	Strategy agent.Strategy
	Conn     game.PlayerConn
}

// Match wires a dealer to its seats.
type Match struct {
	Path  *engine.Path
	Deck  *engine.Deck
	Seats []Seat
	// Rules is shared by the dealer and the in-process players; the zero
	// value means DefaultRules.
	Rules  engine.Rules
	Logger *logrus.Logger
	// Setup, when set, is called with the dealer before the game starts, to
	// attach sinks and outputs.
	Setup func(*game.Dealer)
}

// Report is the result of a match. Outcomes holds what each in-process
// player saw; entries for external seats are zero.
type Report struct {
	Result   game.Result
	Outcomes []player.Outcome
}

// Run plays the match to the end. The dealer's error takes precedence; an
// in-process player's error is returned only when the dealer finished
// normally.
func (m *Match) Run(ctx context.Context) (Report, error) {
	if len(m.Seats) == 0 {
		return Report{}, game.Configuration(fmt.Errorf("%w: 0", engine.ErrPlayerCount))
	}
	logger := m.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	for id, seat := range m.Seats {
		if (seat.Strategy == nil) == (seat.Conn == nil) {
			return Report{}, game.Configuration(fmt.Errorf("seat %d: need exactly one of strategy and connection", id))
		}
	}

	rules := m.Rules.OrDefault()
	conns := make([]game.PlayerConn, len(m.Seats))
	var closers []io.Closer
	report := Report{Outcomes: make([]player.Outcome, len(m.Seats))}
	var players errgroup.Group
	for id, seat := range m.Seats {
		if seat.Conn != nil {
			conns[id] = seat.Conn
			continue
		}
		dealerEnd, playerEnd := transport.Pipe()
		conns[id] = dealerEnd
		closers = append(closers, dealerEnd)
		client := player.NewClient(len(m.Seats), id, seat.Strategy, logger)
		client.Rules = rules
		players.Go(func() error {
			defer playerEnd.Close()
			out, err := client.Run(ctx, playerEnd)
			report.Outcomes[id] = out
			if err != nil {
				return fmt.Errorf("player %d: %w", id, err)
			}
			return nil
		})
	}

	dealer, err := game.NewDealer(m.Path, m.Deck, conns, rules, logger)
	if err != nil {
		closeAll(closers)
		players.Wait()
		return report, err
	}
	if m.Setup != nil {
		m.Setup(dealer)
	}

	report.Result, err = dealer.Run(ctx)
	// Players still waiting on a dead dealer see their channel close.
	closeAll(closers)
	perr := players.Wait()
	if err != nil {
		return report, err
	}
	return report, perr
}

func closeAll(cs []io.Closer) {
	for _, c := range cs {
		c.Close()
	}
}

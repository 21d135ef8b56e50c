// internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	engine "github.com/jason-s-yu/pathgame/engine"
	"github.com/jason-s-yu/pathgame/internal/cache"
	"github.com/jason-s-yu/pathgame/internal/database"
	"github.com/jason-s-yu/pathgame/internal/protocol"
	"github.com/sirupsen/logrus"
)

// PlayerConn is the dealer's end of one player's channel. *protocol.Conn
// implements it.
type PlayerConn interface {
	Send(m protocol.Message) error
	Receive(ctx context.Context) (protocol.Message, error)
}

// ActionSink receives every action record. *cache.Publisher implements it.
type ActionSink interface {
	Publish(ctx context.Context, rec cache.GameActionRecord) error
}

// ResultSink stores the final result. *database.Store implements it.
type ResultSink interface {
	SaveResult(ctx context.Context, r database.GameResult) error
}

// Result summarises a finished game.
type Result struct {
	GameID uuid.UUID
	Reason engine.EndReason
	Scores []int
}

// Dealer runs one game: it owns the authoritative state and talks to every
// player over its channel. Run must be called once.
type Dealer struct {
	ID     uuid.UUID
	Engine *engine.GameState
	// Mu guards Engine against readers on other goroutines (see PublicState).
	// The dealer goroutine is the only writer.
	Mu sync.Mutex

	players []PlayerConn
	log     *logrus.Entry

	// Out receives the rendered board after every turn and the final scores.
	Out io.Writer
	// Optional sinks. Failures are logged and never end the game.
	Actions ActionSink
	Results ResultSink
	// BroadcastFn receives every public line (HAP with the card hidden, DONE).
	BroadcastFn func(line string)
	// OnGameEnd is called once with the result, after DONE went out.
	OnGameEnd func(Result)

	actionIndex int
	pending     sync.WaitGroup
	failure     error
}

// NewDealer creates a dealer for a new game over path and deck, one player
// per connection, in id order. Zero rules means DefaultRules.
func NewDealer(path *engine.Path, deck *engine.Deck, players []PlayerConn, rules engine.Rules, logger *logrus.Logger) (*Dealer, error) {
	state, err := engine.NewGame(path, deck, len(players), rules.OrDefault())
	if err != nil {
		return nil, Configuration(err)
	}
	id := uuid.New()
	return &Dealer{
		ID:      id,
		Engine:  state,
		players: players,
		log:     logger.WithField("game", id),
		Out:     io.Discard,
	}, nil
}

// Run plays the game to the end. The returned error is nil for a normal end
// (reason end or deck) and a *SessionError otherwise. Cancelling ctx ends
// the game with reason intr.
func (d *Dealer) Run(ctx context.Context) (Result, error) {
	d.log.WithField("players", len(d.players)).Info("game starting")

	if err := d.handshake(ctx); err != nil {
		d.fail(ctx, err)
		return d.EndGame(), d.failure
	}
	d.logAction(cache.DealerActor, cache.ActionGameStart, map[string]any{
		"path":    d.Engine.Path.Encode(),
		"players": len(d.players),
		"deck":    d.Engine.Deck.Remaining(),
	})
	d.render(-1)

	for !d.Engine.IsTerminal() {
		if err := ctx.Err(); err != nil {
			d.fail(ctx, err)
			break
		}
		if err := d.playTurn(ctx); err != nil {
			d.fail(ctx, err)
			break
		}
	}
	return d.EndGame(), d.failure
}

// handshake waits for every player's ready line, then sends the board.
func (d *Dealer) handshake(ctx context.Context) error {
	for id, conn := range d.players {
		msg, err := conn.Receive(ctx)
		if err != nil {
			return fmt.Errorf("player %d handshake: %w", id, err)
		}
		if msg.Kind != protocol.KindReady {
			return fmt.Errorf("player %d handshake: %w: got %s", id, ErrProtocolViolation, msg.Kind)
		}
	}
	line := d.Engine.Path.Encode()
	for id, conn := range d.players {
		if err := conn.Send(protocol.PathMessage(line)); err != nil {
			return fmt.Errorf("player %d: send path: %w", id, err)
		}
	}
	return nil
}

// playTurn runs one full turn for the player due to move.
func (d *Dealer) playTurn(ctx context.Context) error {
	id, ok := d.Engine.NextPlayerToMove()
	if !ok {
		return fmt.Errorf("no player to move in a running game")
	}
	p := d.Engine.Players[id]
	conn := d.players[id]

	if err := conn.Send(protocol.YourTurn(p.Site, p.Money, d.Engine.Deck.Remaining())); err != nil {
		return fmt.Errorf("player %d: send turn: %w", id, err)
	}
	msg, err := conn.Receive(ctx)
	if err != nil {
		return fmt.Errorf("player %d: %w", id, err)
	}
	if msg.Kind != protocol.KindMove {
		return fmt.Errorf("player %d: %w: expected DO, got %s", id, ErrProtocolViolation, msg.Kind)
	}

	out, err := d.applyMove(id, msg.Steps)
	if err != nil {
		return err
	}
	d.log.WithFields(logrus.Fields{"player": id, "site": out.Site, "steps": msg.Steps}).Debug("player moved")
	d.logAction(id, cache.ActionPlayerMove, map[string]any{
		"from": out.From, "site": out.Site, "steps": msg.Steps, "money": p.Money,
	})

	if d.Engine.Reason == engine.EndDeckEmpty {
		d.log.WithField("player", id).Info("deck exhausted")
		return nil
	}

	hap := happeningFor(out, p.Money)
	if out.NeedsDiscard {
		c, err := d.collectDiscard(ctx, id)
		if err != nil {
			return err
		}
		hap = protocol.Happened(id, out.Site, p.Money, c, -1)
	}
	if err := d.broadcastHappening(id, hap); err != nil {
		return err
	}
	d.render(id)
	return nil
}

// broadcastHappening sends hap to the mover and the public copy to everyone
// else, including spectators.
func (d *Dealer) broadcastHappening(mover int, hap protocol.Message) error {
	public := hap.Public()
	for id, conn := range d.players {
		m := public
		if id == mover {
			m = hap
		}
		if err := conn.Send(m); err != nil {
			return fmt.Errorf("player %d: send broadcast: %w", id, err)
		}
	}
	d.fireLine(protocol.Encode(public))
	return nil
}

// fail records the first failure and ends the game with the matching reason.
func (d *Dealer) fail(ctx context.Context, err error) {
	if d.failure != nil {
		return
	}
	d.Mu.Lock()
	defer d.Mu.Unlock()
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		d.Engine.End(engine.EndInterrupted)
		d.failure = Protocol(fmt.Errorf("%w: %v", ErrInterrupted, err))
		d.log.Warn("game interrupted")
		return
	}
	d.Engine.End(engine.EndCommunication)
	d.failure = Protocol(err)
	d.log.WithError(err).Error("communication error")
}

// EndGame sends DONE to every player, writes the scores, stores the result
// and fires OnGameEnd. Write errors to players are ignored.
func (d *Dealer) EndGame() Result {
	reason := d.Engine.Reason
	done := protocol.Done(reason)
	for _, conn := range d.players {
		_ = conn.Send(done)
	}
	d.fireLine(protocol.Encode(done))

	d.Mu.Lock()
	scores := d.Engine.Scores()
	d.Mu.Unlock()
	if err := engine.RenderScores(d.Out, scores); err != nil {
		d.log.WithError(err).Warn("render scores")
	}

	res := Result{GameID: d.ID, Reason: reason, Scores: scores}
	d.logAction(cache.DealerActor, cache.ActionGameEnd, map[string]any{
		"reason": reason.String(), "scores": scores,
	})
	d.persistFinalGameState(reason, scores)
	d.pending.Wait()

	if d.OnGameEnd != nil {
		d.OnGameEnd(res)
	}
	d.log.WithFields(logrus.Fields{"reason": reason, "scores": scores, "turns": d.Engine.TurnNumber}).Info("game over")
	return res
}

// persistFinalGameState hands the result to the result sink.
func (d *Dealer) persistFinalGameState(reason engine.EndReason, scores []int) {
	if d.Results == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	players := make([]database.PlayerResult, len(d.Engine.Players))
	for i, p := range d.Engine.Players {
		cards := make(map[string]int, engine.NumCards)
		for c, n := range p.Cards {
			if n > 0 {
				cards[engine.Card(c).String()] = n
			}
		}
		players[i] = database.PlayerResult{
			ID:       p.ID,
			Site:     p.Site,
			Money:    p.Money,
			VisitsV1: p.VisitsV1,
			VisitsV2: p.VisitsV2,
			Cards:    cards,
			Score:    scores[i],
		}
	}
	err := d.Results.SaveResult(ctx, database.GameResult{
		GameID:     d.ID,
		Reason:     reason.String(),
		Scores:     scores,
		Players:    players,
		FinishedAt: time.Now().UTC(),
	})
	if err != nil {
		d.log.WithError(err).Error("failed to store final result")
	}
}

// logAction numbers an action and publishes it to the action sink in the
// background. EndGame waits for outstanding publishes.
func (d *Dealer) logAction(actor int, actionType string, payload map[string]any) {
	d.actionIndex++
	if d.Actions == nil {
		return
	}
	if payload == nil {
		payload = map[string]any{}
	}
	rec := cache.GameActionRecord{
		GameID:        d.ID,
		ActionIndex:   d.actionIndex,
		ActorID:       actor,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	d.pending.Add(1)
	go func() {
		defer d.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := d.Actions.Publish(ctx, rec); err != nil {
			d.log.WithError(err).WithFields(logrus.Fields{
				"index": rec.ActionIndex, "type": rec.ActionType,
			}).Warn("failed publishing action")
		}
	}()
}

func (d *Dealer) fireLine(line string) {
	if d.BroadcastFn != nil {
		d.BroadcastFn(line)
	}
}

// render writes the mover's line, if any, and the board to Out.
func (d *Dealer) render(mover int) {
	var err error
	if mover >= 0 {
		err = engine.RenderPlayer(d.Out, d.Engine.Players[mover])
	}
	if err == nil {
		err = engine.RenderPath(d.Out, d.Engine.Path)
	}
	if err != nil {
		d.log.WithError(err).Warn("render board")
	}
}

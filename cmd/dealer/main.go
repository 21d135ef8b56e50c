// Command dealer runs one path game.
//
//	dealer <deckfile> <pathfile> <player> [<player>...]
//
// Each player is an executable, started with the arguments
// "<numPlayers> <id>", or builtin:A / builtin:B for an in-process agent. The
// board is written to stdout and logs to stderr.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	engine "github.com/jason-s-yu/pathgame/engine"
	"github.com/jason-s-yu/pathgame/engine/agent"
	"github.com/jason-s-yu/pathgame/internal/cache"
	"github.com/jason-s-yu/pathgame/internal/config"
	"github.com/jason-s-yu/pathgame/internal/database"
	"github.com/jason-s-yu/pathgame/internal/game"
	"github.com/jason-s-yu/pathgame/internal/logging"
	"github.com/jason-s-yu/pathgame/internal/match"
	"github.com/jason-s-yu/pathgame/internal/spectate"
	"github.com/jason-s-yu/pathgame/internal/transport"
	"github.com/sirupsen/logrus"
)

const builtinPrefix = "builtin:"

var errUsage = errors.New("usage: dealer deck path player [player...]")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(game.ExitCode(err))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) < 3 {
		return game.Configuration(errUsage)
	}
	cfg, err := config.Load()
	if err != nil {
		return game.Configuration(err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, stderr)
	if err != nil {
		return game.Configuration(err)
	}

	deck, err := loadFile(args[0], engine.ErrInvalidDeckFile, engine.LoadDeck)
	if err != nil {
		return game.Configuration(err)
	}
	path, err := loadFile(args[1], engine.ErrInvalidPathFile, engine.LoadPath)
	if err != nil {
		return game.Configuration(err)
	}

	players := args[2:]
	seats, procs, err := startSeats(players, cfg, stderr)
	if err != nil {
		return err
	}
	defer func() {
		if err := transport.StopAll(procs, 2*time.Second); err != nil {
			logger.WithError(err).Warn("player exited with error")
		}
	}()

	m := &match.Match{
		Path:   path,
		Deck:   deck,
		Seats:  seats,
		Rules:  cfg.Rules,
		Logger: logger,
	}
	sinks := attachSinks(ctx, cfg, logger, stdout)
	defer sinks.close()
	m.Setup = sinks.setup

	report, err := m.Run(ctx)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"reason": report.Result.Reason, "scores": report.Result.Scores}).Info("dealer done")
	return nil
}

// loadFile reads name and parses it; read failures wrap sentinel so the exit
// code names the file.
func loadFile[T any](name string, sentinel error, parse func(string) (T, error)) (T, error) {
	var zero T
	data, err := os.ReadFile(name)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", sentinel, err)
	}
	return parse(string(data))
}

// startSeats builds one seat per player argument, starting the external
// ones as child processes.
func startSeats(players []string, cfg config.Config, stderr io.Writer) ([]match.Seat, []*transport.Process, error) {
	seats := make([]match.Seat, len(players))
	var procs []*transport.Process
	for id, arg := range players {
		if kind, ok := strings.CutPrefix(arg, builtinPrefix); ok {
			s, err := agent.NewStrategy(agent.Kind(kind), agent.Options{MaxStep: cfg.PlayerAMaxStep})
			if err != nil {
				transport.StopAll(procs, time.Second)
				return nil, nil, game.Resource(fmt.Errorf("player %d: %w", id, err))
			}
			seats[id].Strategy = s
			continue
		}
		p, err := transport.Start(arg, len(players), id, stderr)
		if err != nil {
			transport.StopAll(procs, time.Second)
			return nil, nil, err
		}
		p.Conn.SetReadTimeout(cfg.ReadTimeout)
		procs = append(procs, p)
		seats[id].Conn = p.Conn
	}
	return seats, procs, nil
}

// sinks holds the optional outputs of a game. Connection failures are logged
// and the game runs without that output.
type sinks struct {
	ctx    context.Context
	cfg    config.Config
	log    *logrus.Logger
	out    io.Writer
	cancel context.CancelFunc

	actions *cache.Publisher
	results *database.Store
	hub     *spectate.Hub
	served  chan struct{}
}

func attachSinks(ctx context.Context, cfg config.Config, logger *logrus.Logger, out io.Writer) *sinks {
	s := &sinks{cfg: cfg, log: logger, out: out}
	s.ctx, s.cancel = context.WithCancel(ctx)

	if cfg.RedisURL != "" {
		cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		pub, err := cache.Connect(cctx, cfg.RedisURL, cfg.RedisStream)
		cancel()
		if err != nil {
			logger.WithError(err).Warn("redis unavailable, actions not published")
		} else {
			s.actions = pub
		}
	}
	if cfg.DatabaseURL != "" {
		cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		store, err := database.Connect(cctx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			logger.WithError(err).Warn("database unavailable, result not stored")
		} else {
			s.results = store
		}
	}
	return s
}

func (s *sinks) setup(d *game.Dealer) {
	d.Out = s.out
	if s.actions != nil {
		d.Actions = s.actions
	}
	if s.results != nil {
		d.Results = s.results
	}
	if s.cfg.SpectateAddr == "" {
		return
	}
	s.hub = spectate.NewHub(func() any { return d.PublicState() }, s.log)
	d.BroadcastFn = s.hub.Publish
	srv := spectate.NewServer(d.ID.String(), []byte(s.cfg.SpectateSecret), s.hub, s.log)
	s.served = make(chan struct{})
	go func() {
		defer close(s.served)
		if err := srv.ListenAndServe(s.ctx, s.cfg.SpectateAddr); err != nil {
			s.log.WithError(err).Warn("spectator feed stopped")
		}
	}()
	// The token is the only way in, so it is printed at the default level.
	token, err := spectate.IssueToken([]byte(s.cfg.SpectateSecret), d.ID.String(), time.Hour)
	if err != nil {
		s.log.WithError(err).Warn("spectator token")
		return
	}
	s.log.WithFields(logrus.Fields{"game": d.ID.String(), "token": token}).Info("spectator token")
}

func (s *sinks) close() {
	if s.hub != nil {
		s.hub.Close()
	}
	s.cancel()
	if s.served != nil {
		<-s.served
	}
	if s.actions != nil {
		s.actions.Close()
	}
	if s.results != nil {
		s.results.Close()
	}
}

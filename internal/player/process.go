// internal/player/process.go
package player

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jason-s-yu/pathgame/engine/agent"
	"github.com/jason-s-yu/pathgame/internal/config"
	"github.com/jason-s-yu/pathgame/internal/logging"
	"github.com/jason-s-yu/pathgame/internal/protocol"
)

// Process runs a player binary: args are "<numPlayers> <id>", the protocol
// runs over stdin and stdout, and logs and the board go to stderr. It returns
// the exit code.
func Process(ctx context.Context, kind agent.Kind, cfg config.Config, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	numPlayers, id, err := ParseArgs(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitCode(err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitArgs
	}

	opts := agent.Options{MaxStep: cfg.PlayerAMaxStep}
	if kind == agent.KindB && cfg.PlayerBInput != "" {
		f, err := os.Open(cfg.PlayerBInput)
		if err != nil {
			logger.WithError(err).Error("open interactive input")
			return ExitInput
		}
		defer f.Close()
		opts.Input = agent.NewLineChooser(f, stderr)
	}
	strategy, err := agent.NewStrategy(kind, opts)
	if err != nil {
		logger.WithError(err).Error("strategy")
		return ExitArgs
	}

	conn := protocol.NewConn(stdin, stdout, nil)
	defer conn.Close()
	conn.SetReadTimeout(cfg.ReadTimeout)

	client := NewClient(numPlayers, id, strategy, logger)
	client.Out = stderr
	client.Rules = cfg.Rules.OrDefault()
	out, err := client.Run(ctx, conn)
	if err != nil {
		logger.WithError(err).Error("player stopped")
		return ExitCode(err)
	}
	logger.WithField("score", out.Score).Info("finished")
	return ExitNormal
}

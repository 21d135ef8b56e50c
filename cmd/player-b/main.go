// Command player-b is a path game player using strategy B. Run it as
// "player-b <numPlayers> <id>"; it talks to the dealer over stdin and stdout.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jason-s-yu/pathgame/engine/agent"
	"github.com/jason-s-yu/pathgame/internal/config"
	"github.com/jason-s-yu/pathgame/internal/player"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(player.ExitArgs)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM)
	code := player.Process(ctx, agent.KindB, cfg, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

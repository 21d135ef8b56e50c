// internal/transport/transport_test.go
package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/jason-s-yu/pathgame/internal/game"
	"github.com/jason-s-yu/pathgame/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helperEnv = "PATHGAME_TRANSPORT_HELPER"

// TestMain lets the test binary act as a player process: it says ready,
// reads the board and moves one step.
func TestMain(m *testing.M) {
	if os.Getenv(helperEnv) == "1" {
		fmt.Println("^")
		sc := bufio.NewScanner(os.Stdin)
		if !sc.Scan() {
			os.Exit(6)
		}
		fmt.Println("DO 1")
		// Wait for the dealer to close stdin.
		for sc.Scan() {
		}
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func TestPipe(t *testing.T) {
	dealer, player := Pipe()
	ctx := context.Background()

	go func() {
		player.Send(protocol.Ready())
		player.Close()
	}()

	msg, err := dealer.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, protocol.KindReady, msg.Kind)

	_, err = dealer.Receive(ctx)
	assert.ErrorIs(t, err, protocol.ErrClosed)
	assert.Error(t, dealer.Send(protocol.AskDiscard()))
	require.NoError(t, dealer.Close())
}

func TestProcess(t *testing.T) {
	t.Setenv(helperEnv, "1")
	exe, err := os.Executable()
	require.NoError(t, err)

	procs, err := StartAll([]string{exe}, io.Discard)
	require.NoError(t, err)
	require.Len(t, procs, 1)
	p := procs[0]
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg, err := p.Conn.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, protocol.KindReady, msg.Kind)

	require.NoError(t, p.Conn.Send(protocol.PathMessage("3;::-Mo1::-")))
	msg, err = p.Conn.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, protocol.Move(1), msg)

	assert.NoError(t, StopAll(procs, 5*time.Second))
}

func TestStartFailure(t *testing.T) {
	_, err := StartAll([]string{"/nonexistent/pathgame-player"}, io.Discard)
	require.Error(t, err)
	assert.Equal(t, game.ExitPlayerStart, game.ExitCode(err))
}

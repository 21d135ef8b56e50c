// internal/transport/process.go
package transport

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/jason-s-yu/pathgame/internal/game"
	"github.com/jason-s-yu/pathgame/internal/protocol"
)

// Process is a player running as a child process. The protocol runs over the
// child's stdin and stdout.
type Process struct {
	ID   int
	Conn *protocol.Conn

	cmd  *exec.Cmd
	done chan struct{}
	err  error
}

// Start runs program with the arguments "<numPlayers> <id>". The child's
// stderr goes to stderr. Failures are game.Resource errors.
func Start(program string, numPlayers, id int, stderr io.Writer) (*Process, error) {
	cmd := exec.Command(program, strconv.Itoa(numPlayers), strconv.Itoa(id))
	cmd.Stderr = stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, game.Resource(fmt.Errorf("player %d: %w", id, err))
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, game.Resource(fmt.Errorf("player %d: %w", id, err))
	}
	if err := cmd.Start(); err != nil {
		return nil, game.Resource(fmt.Errorf("start player %d (%s): %w", id, program, err))
	}

	p := &Process{
		ID:   id,
		Conn: protocol.NewConn(stdout, stdin, stdin),
		cmd:  cmd,
		done: make(chan struct{}),
	}
	go func() {
		p.err = cmd.Wait()
		close(p.done)
	}()
	return p, nil
}

// StartAll starts one process per program, ids in order. If any start fails
// the ones already running are stopped.
func StartAll(programs []string, stderr io.Writer) ([]*Process, error) {
	procs := make([]*Process, 0, len(programs))
	for id, program := range programs {
		p, err := Start(program, len(programs), id, stderr)
		if err != nil {
			StopAll(procs, time.Second)
			return nil, err
		}
		procs = append(procs, p)
	}
	return procs, nil
}

// Stop closes the child's stdin and waits up to grace for it to exit, then
// kills it. It returns the child's exit error, if any.
func (p *Process) Stop(grace time.Duration) error {
	p.Conn.Close()
	t := time.NewTimer(grace)
	defer t.Stop()
	select {
	case <-p.done:
	case <-t.C:
		if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("kill player %d: %w", p.ID, err)
		}
		<-p.done
	}
	return p.err
}

// StopAll stops every process and returns the first error.
func StopAll(procs []*Process, grace time.Duration) error {
	var first error
	for _, p := range procs {
		if err := p.Stop(grace); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// internal/transport/pipe.go
package transport

import (
	"io"

	"github.com/jason-s-yu/pathgame/internal/protocol"
)

// Pipe returns the two ends of an in-process player channel. Closing either
// end makes reads on the other report protocol.ErrClosed and writes fail, so a
// player goroutine that returns can never leave the dealer blocked.
func Pipe() (dealer, player *protocol.Conn) {
	toDealerR, toDealerW := io.Pipe()
	toPlayerR, toPlayerW := io.Pipe()
	dealer = protocol.NewConn(toDealerR, toPlayerW, closers{toDealerR, toPlayerW})
	player = protocol.NewConn(toPlayerR, toDealerW, closers{toPlayerR, toDealerW})
	return dealer, player
}

type closers []io.Closer

func (cs closers) Close() error {
	var first error
	for _, c := range cs {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// internal/protocol/conn.go
package protocol

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

var (
	// ErrClosed is returned once the peer has closed its end of the channel.
	ErrClosed = errors.New("connection closed")
	// ErrTimeout is returned when no line arrives within the read timeout.
	ErrTimeout = errors.New("read timed out")
)

type readResult struct {
	line string
	err  error
}

// Conn is one duplex line channel. A single goroutine scans incoming lines so
// that Receive can honour a context and a timeout. Sends are serialised.
type Conn struct {
	wmu sync.Mutex
	w   *bufio.Writer

	lines  chan readResult
	done   chan struct{}
	closer io.Closer
	once   sync.Once

	readTimeout time.Duration
}

// NewConn starts reading r. closer, when not nil, is closed by Close.
func NewConn(r io.Reader, w io.Writer, closer io.Closer) *Conn {
	c := &Conn{
		w:      bufio.NewWriter(w),
		lines:  make(chan readResult),
		done:   make(chan struct{}),
		closer: closer,
	}
	go c.readLoop(r)
	return c
}

func (c *Conn) readLoop(r io.Reader) {
	defer close(c.lines)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		select {
		case c.lines <- readResult{line: sc.Text()}:
		case <-c.done:
			return
		}
	}
	err := ErrClosed
	if serr := sc.Err(); serr != nil {
		err = fmt.Errorf("%w: %v", ErrClosed, serr)
	}
	select {
	case c.lines <- readResult{err: err}:
	case <-c.done:
	}
}

// SetReadTimeout bounds every later Receive. Zero disables the bound.
func (c *Conn) SetReadTimeout(d time.Duration) { c.readTimeout = d }

// SendLine writes one raw line and flushes it.
func (c *Conn) SendLine(line string) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if _, err := c.w.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("%w: %v", ErrClosed, err)
	}
	if err := c.w.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrClosed, err)
	}
	return nil
}

// Send encodes and writes m.
func (c *Conn) Send(m Message) error { return c.SendLine(Encode(m)) }

// ReceiveLine waits for the next raw line.
func (c *Conn) ReceiveLine(ctx context.Context) (string, error) {
	var timeout <-chan time.Time
	if c.readTimeout > 0 {
		t := time.NewTimer(c.readTimeout)
		defer t.Stop()
		timeout = t.C
	}
	select {
	case res, ok := <-c.lines:
		if !ok {
			return "", ErrClosed
		}
		return res.line, res.err
	case <-timeout:
		return "", ErrTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Receive waits for the next line and decodes it.
func (c *Conn) Receive(ctx context.Context) (Message, error) {
	line, err := c.ReceiveLine(ctx)
	if err != nil {
		return Message{}, err
	}
	return Decode(line)
}

// Close stops the reader and closes the underlying channel. It is safe to
// call more than once.
func (c *Conn) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		if c.closer != nil {
			err = c.closer.Close()
		}
	})
	return err
}

// internal/game/errors.go
package game

import (
	"errors"
	"fmt"

	engine "github.com/jason-s-yu/pathgame/engine"
)

// Dealer exit codes.
const (
	ExitNormal      = 0
	ExitArgs        = 1
	ExitDeck        = 2
	ExitPath        = 3
	ExitPlayerStart = 4
	ExitComm        = 5
)

var (
	// ErrProtocolViolation is returned when a player sends a well-formed line
	// that is not allowed at that point of the game.
	ErrProtocolViolation = errors.New("protocol violation")
	// ErrInterrupted is returned when the dealer's context is cancelled.
	ErrInterrupted = errors.New("game interrupted")
)

// ErrorClass groups session failures by what went wrong.
type ErrorClass uint8

const (
	ClassConfiguration ErrorClass = iota + 1 // arguments, deck or path
	ClassProtocol                            // a player broke the protocol or its channel failed
	ClassResource                            // a player could not be started
)

func (c ErrorClass) String() string {
	switch c {
	case ClassConfiguration:
		return "configuration"
	case ClassProtocol:
		return "protocol"
	case ClassResource:
		return "resource"
	}
	return fmt.Sprintf("ErrorClass(%d)", uint8(c))
}

// SessionError is the single error type a dealer session fails with.
type SessionError struct {
	Class ErrorClass
	Err   error
}

func (e *SessionError) Error() string { return e.Class.String() + ": " + e.Err.Error() }

func (e *SessionError) Unwrap() error { return e.Err }

// Configuration wraps err as a configuration failure.
func Configuration(err error) error { return &SessionError{Class: ClassConfiguration, Err: err} }

// Protocol wraps err as a communication failure.
func Protocol(err error) error { return &SessionError{Class: ClassProtocol, Err: err} }

// Resource wraps err as a player start failure.
func Resource(err error) error { return &SessionError{Class: ClassResource, Err: err} }

// ExitCode maps an error returned by a dealer session to its exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitNormal
	}
	switch {
	case errors.Is(err, engine.ErrInvalidDeckFile):
		return ExitDeck
	case errors.Is(err, engine.ErrInvalidPathFile):
		return ExitPath
	}
	var se *SessionError
	if errors.As(err, &se) {
		switch se.Class {
		case ClassConfiguration:
			return ExitArgs
		case ClassResource:
			return ExitPlayerStart
		}
	}
	return ExitComm
}

package nut

import (
	"errors"
	"fmt"
)

// Namespace prefixes every sentinel error this package defines.
const Namespace = "nut"

// ErrWouldBlock signals that Sync could not make progress. It is never
// stored in a Nut's own error field and never reaches application code as
// a persistent state; it is purely Sync's internal "try again" signal.
var ErrWouldBlock = errors.New(Namespace + ": would block")

// ErrNotConnected is returned by operations that require a paired peer.
var ErrNotConnected = errors.New(Namespace + ": not connected")

// ErrAlreadyConnected is returned by connection operations on a nut that
// already has a peer.
var ErrAlreadyConnected = errors.New(Namespace + ": already connected")

// ErrCode identifies a channel-level error delivered to both ends of a
// pipe. The zero value means no error.
type ErrCode int

const (
	codeNone ErrCode = iota

	// CodeEOF marks graceful end of stream.
	CodeEOF

	// CodeProtocol marks a role collision or a short delivery at EOF.
	CodeProtocol

	// CodeConnReset marks a forced disconnect; the receiving end clears
	// its peer reference once the error is delivered.
	CodeConnReset
)

func (c ErrCode) String() string {
	switch c {
	case CodeEOF:
		return "EOF"
	case CodeProtocol:
		return "PROTOCOL"
	case CodeConnReset:
		return "CONN_RESET"
	default:
		return "NONE"
	}
}

// ChannelError is returned by Sync for a hard channel failure. Graceful
// EOF is not a ChannelError: it is reported as a successful, zero-length
// Sync, matching a read() returning 0 at end of stream.
type ChannelError struct {
	Code ErrCode
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("%s: channel error: %s", Namespace, e.Code)
}

func channelError(code ErrCode) error {
	return &ChannelError{Code: code}
}

// IsProtocol reports whether err is a ChannelError carrying CodeProtocol.
func IsProtocol(err error) bool {
	var ce *ChannelError
	return errors.As(err, &ce) && ce.Code == CodeProtocol
}

// IsConnReset reports whether err is a ChannelError carrying CodeConnReset.
func IsConnReset(err error) bool {
	var ce *ChannelError
	return errors.As(err, &ce) && ce.Code == CodeConnReset
}

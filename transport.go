package xbee

import (
	"time"

	gobug "go.bug.st/serial"
)

// allow tests to override external dependencies
var (
	openPort     = func(name string, mode *gobug.Mode) (portHandle, error) { return gobug.Open(name, mode) }
	getPortsList = gobug.GetPortsList
)

// pollReadTimeout makes Read return immediately with whatever the driver has
// buffered, which is what the availability check needs.
const pollReadTimeout time.Duration = 0

// lookaheadSize bounds how much a single availability check pulls from the
// driver.
const lookaheadSize = 256

// portHandle abstracts the subset of go.bug.st/serial.Port used by this package.
type portHandle interface {
	SetReadTimeout(timeout time.Duration) error
	ResetInputBuffer() error
	Write([]byte) (int, error)
	Read([]byte) (int, error)
	Close() error
}

// Port is the byte level contract the probe drives. Available never blocks;
// ReadByte is only valid after Available reported at least one byte.
type Port interface {
	Available() (int, error)
	ReadByte() (byte, error)
	WriteString(s string) error
	Close() error
}

// lookahead turns a zero-timeout Read into an "input bytes pending" count.
// Bytes pulled from the driver are kept until ReadByte consumes them.
type lookahead struct {
	h       portHandle
	pending []byte
	scratch [lookaheadSize]byte
}

func (l *lookahead) available() (int, error) {
	if len(l.pending) > 0 {
		return len(l.pending), nil
	}
	n, err := l.h.Read(l.scratch[:])
	if err != nil {
		return 0, err
	}
	l.pending = append(l.pending[:0], l.scratch[:n]...)
	return len(l.pending), nil
}

func (l *lookahead) readByte() (byte, bool) {
	if len(l.pending) == 0 {
		return 0, false
	}
	b := l.pending[0]
	l.pending = l.pending[1:]
	return b, true
}

func (l *lookahead) reset() {
	l.pending = l.pending[:0]
}

package xbee

import (
	"errors"
	"fmt"

	gobug "go.bug.st/serial"
	"go.uber.org/atomic"
)

// SerialSession is an open connection to the radio. It implements Port.
type SerialSession struct {
	name string
	baud BaudRate

	handle portHandle
	ahead  lookahead

	isOpen atomic.Bool
	closed atomic.Bool

	stats Stats
}

var _ Port = (*SerialSession)(nil)

// OpenPort opens the device named in cfg and configures it for polling.
// Every failure is reported as ErrPortOpenFailed.
func OpenPort(cfg Config) (*SerialSession, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPortOpenFailed, err)
	}

	mode := &gobug.Mode{
		BaudRate: cfg.BaudRate.Int(),
		DataBits: cfg.DataBits.Int(),
		Parity:   cfg.Parity.Get(),
		StopBits: cfg.StopBits.Get(),
	}

	h, err := openPort(cfg.PortName, mode)
	if err != nil {
		if ok, listErr := isPortAvailable(cfg.PortName); listErr == nil && !ok {
			err = fmt.Errorf("%w (device not listed by the OS)", err)
		}
		return nil, fmt.Errorf("%w: opening %s: %w", ErrPortOpenFailed, cfg.PortName, err)
	}
	if h == nil {
		return nil, fmt.Errorf("%w: %s", ErrPortOpenFailed, ErrMsgNilPort)
	}

	s := newSession(h, cfg.PortName, cfg.BaudRate)
	if err = h.SetReadTimeout(pollReadTimeout); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPortOpenFailed, s.handleOpenError(err))
	}
	// Stale bytes from a previous run would be taken for the reply.
	if err = h.ResetInputBuffer(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPortOpenFailed, s.handleOpenError(err))
	}
	return s, nil
}

func newSession(h portHandle, name string, baud BaudRate) *SerialSession {
	s := &SerialSession{
		name:   name,
		baud:   baud,
		handle: h,
	}
	s.ahead.h = h
	s.isOpen.Store(true)
	s.stats.OpenTime.Store(nowNano())
	return s
}

// Name returns the device path.
func (s *SerialSession) Name() string { return s.name }

// BaudRate returns the line speed the device was opened with.
func (s *SerialSession) BaudRate() BaudRate { return s.baud }

// Stats returns a copy of the session counters.
func (s *SerialSession) Stats() StatsSnapshot { return s.stats.Snapshot() }

// Available returns how many received bytes can be read without blocking.
func (s *SerialSession) Available() (int, error) {
	if !s.isOpen.Load() {
		return 0, ErrClosed
	}
	s.stats.AvailabilityChecks.Inc()
	n, err := s.ahead.available()
	if err != nil {
		s.stats.ReadErrors.Inc()
		return 0, fmt.Errorf("checking input on %s: %w", s.name, err)
	}
	return n, nil
}

// ReadByte returns the next received byte. It does not wait; call Available
// first.
func (s *SerialSession) ReadByte() (byte, error) {
	if !s.isOpen.Load() {
		return 0, ErrClosed
	}
	b, ok := s.ahead.readByte()
	if !ok {
		s.stats.ReadErrors.Inc()
		return 0, fmt.Errorf("reading %s: no byte available", s.name)
	}
	s.stats.BytesRead.Inc()
	return b, nil
}

// WriteString writes all of str, retrying short writes.
func (s *SerialSession) WriteString(str string) error {
	if !s.isOpen.Load() {
		return ErrClosed
	}
	b := []byte(str)

	const maxRetries = 3
	var totalWritten int
	var err error
	for retries := 0; totalWritten < len(b) && retries < maxRetries; retries++ {
		n, writeErr := s.handle.Write(b[totalWritten:])
		totalWritten += n
		if writeErr != nil {
			err = writeErr
			break
		}
		if n == 0 {
			// Prevent infinite loop if Write returns 0
			break
		}
	}
	if totalWritten < len(b) && err == nil {
		err = ErrPartialWrite
	}
	s.stats.recordWrite(totalWritten, err)
	if err != nil {
		return fmt.Errorf("writing %q to %s: %w", str, s.name, err)
	}
	return nil
}

// Close releases the device. Only the first call reaches the OS; later calls
// return nil.
func (s *SerialSession) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.closeHandle()
}

// handleOpenError closes the port and joins any error from closing with the original error
func (s *SerialSession) handleOpenError(err error) error {
	s.closed.Store(true)
	if e := s.closeHandle(); e != nil {
		err = errors.Join(err, e)
	}
	return err
}

func (s *SerialSession) closeHandle() error {
	h := s.handle
	s.handle = nil
	s.isOpen.Store(false)
	s.ahead.reset()
	s.stats.CloseTime.Store(nowNano())
	if h != nil {
		return h.Close()
	}
	return nil
}

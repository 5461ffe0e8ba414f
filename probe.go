package xbee

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

const (
	// EscapeSequence switches the radio from transparent mode to command mode
	// when it is surrounded by guard time silence.
	EscapeSequence = "+++"
	// CommandSerialLow asks for the low 32 bits of the serial number.
	CommandSerialLow = "ATSL\r"
	// ReplyOK is the acknowledgement for a successful mode switch.
	ReplyOK = "OK"
)

// Result is what a probe run observed.
type Result struct {
	// CommandMode is true when the escape sequence was answered with OK.
	CommandMode  bool
	CommandReply string
	// SerialLow is the ATSL reply with its carriage return removed. It may be
	// empty when the radio did not answer in time.
	SerialLow string
}

// Probe checks that an XBee radio answers on a serial line: it enters
// command mode with "+++", expects "OK", then reads ATSL.
type Probe struct {
	cfg   Config
	open  Opener
	clock Clock
	out   io.Writer
	log   zerolog.Logger
}

// NewProbe returns a probe for cfg.
func NewProbe(cfg Config, opts ...Option) *Probe {
	p := &Probe{
		cfg:   cfg,
		open:  openSession,
		clock: systemClock{},
		out:   io.Discard,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func openSession(cfg Config) (Port, error) {
	s, err := OpenPort(cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Config returns the configuration the probe runs with.
func (p *Probe) Config() Config { return p.cfg }

// Run performs the whole check. It returns ErrPortOpenFailed when the device
// cannot be opened and ErrNoResponse when nothing answers the escape
// sequence. A reply other than OK is reported but is not an error. The port
// is closed on every path once it has been opened.
func (p *Probe) Run(ctx context.Context) (res Result, err error) {
	cfg := p.cfg
	fmt.Fprintf(p.out, "XBee DEV open: %s %dB\n", cfg.PortName, cfg.BaudRate)

	port, err := p.open(cfg)
	if err != nil {
		fmt.Fprintf(p.out, "Error opening port %s %d Baud\n", cfg.PortName, cfg.BaudRate)
		p.log.Debug().Err(err).Str("port", cfg.PortName).Msg("open failed")
		if !errors.Is(err, ErrPortOpenFailed) {
			err = fmt.Errorf("%w: %w", ErrPortOpenFailed, err)
		}
		return res, err
	}
	defer func() {
		if cerr := port.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing %s: %w", cfg.PortName, cerr))
			return
		}
		p.log.Debug().Str("port", cfg.PortName).Msg("closed")
	}()
	p.log.Debug().Str("port", cfg.PortName).Int("baud", cfg.BaudRate.Int()).Msg("connected")

	buf := NewResponseBuffer(cfg.BufferSize)

	if err = p.sendEscapeSequence(ctx, port); err != nil {
		return res, err
	}
	avail, err := p.exchange(ctx, port, buf)
	if err != nil {
		return res, err
	}
	if avail == 0 {
		// Either no radio is connected or it runs at another speed.
		fmt.Fprintln(p.out, "Error: No XBee responding")
		return res, ErrNoResponse
	}
	res.CommandReply = buf.String()
	res.CommandMode = p.classifyAndReport(res.CommandReply)

	if err = p.send(port, CommandSerialLow); err != nil {
		return res, err
	}
	if _, err = p.exchange(ctx, port, buf); err != nil {
		return res, err
	}
	res.SerialLow = buf.String()
	fmt.Fprintf(p.out, "Xbee cmd ATSL: [%s]\n", res.SerialLow)

	if s, ok := port.(*SerialSession); ok {
		st := s.Stats()
		p.log.Debug().
			Int64("bytes_written", st.BytesWritten).
			Int64("bytes_read", st.BytesRead).
			Int64("checks", st.AvailabilityChecks).
			Dur("uptime", st.Uptime).
			Msg("session stats")
	}
	return res, nil
}

// sendEscapeSequence keeps the line silent for the guard time, then writes
// "+++" without a terminator. The trailing guard time is covered by the
// response wait.
func (p *Probe) sendEscapeSequence(ctx context.Context, port Port) error {
	if err := p.clock.Sleep(ctx, p.cfg.GuardTime); err != nil {
		return err
	}
	return p.send(port, EscapeSequence)
}

func (p *Probe) send(port Port, s string) error {
	if err := port.WriteString(s); err != nil {
		return err
	}
	p.log.Debug().Str("port", p.cfg.PortName).Msgf("send %q", s)
	return nil
}

// exchange waits for a reply and leaves it, trimmed, in buf. It returns the
// availability count seen by the wait, 0 on timeout.
func (p *Probe) exchange(ctx context.Context, port Port, buf *ResponseBuffer) (int, error) {
	buf.Reset()
	avail, err := p.awaitResponse(ctx, port)
	if err != nil || avail == 0 {
		return avail, err
	}
	if _, err = buf.Drain(port); err != nil {
		return avail, err
	}
	buf.TrimTrailingCR()
	p.log.Debug().Str("port", p.cfg.PortName).Msgf("reply: %s (%d bytes)", buf.String(), buf.Len())
	return avail, nil
}

// awaitResponse checks for input up to MaxPolls times, sleeping PollInterval
// after every empty check. It returns as soon as a byte is pending.
func (p *Probe) awaitResponse(ctx context.Context, port Port) (int, error) {
	start := p.clock.Now()
	maxPolls := p.cfg.MaxPolls()

	var avail, polls int
	for polls < maxPolls {
		n, err := port.Available()
		if err != nil {
			return 0, err
		}
		polls++
		if n > 0 {
			avail = n
			break
		}
		if err = p.clock.Sleep(ctx, p.cfg.PollInterval); err != nil {
			return 0, err
		}
	}
	p.log.Debug().
		Str("port", p.cfg.PortName).
		Int("polls", polls).
		Msgf("got %d bytes after %d ms", avail, p.clock.Now().Sub(start).Milliseconds())
	return avail, nil
}

// classifyAndReport prints whether reply is the command mode acknowledgement.
func (p *Probe) classifyAndReport(reply string) bool {
	if reply == ReplyOK {
		fmt.Fprintln(p.out, "XBee CMD mode: OK")
		return true
	}
	fmt.Fprintf(p.out, "XBee CMD mode: unexpected reply [%s]\n", reply)
	return false
}

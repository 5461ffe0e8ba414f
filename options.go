package xbee

import (
	"io"

	"github.com/rs/zerolog"
)

// Opener opens the port described by cfg.
type Opener func(cfg Config) (Port, error)

type Option func(*Probe)

// WithOpener replaces the go.bug.st/serial backed opener.
func WithOpener(fn Opener) Option {
	return func(p *Probe) {
		p.open = fn
	}
}

func WithClock(c Clock) Option {
	return func(p *Probe) {
		p.clock = c
	}
}

// WithOutput sets where the console report is written. Defaults to io.Discard.
func WithOutput(w io.Writer) Option {
	return func(p *Probe) {
		p.out = w
	}
}

// WithLogger sets the logger receiving the debug trace.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Probe) {
		p.log = l
	}
}

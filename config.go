package xbee

import (
	"fmt"
	"time"
)

const (
	DefaultPortName        = "/dev/ttySC1"
	DefaultBaudRate        = Baud115200
	DefaultGuardTime       = time.Second
	DefaultPollInterval    = 250 * time.Millisecond
	DefaultResponseTimeout = 13 * DefaultPollInterval
	DefaultBufferSize      = 1024
)

// Config holds everything the probe needs. It is built once at startup and
// passed by value; nothing mutates it afterwards.
type Config struct {
	// PortName is the path to the serial device, e.g. /dev/ttySC1.
	PortName string `validate:"required,serialport"`

	BaudRate BaudRate `validate:"oneof=1200 2400 4800 9600 19200 38400 57600 115200 230400 460800 921600"`
	DataBits DataBits `validate:"oneof=5 6 7 8"`
	Parity   Parity   `validate:"oneof=0 1 2 3 4"`
	StopBits StopBits `validate:"oneof=0 1 2"`

	// Verbose enables the debug trace of every exchange.
	Verbose bool

	// GuardTime is the silence kept before the escape sequence.
	GuardTime time.Duration `validate:"gte=0"`

	// PollInterval and ResponseTimeout bound the wait for a reply.
	PollInterval    time.Duration `validate:"gt=0"`
	ResponseTimeout time.Duration `validate:"gt=0,gtefield=PollInterval"`

	// BufferSize is the capacity of the response buffer.
	BufferSize int `validate:"gt=0,lte=65536"`
}

// DefaultConfig returns the settings the probe ships with: /dev/ttySC1 at
// 115200 8N1, one second guard time and 13 polls of 250ms.
func DefaultConfig() Config {
	return Config{
		PortName:        DefaultPortName,
		BaudRate:        DefaultBaudRate,
		DataBits:        DataBits8,
		Parity:          ParityNone,
		StopBits:        StopBits1,
		GuardTime:       DefaultGuardTime,
		PollInterval:    DefaultPollInterval,
		ResponseTimeout: DefaultResponseTimeout,
		BufferSize:      DefaultBufferSize,
	}
}

// MaxPolls is the number of availability checks made before giving up,
// rounded up so a timeout that is not a multiple of the interval still
// gets its last partial poll.
func (c Config) MaxPolls() int {
	if c.PollInterval <= 0 {
		return 1
	}
	n := int(c.ResponseTimeout / c.PollInterval)
	if c.ResponseTimeout%c.PollInterval != 0 {
		n++
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Line returns the line settings in the usual "115200 8N1" form.
func (c Config) Line() string {
	return fmt.Sprintf("%d %d%s%s", c.BaudRate, c.DataBits, c.Parity, c.StopBits)
}

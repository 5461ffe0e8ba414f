package xbee_test

import (
	"context"
	"os"

	"github.com/Station-Manager/xbee"
)

// radio answers every command immediately with a canned reply.
type radio struct {
	replies map[string]string
	rx      []byte
}

func (r *radio) Available() (int, error) { return len(r.rx), nil }

func (r *radio) ReadByte() (byte, error) {
	b := r.rx[0]
	r.rx = r.rx[1:]
	return b, nil
}

func (r *radio) WriteString(s string) error {
	r.rx = append(r.rx, r.replies[s]...)
	return nil
}

func (r *radio) Close() error { return nil }

func Example() {
	cfg := xbee.DefaultConfig()
	cfg.GuardTime = 0

	probe := xbee.NewProbe(cfg,
		xbee.WithOutput(os.Stdout),
		xbee.WithOpener(func(xbee.Config) (xbee.Port, error) {
			return &radio{replies: map[string]string{
				"+++":    "OK\r",
				"ATSL\r": "417D5111\r",
			}}, nil
		}),
	)

	if _, err := probe.Run(context.Background()); err != nil {
		return
	}
	// Output:
	// XBee DEV open: /dev/ttySC1 115200B
	// XBee CMD mode: OK
	// Xbee cmd ATSL: [417D5111]
}

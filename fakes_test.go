package xbee

import (
	"context"
	"errors"
	"sync"
	"time"
)

// chunk becomes visible once Available has been called `after` times since
// the write that scheduled it.
type chunk struct {
	after int
	data  string
}

// fakePort is a scripted radio. Writing a known command schedules its reply.
type fakePort struct {
	replies map[string][]chunk

	scheduled  []chunk
	sinceWrite int
	pending    []byte

	writes []string
	checks int
	reads  int
	closes int

	availErr error
	writeErr error
	closeErr error
}

var _ Port = (*fakePort)(nil)

func newFakePort() *fakePort {
	return &fakePort{replies: make(map[string][]chunk)}
}

// reply makes the port answer cmd with data, visible from the first check.
func (f *fakePort) reply(cmd, data string) *fakePort {
	return f.replyAfter(cmd, 0, data)
}

func (f *fakePort) replyAfter(cmd string, after int, data string) *fakePort {
	f.replies[cmd] = append(f.replies[cmd], chunk{after: after, data: data})
	return f
}

func (f *fakePort) Available() (int, error) {
	f.checks++
	if f.availErr != nil {
		return 0, f.availErr
	}
	kept := f.scheduled[:0]
	for _, c := range f.scheduled {
		if c.after <= f.sinceWrite {
			f.pending = append(f.pending, c.data...)
			continue
		}
		kept = append(kept, c)
	}
	f.scheduled = kept
	f.sinceWrite++
	return len(f.pending), nil
}

func (f *fakePort) ReadByte() (byte, error) {
	if len(f.pending) == 0 {
		return 0, errors.New("fake: read with nothing pending")
	}
	f.reads++
	b := f.pending[0]
	f.pending = f.pending[1:]
	return b, nil
}

func (f *fakePort) WriteString(s string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, s)
	f.sinceWrite = 0
	f.scheduled = append(f.scheduled, f.replies[s]...)
	return nil
}

func (f *fakePort) Close() error {
	f.closes++
	return f.closeErr
}

// fakeClock advances instantly and records every sleep.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2020, 6, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

func (c *fakeClock) total() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	var sum time.Duration
	for _, d := range c.sleeps {
		sum += d
	}
	return sum
}

// mockHandle stands in for a go.bug.st/serial port.
type mockHandle struct {
	rx     []byte
	writes [][]byte

	// maxWrite caps the bytes accepted per Write call; 0 means no cap.
	maxWrite int

	readTimeout    time.Duration
	readTimeoutSet bool
	resets         int
	closed         int

	readErr       error
	writeErr      error
	setTimeoutErr error
	resetErr      error
	closeErr      error
}

func (m *mockHandle) SetReadTimeout(d time.Duration) error {
	if m.setTimeoutErr != nil {
		return m.setTimeoutErr
	}
	m.readTimeout = d
	m.readTimeoutSet = true
	return nil
}

func (m *mockHandle) ResetInputBuffer() error {
	if m.resetErr != nil {
		return m.resetErr
	}
	m.resets++
	m.rx = nil
	return nil
}

func (m *mockHandle) Read(p []byte) (int, error) {
	if m.readErr != nil {
		return 0, m.readErr
	}
	n := copy(p, m.rx)
	m.rx = m.rx[n:]
	return n, nil
}

func (m *mockHandle) Write(p []byte) (int, error) {
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	n := len(p)
	if m.maxWrite > 0 && n > m.maxWrite {
		n = m.maxWrite
	}
	cp := make([]byte, n)
	copy(cp, p[:n])
	m.writes = append(m.writes, cp)
	return n, nil
}

func (m *mockHandle) Close() error {
	m.closed++
	return m.closeErr
}

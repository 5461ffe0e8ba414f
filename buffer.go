package xbee

import "bytes"

// ResponseBuffer collects one reply from the radio. Its capacity is fixed at
// construction and it is reused across exchanges.
type ResponseBuffer struct {
	buf []byte
}

// NewResponseBuffer returns an empty buffer holding at most capacity bytes.
func NewResponseBuffer(capacity int) *ResponseBuffer {
	if capacity <= 0 {
		capacity = DefaultBufferSize
	}
	return &ResponseBuffer{buf: make([]byte, 0, capacity)}
}

func (r *ResponseBuffer) Reset()        { r.buf = r.buf[:0] }
func (r *ResponseBuffer) Len() int      { return len(r.buf) }
func (r *ResponseBuffer) Cap() int      { return cap(r.buf) }
func (r *ResponseBuffer) Bytes() []byte { return r.buf }
func (r *ResponseBuffer) String() string {
	return string(r.buf)
}

// Drain moves the bytes the port already holds into the buffer, one at a
// time, until the buffer is full or the port reports nothing pending. It never
// waits for more input.
func (r *ResponseBuffer) Drain(p Port) (int, error) {
	start := len(r.buf)
	for len(r.buf) < cap(r.buf) {
		n, err := p.Available()
		if err != nil {
			return len(r.buf) - start, err
		}
		if n == 0 {
			break
		}
		b, err := p.ReadByte()
		if err != nil {
			return len(r.buf) - start, err
		}
		r.buf = append(r.buf, b)
	}
	return len(r.buf) - start, nil
}

// TrimTrailingCR drops a single trailing carriage return.
func (r *ResponseBuffer) TrimTrailingCR() {
	r.buf = TrimTrailingCR(r.buf)
}

// TrimTrailingCR returns b without its last byte when that byte is '\r'.
// Empty input is returned as is.
func TrimTrailingCR(b []byte) []byte {
	if bytes.HasSuffix(b, []byte{'\r'}) {
		return b[:len(b)-1]
	}
	return b
}

package xbee

import "errors"

var (
	ErrClosed         = errors.New("xbee: port closed")
	ErrPortOpenFailed = errors.New("xbee: port open failed")
	ErrNoResponse     = errors.New("xbee: no response to escape sequence")
	ErrInvalidConfig  = errors.New("xbee: invalid configuration")
	ErrPartialWrite   = errors.New("xbee: partial write")
)

var (
	ErrMsgNilPort = "port is nil"
)

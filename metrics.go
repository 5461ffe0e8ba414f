package xbee

import (
	"time"

	"go.uber.org/atomic"
)

// Stats tracks what a session did on the wire.
type Stats struct {
	// Session
	OpenTime  atomic.Int64 // Unix nanoseconds when the port was opened
	CloseTime atomic.Int64 // Unix nanoseconds when the port was closed

	// Write Operations
	WriteOperations atomic.Int64
	BytesWritten    atomic.Int64
	WriteErrors     atomic.Int64

	// Read Operations
	AvailabilityChecks atomic.Int64 // Calls to Available
	BytesRead          atomic.Int64
	ReadErrors         atomic.Int64
}

// StatsSnapshot is a plain copy of Stats.
type StatsSnapshot struct {
	Uptime             time.Duration
	WriteOperations    int64
	BytesWritten       int64
	WriteErrors        int64
	AvailabilityChecks int64
	BytesRead          int64
	ReadErrors         int64
}

// Snapshot copies the counters. Uptime runs until now while the session is
// still open.
func (s *Stats) Snapshot() StatsSnapshot {
	snap := StatsSnapshot{
		WriteOperations:    s.WriteOperations.Load(),
		BytesWritten:       s.BytesWritten.Load(),
		WriteErrors:        s.WriteErrors.Load(),
		AvailabilityChecks: s.AvailabilityChecks.Load(),
		BytesRead:          s.BytesRead.Load(),
		ReadErrors:         s.ReadErrors.Load(),
	}
	if opened := s.OpenTime.Load(); opened > 0 {
		end := s.CloseTime.Load()
		if end == 0 {
			end = time.Now().UnixNano()
		}
		snap.Uptime = time.Duration(end - opened)
	}
	return snap
}

func (s *Stats) recordWrite(n int, err error) {
	s.WriteOperations.Inc()
	s.BytesWritten.Add(int64(n))
	if err != nil {
		s.WriteErrors.Inc()
	}
}

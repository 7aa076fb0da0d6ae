package mail

import "time"

// Stamper issues the microsecond timestamps that anchor a mail's
// identity tuple.
type Stamper interface {
	Stamp() uint64
}

// StampFunc adapts a function to the Stamper interface.
type StampFunc func() uint64

// Stamp calls f.
func (f StampFunc) Stamp() uint64 { return f() }

// systemStamper reads the wall clock and bumps the result to stay
// strictly greater than the previous stamp issued in this process.
// Bumping instead of sleeping keeps construction latency-free while
// still ruling out identity collisions from rapid repeated captures.
// Capture is single-threaded per process, so no locking here.
type systemStamper struct {
	last uint64
}

func (s *systemStamper) Stamp() uint64 {
	now := time.Now().UnixMicro()
	if now < 0 {
		panic("trapmail: system clock reports a time before the Unix epoch")
	}
	us := uint64(now)
	if us <= s.last {
		us = s.last + 1
	}
	s.last = us
	return us
}

var defaultStamper Stamper = &systemStamper{}

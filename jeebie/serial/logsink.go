package serial

import (
	"log/slog"

	"github.com/crosscode/jeebie/jeebie/addr"
	"github.com/crosscode/jeebie/jeebie/bit"
)

// cyclesPerByte is how long a real DMG link-cable transfer takes to shift
// out one byte at the internal clock's ~8192 Hz bit rate.
const cyclesPerByte = 4096

// LogSink is a serial peer that never actually links to anything: it
// answers SB/SC reads and writes the way hardware with nothing plugged
// into the link port would, and logs whatever bytes get shifted out so
// test ROMs that report pass/fail over serial are still observable.
type LogSink struct {
	requestInterrupt func()
	sb, sc           byte
	transferCycles   int
	logger           *slog.Logger

	instantTransfer bool
	idleValue       byte // SB's value once a transfer completes with no peer attached

	pending []byte // bytes accumulated since the last line break
}

// Option configures a LogSink at construction time.
type Option func(*LogSink)

// WithFixedTiming makes transfers take the realistic cyclesPerByte instead
// of completing the instant SC's start bit is set.
func WithFixedTiming() Option {
	return func(s *LogSink) { s.instantTransfer = false }
}

// NewLogSink builds a LogSink that calls onComplete once per finished
// transfer; wire it to request the Serial interrupt.
func NewLogSink(onComplete func(), opts ...Option) *LogSink {
	s := &LogSink{
		requestInterrupt: onComplete,
		instantTransfer:  true,
		idleValue:        0xFF,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Reset()
	return s
}

func (s *LogSink) Read(address uint16) byte {
	switch address {
	case addr.SB:
		return s.sb
	case addr.SC:
		return s.sc
	default:
		panic("serial.LogSink: invalid read address")
	}
}

func (s *LogSink) Write(address uint16, value byte) {
	switch address {
	case addr.SB:
		s.sb = value
	case addr.SC:
		s.sc = value
		s.tryStartTransfer()
	default:
		panic("serial.LogSink: invalid write address")
	}
}

// Tick advances any in-flight fixed-timing transfer by cycles.
func (s *LogSink) Tick(cycles int) {
	if s.instantTransfer || s.transferCycles <= 0 {
		return
	}
	s.transferCycles -= cycles
	if s.transferCycles <= 0 {
		s.finishTransfer()
	}
}

// Reset clears all transfer state and the pending output line.
func (s *LogSink) Reset() {
	s.sb = 0x00
	s.sc = 0x00
	s.transferCycles = 0
	s.pending = s.pending[:0]
}

func (s *LogSink) tryStartTransfer() {
	if s.transferCycles > 0 {
		return // already mid-transfer
	}
	// SC bit 7 requests a transfer; bit 0 selects the internal clock. A
	// transfer driven by an external clock never completes with nothing
	// attached to SI/SO, so it's left alone here.
	if !bit.IsSet(7, s.sc) || !bit.IsSet(0, s.sc) {
		return
	}

	s.bufferOutgoingByte(s.sb)

	if s.instantTransfer {
		s.finishTransfer()
		return
	}
	s.transferCycles = cyclesPerByte
}

// bufferOutgoingByte accumulates one transmitted byte into the current
// output line, flushing to the logger on a line break or NUL terminator.
func (s *LogSink) bufferOutgoingByte(b byte) {
	if b == 0 || b == '\n' || b == '\r' {
		s.flush()
		return
	}
	s.pending = append(s.pending, b)
}

func (s *LogSink) flush() {
	if len(s.pending) == 0 {
		return
	}
	s.logger.Info("serial", "line", string(s.pending))
	s.pending = s.pending[:0]
}

func (s *LogSink) finishTransfer() {
	s.sb = s.idleValue
	s.sc = bit.Clear(7, s.sc) // hardware clears the start bit when a transfer completes
	s.transferCycles = 0
	if s.requestInterrupt != nil {
		s.requestInterrupt()
	}
}

// Package backend defines the platform surface the CLI front end drives:
// how a running Emulator's frames get presented and how a platform's input
// gets turned into joypad events. The terminal renderer in jeebie/render
// implements its own presentation loop directly against tcell; this
// interface exists for the non-interactive paths (headless batch runs,
// an optional windowed backend) that don't need a terminal.
package backend

import (
	"github.com/crosscode/jeebie/jeebie/memory"
	"github.com/crosscode/jeebie/jeebie/video"
)

// InputEvent reports a single joypad key transitioning up or down.
type InputEvent struct {
	Key     memory.JoypadKey
	Pressed bool
}

// Backend represents a complete presentation surface: frame output plus
// input capture. Init/Cleanup bracket a run; Present and PollInput are
// called once per frame.
type Backend interface {
	Init() error
	Present(frame *video.FrameBuffer) error
	PollInput() []InputEvent
	Cleanup() error
}

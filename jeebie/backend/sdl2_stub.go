//go:build !sdl2

package backend

import (
	"fmt"

	"github.com/crosscode/jeebie/jeebie/video"
)

// SDL2Backend stub used when the sdl2 build tag isn't set, so the module
// stays buildable without a native SDL2 toolchain installed.
type SDL2Backend struct{}

func NewSDL2Backend(scale int) *SDL2Backend {
	return &SDL2Backend{}
}

func (s *SDL2Backend) Init() error {
	return fmt.Errorf("SDL2 backend not available: rebuild with -tags sdl2 and install SDL2 development libraries")
}

func (s *SDL2Backend) Present(frame *video.FrameBuffer) error {
	return fmt.Errorf("SDL2 backend not available")
}

func (s *SDL2Backend) PollInput() []InputEvent {
	return nil
}

func (s *SDL2Backend) Cleanup() error {
	return nil
}

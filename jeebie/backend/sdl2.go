//go:build sdl2

package backend

import (
	"fmt"

	"github.com/crosscode/jeebie/jeebie/memory"
	"github.com/crosscode/jeebie/jeebie/video"
	"github.com/veandco/go-sdl2/sdl"
)

// SDL2Backend presents frames in a native window via go-sdl2. Building it
// requires SDL2 development libraries installed; default builds skip this
// file in favor of the stub in sdl2_stub.go.
type SDL2Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	scale    int
}

func NewSDL2Backend(scale int) *SDL2Backend {
	if scale < 1 {
		scale = 1
	}
	return &SDL2Backend{scale: scale}
}

func (s *SDL2Backend) Init() error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("sdl2: init: %w", err)
	}

	w := video.FramebufferWidth * s.scale
	h := video.FramebufferHeight * s.scale

	window, err := sdl.CreateWindow("jeebie", sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, int32(w), int32(h), sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("sdl2: create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return fmt.Errorf("sdl2: create renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING, video.FramebufferWidth, video.FramebufferHeight)
	if err != nil {
		return fmt.Errorf("sdl2: create texture: %w", err)
	}
	s.texture = texture

	return nil
}

func (s *SDL2Backend) Present(frame *video.FrameBuffer) error {
	pixels := frame.ToSlice()
	bytes := make([]byte, len(pixels)*4)
	for i, p := range pixels {
		bytes[i*4] = byte(p >> 24)
		bytes[i*4+1] = byte(p >> 16)
		bytes[i*4+2] = byte(p >> 8)
		bytes[i*4+3] = byte(p)
	}
	if err := s.texture.Update(nil, bytes, video.FramebufferWidth*4); err != nil {
		return fmt.Errorf("sdl2: update texture: %w", err)
	}
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
	return nil
}

var keyMap = map[sdl.Keycode]memory.JoypadKey{
	sdl.K_UP:     memory.JoypadUp,
	sdl.K_DOWN:   memory.JoypadDown,
	sdl.K_LEFT:   memory.JoypadLeft,
	sdl.K_RIGHT:  memory.JoypadRight,
	sdl.K_z:      memory.JoypadA,
	sdl.K_x:      memory.JoypadB,
	sdl.K_RETURN: memory.JoypadStart,
	sdl.K_RSHIFT: memory.JoypadSelect,
}

func (s *SDL2Backend) PollInput() []InputEvent {
	var events []InputEvent
	for {
		ev := sdl.PollEvent()
		if ev == nil {
			break
		}
		switch e := ev.(type) {
		case *sdl.KeyboardEvent:
			key, ok := keyMap[e.Keysym.Sym]
			if !ok {
				continue
			}
			events = append(events, InputEvent{Key: key, Pressed: e.Type == sdl.KEYDOWN})
		}
	}
	return events
}

func (s *SDL2Backend) Cleanup() error {
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}

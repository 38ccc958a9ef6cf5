package backend

import (
	"log/slog"

	"github.com/crosscode/jeebie/jeebie/video"
)

// HeadlessBackend discards frames and reports no input. It's the backend
// the CLI's --headless mode runs the emulator against. The blargg and
// integration test suites drive the emulator directly and use no backend.
type HeadlessBackend struct {
	frameCount int
}

func NewHeadlessBackend() *HeadlessBackend {
	return &HeadlessBackend{}
}

func (h *HeadlessBackend) Init() error {
	slog.Debug("headless backend started")
	return nil
}

func (h *HeadlessBackend) Present(frame *video.FrameBuffer) error {
	h.frameCount++
	if h.frameCount%60 == 0 {
		slog.Debug("headless frame progress", "frames", h.frameCount)
	}
	return nil
}

func (h *HeadlessBackend) PollInput() []InputEvent {
	return nil
}

func (h *HeadlessBackend) Cleanup() error {
	slog.Debug("headless backend stopped", "total_frames", h.frameCount)
	return nil
}

package video

// LayerFramebuffer is a standalone RGBA buffer for one rendering layer,
// used by debug tooling to inspect background/window/sprite output in
// isolation from the composited frame.
type LayerFramebuffer struct {
	Buffer []uint32
	Width  int
	Height int
}

func newLayerFramebuffer(width, height int) *LayerFramebuffer {
	return &LayerFramebuffer{
		Buffer: make([]uint32, width*height),
		Width:  width,
		Height: height,
	}
}

func (l *LayerFramebuffer) clear() {
	for i := range l.Buffer {
		l.Buffer[i] = 0
	}
}

// RenderLayers holds per-layer framebuffers so debug views can render the
// background, window and sprite layers separately from the final picture.
// Background and window are stored at full tilemap size (256x256), since
// only a 160x144 window of each is visible on screen at a time.
type RenderLayers struct {
	Background *LayerFramebuffer
	Window     *LayerFramebuffer
	Sprites    *LayerFramebuffer
	Enabled    bool
}

func NewRenderLayers() *RenderLayers {
	return &RenderLayers{
		Background: newLayerFramebuffer(256, 256),
		Window:     newLayerFramebuffer(256, 256),
		Sprites:    newLayerFramebuffer(FramebufferWidth, FramebufferHeight),
	}
}

// Clear blanks every layer to transparent black. No-op unless layer
// rendering has been turned on, since debug views are the only consumer.
func (r *RenderLayers) Clear() {
	if !r.Enabled {
		return
	}
	r.Background.clear()
	r.Window.clear()
	r.Sprites.clear()
}

package video

// GBColor is one of the four DMG shades, stored as a packed RGBA value.
type GBColor uint32

const (
	FramebufferWidth  = 160
	FramebufferHeight = 144
	FramebufferSize   = FramebufferWidth * FramebufferHeight
)

const (
	BlackColor     GBColor = 0x000000FF
	DarkGreyColor  GBColor = 0x4C4C4CFF
	LightGreyColor GBColor = 0x989898FF
	WhiteColor     GBColor = 0xFFFFFFFF
)

// shadeByIndex maps a 2-bit palette shade index (as produced by decoding
// BGP/OBP0/OBP1 against a pixel's 2bpp color number) to its display color.
// Index 0 is the lightest shade by Game Boy palette convention.
var shadeByIndex = [4]GBColor{WhiteColor, LightGreyColor, DarkGreyColor, BlackColor}

// ByteToColor resolves a 2-bit shade index into its DMG display color.
// Values outside 0-3 return the transparent zero value.
func ByteToColor(value byte) GBColor {
	if value > 3 {
		return 0
	}
	return shadeByIndex[value]
}

// FrameBuffer holds one rendered frame as a flat row-major pixel array.
type FrameBuffer struct {
	width  uint
	height uint
	pixels []uint32
}

func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{
		width:  FramebufferWidth,
		height: FramebufferHeight,
		pixels: make([]uint32, FramebufferSize),
	}
}

func (fb FrameBuffer) index(x, y uint) uint {
	return y*fb.width + x
}

func (fb FrameBuffer) GetPixel(x, y uint) uint32 {
	return fb.pixels[fb.index(x, y)]
}

func (fb *FrameBuffer) SetPixel(x, y uint, color GBColor) {
	fb.pixels[fb.index(x, y)] = uint32(color)
}

// ToSlice exposes the raw pixel buffer for backends that blit it directly.
func (fb *FrameBuffer) ToSlice() []uint32 {
	return fb.pixels
}

// Clear zeroes every pixel (transparent black, not BlackColor).
func (fb *FrameBuffer) Clear() {
	for i := range fb.pixels {
		fb.pixels[i] = 0
	}
}

// ToBinaryData serializes the framebuffer as big-endian RGBA bytes, one
// pixel per 4 bytes. Used by tests that compare rendered frames byte for
// byte.
func (fb *FrameBuffer) ToBinaryData() []byte {
	data := make([]byte, len(fb.pixels)*4)
	for i, pixel := range fb.pixels {
		data[i*4+0] = byte(pixel >> 24)
		data[i*4+1] = byte(pixel >> 16)
		data[i*4+2] = byte(pixel >> 8)
		data[i*4+3] = byte(pixel)
	}
	return data
}

// ToGrayscale reduces the framebuffer to one shade-index byte per pixel
// (0=white .. 3=black, as in shadeByIndex; unknown colors give 0), which is
// easier to diff in tests than raw RGBA.
func (fb *FrameBuffer) ToGrayscale() []byte {
	data := make([]byte, len(fb.pixels))
	for i, pixel := range fb.pixels {
		data[i] = shadeIndexOf(GBColor(pixel))
	}
	return data
}

func shadeIndexOf(c GBColor) byte {
	for i, shade := range shadeByIndex {
		if shade == c {
			return byte(i)
		}
	}
	return 0
}

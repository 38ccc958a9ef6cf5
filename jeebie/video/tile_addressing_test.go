package video

import (
	"testing"

	"github.com/crosscode/jeebie/jeebie/addr"
	"github.com/crosscode/jeebie/jeebie/memory"
	"github.com/stretchr/testify/assert"
)

const testPalette = 0xE4

// TestTileAddressingModes checks that LCDC bit 4 selects the right base
// address for a given tile map byte, in both the unsigned (0x8000) and
// signed (0x9000) addressing schemes.
func TestTileAddressingModes(t *testing.T) {
	tests := []struct {
		name       string
		signed     bool
		tileNumber byte
		wantAddr   uint16
	}{
		{"signed, tile 0", true, 0x00, 0x9000},
		{"signed, tile 1", true, 0x01, 0x9010},
		{"signed, tile 127", true, 0x7F, 0x97F0},
		{"signed, tile -128", true, 0x80, 0x8800},
		{"signed, tile -127", true, 0x81, 0x8810},
		{"signed, tile -1", true, 0xFF, 0x8FF0},
		{"unsigned, tile 0", false, 0x00, 0x8000},
		{"unsigned, tile 1", false, 0x01, 0x8010},
		{"unsigned, tile 127", false, 0x7F, 0x87F0},
		{"unsigned, tile 128", false, 0x80, 0x8800},
		{"unsigned, tile 255", false, 0xFF, 0x8FF0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mmu := memory.New()
			gpu := NewGpu(mmu)

			lcdc := byte(0x81)
			if !tt.signed {
				lcdc = 0x91
			}
			mmu.Write(addr.LCDC, lcdc)
			mmu.Write(addr.BGP, testPalette)
			mmu.Write(addr.TileMap0, tt.tileNumber)

			mmu.Write(tt.wantAddr, 0xFF)
			mmu.Write(tt.wantAddr+1, 0x00)

			gpu.line = 0
			gpu.drawScanline()

			fb := gpu.GetFrameBuffer()
			want := paletteShade(testPalette, 1)
			for x := 0; x < 8; x++ {
				assert.Equal(t, uint32(want), fb.GetPixel(uint(x), 0),
					"pixel %d for tile %02X at %04X", x, tt.tileNumber, tt.wantAddr)
			}
		})
	}
}

// TestTileAddressingReadsCorrectRow verifies that, beyond picking the right
// tile, the GPU reads the row matching the current scanline.
func TestTileAddressingReadsCorrectRow(t *testing.T) {
	pattern := []byte{
		0xAA, 0x55, 0x33, 0xCC, 0x0F, 0xF0, 0x81, 0x7E,
		0xFF, 0x00, 0x00, 0xFF, 0x55, 0xAA, 0xCC, 0x33,
	}

	tests := []struct {
		name       string
		signed     bool
		tileNumber byte
		row        int
		tileAddr   uint16
	}{
		{"signed tile 0x40, row 4", true, 0x40, 4, 0x9400},
		{"signed tile 0xC0, row 3", true, 0xC0, 3, 0x8C00},
		{"unsigned tile 255, row 7", false, 0xFF, 7, 0x8FF0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mmu := memory.New()
			gpu := NewGpu(mmu)

			lcdc := byte(0x81)
			if !tt.signed {
				lcdc = 0x91
			}
			mmu.Write(addr.LCDC, lcdc)
			mmu.Write(addr.BGP, testPalette)
			mmu.Write(addr.TileMap0, tt.tileNumber)

			rowAddr := tt.tileAddr + uint16(tt.row*2)
			mmu.Write(rowAddr, pattern[tt.row*2])
			mmu.Write(rowAddr+1, pattern[tt.row*2+1])

			gpu.line = tt.row
			gpu.drawScanline()

			low, high := pattern[tt.row*2], pattern[tt.row*2+1]
			row := TileRow{Low: low, High: high}
			fb := gpu.GetFrameBuffer()
			for x := 0; x < 2; x++ {
				want := paletteShade(testPalette, row.GetPixel(x))
				got := fb.GetPixel(uint(x), uint(tt.row))
				assert.Equal(t, uint32(want), got, "tile %02X row %d pixel %d", tt.tileNumber, tt.row, x)
			}
		})
	}
}

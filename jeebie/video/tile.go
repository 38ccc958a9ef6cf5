package video

import "github.com/crosscode/jeebie/jeebie/bit"

// TileRow is one 8-pixel row of a tile, stored as the two bit-plane bytes
// VRAM uses natively: each pixel's 2-bit color index is the OR of the
// matching bit from Low (plane 0) and High (plane 1, shifted up by one).
// Bit 7 of each byte is the leftmost pixel.
//
// Reference: https://gbdev.io/pandocs/Tile_Data.html
type TileRow struct {
	Low  byte
	High byte
}

func (t TileRow) pixelAt(bitIndex uint8) int {
	pixel := 0
	if bit.IsSet(bitIndex, t.Low) {
		pixel |= 1
	}
	if bit.IsSet(bitIndex, t.High) {
		pixel |= 2
	}
	return pixel
}

// GetPixel returns the color index (0-3) at column x, 0 being leftmost.
func (t TileRow) GetPixel(x int) int {
	return t.pixelAt(uint8(7 - x))
}

// GetPixelFlipped is GetPixel with the row read right-to-left, for sprites
// drawn with the horizontal flip attribute set.
func (t TileRow) GetPixelFlipped(x int) int {
	return t.pixelAt(uint8(x))
}

// Tile is a decoded 8x8 pattern: 8 rows of 2 bytes each, 16 bytes total in
// VRAM.
type Tile struct {
	Index int
	Rows  [8]TileRow
}

// GetPixel returns the color index (0-3) at (x, y), or 0 if out of bounds.
func (t *Tile) GetPixel(x, y int) int {
	if y < 0 || y >= 8 || x < 0 || x >= 8 {
		return 0
	}
	return t.Rows[y].GetPixel(x)
}

// Pixels renders the tile's raw color indices as an 8x8 grid, used by debug
// views that need every row at once rather than one pixel at a time.
func (t *Tile) Pixels() [8][8]GBColor {
	var pixels [8][8]GBColor
	for y := range 8 {
		for x := range 8 {
			pixels[y][x] = GBColor(t.Rows[y].GetPixel(x))
		}
	}
	return pixels
}

// MemoryReader is the minimal read access FetchTile needs from VRAM.
type MemoryReader interface {
	Read(addr uint16) byte
}

// FetchTile reads the 16-byte tile pattern starting at baseAddr.
func FetchTile(memory MemoryReader, baseAddr uint16) Tile {
	var tile Tile
	for row := range 8 {
		rowAddr := baseAddr + uint16(row*2)
		tile.Rows[row] = TileRow{
			Low:  memory.Read(rowAddr),
			High: memory.Read(rowAddr + 1),
		}
	}
	return tile
}

// FetchTileWithIndex is FetchTile plus the tile's slot number, for callers
// that need to report which of the 384 VRAM tiles this is.
func FetchTileWithIndex(memory MemoryReader, baseAddr uint16, index int) Tile {
	tile := FetchTile(memory, baseAddr)
	tile.Index = index
	return tile
}

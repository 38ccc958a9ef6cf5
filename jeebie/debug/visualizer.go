package debug

import (
	"github.com/crosscode/jeebie/jeebie/addr"
	"github.com/crosscode/jeebie/jeebie/bit"
	"github.com/crosscode/jeebie/jeebie/video"
)

const (
	TilemapWidth  = 32
	TilemapHeight = 32
	ScreenWidth   = 20
	ScreenHeight  = 18

	tallSpriteTileCount = 256
	bgTileCount         = 384
)

// SpriteVisualizer is a point-in-time snapshot of OAM and the tile data it
// references, decoded for the debug overlay rather than the renderer.
type SpriteVisualizer struct {
	Sprites      []Sprite
	TileData     []video.Tile
	CurrentLine  uint8
	SpriteHeight int
	PaletteOBP0  uint8
	PaletteOBP1  uint8
}

// Sprite pairs a decoded OAM entry with the tile pixels and screen
// placement needed to draw it without re-reading memory.
type Sprite struct {
	Info     SpriteInfo
	TileData video.Tile
	OnScreen bool
	X        int
	Y        int
}

// BackgroundVisualizer is a snapshot of both tilemaps, their shared tile
// data, and the scroll/window registers that position them on screen.
type BackgroundVisualizer struct {
	Tilemap           [TilemapHeight][TilemapWidth]uint8
	WindowTilemap     [TilemapHeight][TilemapWidth]uint8
	TileData          []video.Tile
	ScrollX           uint8
	ScrollY           uint8
	WindowX           uint8
	WindowY           uint8
	WindowEnabled     bool
	BGEnabled         bool
	TilemapBase       uint16
	WindowTilemapBase uint16
	TileDataBase      uint16
	PaletteBGP        uint8
}

type PaletteVisualizer struct {
	BGP  PaletteInfo
	OBP0 PaletteInfo
	OBP1 PaletteInfo
}

type PaletteInfo struct {
	Raw    uint8
	Colors [4]video.GBColor
}

// loadTileRange decodes count tiles starting at baseAddr into dst starting
// at offset, growing dst if it isn't large enough yet. Both the sprite and
// background snapshots pull from the same 0x8000-based tile data, so they
// share this loop instead of each rolling their own.
func loadTileRange(reader MemoryReader, dst []video.Tile, offset, count int, baseAddr uint16) []video.Tile {
	if len(dst) < offset+count {
		grown := make([]video.Tile, offset+count)
		copy(grown, dst)
		dst = grown
	}
	for i := 0; i < count; i++ {
		dst[offset+i] = video.FetchTileWithIndex(reader, baseAddr+uint16(i*16), i)
	}
	return dst
}

// ExtractSpriteData decodes every OAM entry visible near currentLine along
// with the tile pixels each sprite references.
func ExtractSpriteData(reader MemoryReader, currentLine uint8) *SpriteVisualizer {
	vis := &SpriteVisualizer{CurrentLine: currentLine}

	lcdc := reader.Read(addr.LCDC)
	vis.SpriteHeight = 8
	if bit.IsSet(2, lcdc) {
		vis.SpriteHeight = 16
	}

	vis.PaletteOBP0 = reader.Read(addr.OBP0)
	vis.PaletteOBP1 = reader.Read(addr.OBP1)
	vis.TileData = loadTileRange(reader, vis.TileData, 0, tallSpriteTileCount, addr.TileData0)

	oamData := ExtractOAMData(reader, int(currentLine), vis.SpriteHeight)
	vis.Sprites = decodeSprites(oamData.Sprites, vis.TileData, vis.SpriteHeight)

	return vis
}

func decodeSprites(entries []SpriteInfo, tiles []video.Tile, spriteHeight int) []Sprite {
	sprites := make([]Sprite, len(entries))
	for i, entry := range entries {
		x, y := int(entry.Sprite.X), int(entry.Sprite.Y)

		tileIndex := entry.Sprite.TileIndex
		if spriteHeight == 16 {
			tileIndex &= 0xFE
		}

		sprites[i] = Sprite{
			Info:     entry,
			TileData: tiles[tileIndex],
			X:        x,
			Y:        y,
			OnScreen: x >= 0 && x < 160 && y >= 0 && y < 144,
		}
	}
	return sprites
}

// ExtractBackgroundData decodes both tilemaps and the combined tile data
// table they index into, honoring the LCDC bits that choose tilemap and
// addressing mode.
func ExtractBackgroundData(reader MemoryReader) *BackgroundVisualizer {
	vis := &BackgroundVisualizer{}

	lcdc := reader.Read(addr.LCDC)
	vis.BGEnabled = bit.IsSet(0, lcdc)
	vis.WindowEnabled = bit.IsSet(5, lcdc)
	vis.TilemapBase = tilemapBase(bit.IsSet(3, lcdc))
	vis.WindowTilemapBase = tilemapBase(bit.IsSet(6, lcdc))

	if bit.IsSet(4, lcdc) {
		vis.TileDataBase = addr.TileData0
	} else {
		vis.TileDataBase = addr.TileData1
	}

	vis.ScrollX = reader.Read(addr.SCX)
	vis.ScrollY = reader.Read(addr.SCY)
	vis.WindowX = reader.Read(addr.WX)
	vis.WindowY = reader.Read(addr.WY)
	vis.PaletteBGP = reader.Read(addr.BGP)

	readTilemap(reader, &vis.Tilemap, vis.TilemapBase)
	readTilemap(reader, &vis.WindowTilemap, vis.WindowTilemapBase)

	// Tiles 0-255 live at 0x8000; tiles 256-383 are the same signed range
	// reused by the 0x8800 addressing mode, based at 0x9000.
	vis.TileData = loadTileRange(reader, vis.TileData, 0, tallSpriteTileCount, addr.TileData0)
	vis.TileData = loadTileRange(reader, vis.TileData, tallSpriteTileCount, bgTileCount-tallSpriteTileCount, addr.TileData2)

	return vis
}

func tilemapBase(highBankSelected bool) uint16 {
	if highBankSelected {
		return addr.TileMap1
	}
	return addr.TileMap0
}

func readTilemap(reader MemoryReader, dst *[TilemapHeight][TilemapWidth]uint8, base uint16) {
	for row := 0; row < TilemapHeight; row++ {
		for col := 0; col < TilemapWidth; col++ {
			dst[row][col] = reader.Read(base + uint16(row*TilemapWidth+col))
		}
	}
}

// ExtractPaletteData decodes the three monochrome palette registers into
// their four-shade color ramps.
func ExtractPaletteData(reader MemoryReader) *PaletteVisualizer {
	return &PaletteVisualizer{
		BGP:  decodePalette(reader.Read(addr.BGP)),
		OBP0: decodePalette(reader.Read(addr.OBP0)),
		OBP1: decodePalette(reader.Read(addr.OBP1)),
	}
}

func decodePalette(reg uint8) PaletteInfo {
	info := PaletteInfo{Raw: reg}
	for shadeIndex := 0; shadeIndex < 4; shadeIndex++ {
		info.Colors[shadeIndex] = video.ByteToColor((reg >> (shadeIndex * 2)) & 0x03)
	}
	return info
}

// GetVisibleSprites returns the sprites the PPU would actually draw: marked
// visible by OAM decoding and positioned within the 160x144 viewport.
func (sv *SpriteVisualizer) GetVisibleSprites() []Sprite {
	visible := make([]Sprite, 0, len(sv.Sprites))
	for _, sprite := range sv.Sprites {
		if sprite.Info.IsVisible && sprite.OnScreen {
			visible = append(visible, sprite)
		}
	}
	return visible
}

// GetSpritesOnLine returns every sprite, visible or not, whose vertical
// span covers the given scanline.
func (sv *SpriteVisualizer) GetSpritesOnLine(line uint8) []Sprite {
	var onLine []Sprite
	for _, sprite := range sv.Sprites {
		top, bottom := sprite.Y, sprite.Y+sv.SpriteHeight
		if int(line) >= top && int(line) < bottom {
			onLine = append(onLine, sprite)
		}
	}
	return onLine
}

// GetViewportTiles returns the 20x18 window of tilemap entries currently
// scrolled into view, wrapping around the 32x32 tilemap at the edges.
func (bv *BackgroundVisualizer) GetViewportTiles() [ScreenHeight][ScreenWidth]uint8 {
	var viewport [ScreenHeight][ScreenWidth]uint8

	startTileX, startTileY := int(bv.ScrollX)/8, int(bv.ScrollY)/8
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			tileY := (startTileY + y) % TilemapHeight
			tileX := (startTileX + x) % TilemapWidth
			viewport[y][x] = bv.Tilemap[tileY][tileX]
		}
	}

	return viewport
}

// GetWindowViewport reports whether the window layer is actually showing
// on screen and, if so, its top-left corner in viewport coordinates. A
// WindowX outside 7-166 places the window fully off the visible area even
// when WindowEnabled is set.
func (bv *BackgroundVisualizer) GetWindowViewport() (active bool, startX, startY int) {
	if !bv.WindowEnabled || bv.WindowX < 7 || bv.WindowX >= 167 {
		return false, 0, 0
	}
	return true, int(bv.WindowX) - 7, int(bv.WindowY)
}

// ApplyPalette maps a raw 2-bit color index through a decoded palette.
func ApplyPalette(color video.GBColor, palette PaletteInfo) video.GBColor {
	return palette.Colors[color&0x03]
}

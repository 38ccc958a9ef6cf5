package video

import "github.com/crosscode/jeebie/jeebie/addr"

// drawScanline renders the current line (background, then window, then
// sprites) directly into the framebuffer. Called once per line, on first
// entering pixel-transfer mode.
func (g *GPU) drawScanline() {
	if !g.lcdcBit(lcdDisplayEnable) {
		g.blankLine()
		return
	}

	g.drawBackground()
	g.drawWindow()
	g.drawSprites()
}

func (g *GPU) blankLine() {
	rowOffset := g.line * FramebufferWidth
	for x := range FramebufferWidth {
		g.framebuffer.pixels[rowOffset+x] = uint32(WhiteColor)
	}
}

// paletteShade resolves a 2-bit color index through a BGP/OBP0/OBP1-style
// palette byte (four 2-bit shade slots, color 0 in the low bits).
func paletteShade(palette byte, colorIndex int) GBColor {
	return ByteToColor((palette >> uint(colorIndex*2)) & 0x03)
}

// tileAddressing resolves which tile data and tile map base addresses a
// background/window layer should use, from the LCDC bits controlling it.
// mapSelect is the LCDC bit for that layer's own tile map choice; the tile
// data choice (signed vs unsigned addressing) is shared by both layers.
func (g *GPU) tileAddressing(mapSelect lcdcFlag) (signed bool, tileData, tileMap uint16) {
	signed = !g.lcdcBit(bgWindowTileDataSelect)
	tileData = addr.TileData0
	if signed {
		tileData = addr.TileData2
	}

	tileMap = addr.TileMap1
	if !g.lcdcBit(mapSelect) {
		tileMap = addr.TileMap0
	}
	return
}

// fetchMapTileRow reads the tile referenced by tile map slot mapIndex and
// returns the row rowInTile (0-7) of its pixel data.
func (g *GPU) fetchMapTileRow(tileMap, tileData uint16, signed bool, mapIndex, rowInTile int) TileRow {
	tileNumber := g.memory.Read(tileMap + uint16(mapIndex))

	var tileAddr uint16
	if signed {
		tileAddr = uint16(int(tileData) + int(int8(tileNumber))*16 + rowInTile*2)
	} else {
		tileAddr = tileData + uint16(int(tileNumber)*16+rowInTile*2)
	}

	return TileRow{Low: g.memory.Read(tileAddr), High: g.memory.Read(tileAddr + 1)}
}

func (g *GPU) paintBGPixel(position, colorIndex int, palette byte) {
	g.bgPixelBuffer[position] = byte(colorIndex)
	g.framebuffer.pixels[position] = uint32(paletteShade(palette, colorIndex))
}

// drawBackground paints the 160 pixels of the current line from the
// background layer, honoring SCX/SCY wraparound and the LCDC bit 0 special
// case: when the background is off, the line still shows BGP's color 0
// rather than going blank, and leaves bgPixelBuffer at 0 (transparent) so
// BG-priority sprites still draw over it.
func (g *GPU) drawBackground() {
	rowOffset := g.line * FramebufferWidth

	if !g.lcdcBit(bgDisplay) {
		color := uint32(paletteShade(g.memory.Read(addr.BGP), 0))
		for x := range FramebufferWidth {
			g.framebuffer.pixels[rowOffset+x] = color
			g.bgPixelBuffer[rowOffset+x] = 0
		}
		return
	}

	signed, tileData, tileMap := g.tileAddressing(bgTileMapDisplaySelect)

	scx := int(g.memory.Read(addr.SCX))
	scy := int(g.memory.Read(addr.SCY))
	bgY := (g.line + scy) & 0xFF
	mapRow := (bgY / 8) * 32
	rowInTile := bgY % 8
	palette := g.memory.Read(addr.BGP)

	for x := range FramebufferWidth {
		bgX := (x + scx) & 0xFF
		mapIndex := mapRow + bgX/8

		row := g.fetchMapTileRow(tileMap, tileData, signed, mapIndex, rowInTile)
		colorIndex := row.GetPixel(bgX % 8)
		g.paintBGPixel(rowOffset+x, colorIndex, palette)
	}
}

// drawWindow overlays the window layer, if visible on this line. The
// window has its own internal line counter (windowLine) that only advances
// on lines where it actually renders, so a window toggled off mid-frame
// resumes from the same internal row when re-enabled.
func (g *GPU) drawWindow() {
	if g.windowLine > 143 || !g.lcdcBit(windowDisplayEnable) {
		return
	}

	wx := g.memory.Read(addr.WX) - 7
	wy := g.memory.Read(addr.WY)
	if wx > 159 || wy > 143 || int(wy) > g.line {
		return
	}

	signed, tileData, tileMap := g.tileAddressing(windowTileMapSelect)
	mapRow := (g.windowLine / 8) * 32
	rowInTile := g.windowLine % 8
	palette := g.memory.Read(addr.BGP)
	rowOffset := g.line * FramebufferWidth
	originX := int(wx)

	for winX := 0; originX+winX < FramebufferWidth; winX++ {
		screenX := originX + winX
		if screenX < 0 {
			continue
		}

		mapIndex := mapRow + winX/8
		if mapIndex >= 32*32 {
			break
		}

		row := g.fetchMapTileRow(tileMap, tileData, signed, mapIndex, rowInTile)
		colorIndex := row.GetPixel(winX % 8)
		g.paintBGPixel(rowOffset+screenX, colorIndex, palette)
	}

	g.windowLine++
}

// drawSprites overlays sprite pixels for the current line. Priority between
// overlapping sprites is resolved by OAM.GetSpritesForScanline; this only
// has to honor each sprite's resulting PixelMask, its own transparency
// (color 0 never draws) and the per-sprite BG-priority flag.
func (g *GPU) drawSprites() {
	if !g.lcdcBit(spriteDisplayEnable) {
		return
	}

	rowOffset := g.line * FramebufferWidth
	for _, sprite := range g.oam.GetSpritesForScanline(g.line) {
		if !sprite.HasPriorityForAnyPixel() {
			continue
		}
		g.drawSpriteRow(&sprite, rowOffset)
	}
}

func (g *GPU) drawSpriteRow(sprite *Sprite, rowOffset int) {
	row := g.fetchSpriteTileRow(sprite)

	paletteAddr := addr.OBP0
	if sprite.PaletteOBP1 {
		paletteAddr = addr.OBP1
	}
	palette := g.memory.Read(paletteAddr)

	for col := range 8 {
		if !sprite.HasPriorityForPixel(col) {
			continue
		}

		colorIndex := row.GetPixel(col)
		if sprite.FlipX {
			colorIndex = row.GetPixelFlipped(col)
		}
		if colorIndex == 0 {
			continue
		}

		screenX := sprite.X + col
		if screenX < 0 || screenX >= FramebufferWidth {
			continue
		}
		position := rowOffset + screenX

		if sprite.BehindBG && g.bgPixelBuffer[position] != 0 {
			continue
		}

		g.framebuffer.pixels[position] = uint32(paletteShade(palette, colorIndex))
	}
}

// fetchSpriteTileRow resolves which tile row to read for sprite on the
// current line. Sprites always use unsigned addressing from 0x8000. 8x16
// sprites mask the tile index to an even number and address the bottom
// half via index+1 once the (possibly Y-flipped) in-sprite row reaches 8.
func (g *GPU) fetchSpriteTileRow(sprite *Sprite) TileRow {
	rowInSprite := g.line - sprite.Y
	if sprite.FlipY {
		rowInSprite = sprite.Height - 1 - rowInSprite
	}

	tileIndex := sprite.TileIndex
	if sprite.Height == 16 {
		tileIndex &= 0xFE
		if rowInSprite >= 8 {
			tileIndex++
			rowInSprite -= 8
		}
	}

	tileAddr := addr.TileData0 + uint16(int(tileIndex)*16+rowInSprite*2)
	return TileRow{Low: g.memory.Read(tileAddr), High: g.memory.Read(tileAddr + 1)}
}

package debug

import (
	"github.com/crosscode/jeebie/jeebie/video"
)

// RenderLayers rasterizes the background, window and sprite layers into
// separate framebuffers, for debug views that want to inspect each layer in
// isolation instead of the final composited frame.
func RenderLayers(reader MemoryReader, currentLine uint8) *video.RenderLayers {
	layers := video.NewRenderLayers()
	layers.Enabled = true

	bg := ExtractBackgroundData(reader)
	renderTilemapLayer(layers.Background, bg.Tilemap, bg.TileData, bg.TileDataBase, bg.PaletteBGP)
	renderTilemapLayer(layers.Window, bg.WindowTilemap, bg.TileData, bg.TileDataBase, bg.PaletteBGP)

	sprites := ExtractSpriteData(reader, currentLine)
	renderSpriteLayer(layers.Sprites, sprites)

	return layers
}

func renderTilemapLayer(dst *video.LayerFramebuffer, tilemap [TilemapHeight][TilemapWidth]uint8, tiles []video.Tile, tileDataBase uint16, palette uint8) {
	for tileRow := 0; tileRow < TilemapHeight; tileRow++ {
		for tileCol := 0; tileCol < TilemapWidth; tileCol++ {
			tileIndex := tilemapIndex(tilemap[tileRow][tileCol], tileDataBase)
			if tileIndex < 0 || tileIndex >= len(tiles) {
				continue
			}
			tile := tiles[tileIndex]

			for y := 0; y < 8; y++ {
				for x := 0; x < 8; x++ {
					colorIndex := tile.GetPixel(x, y)
					color := paletteColor(palette, colorIndex)

					px := tileCol*8 + x
					py := tileRow*8 + y
					dst.Buffer[py*dst.Width+px] = uint32(color)
				}
			}
		}
	}
}

// tilemapIndex converts a raw tilemap byte into an index into the 384-entry
// combined tile table ExtractBackgroundData builds, honoring the signed
// addressing mode used when LCDC bit 4 selects the 0x8800 tile data area.
func tilemapIndex(raw uint8, tileDataBase uint16) int {
	if tileDataBase == 0x8000 {
		return int(raw)
	}
	return 256 + int(int8(raw))
}

func renderSpriteLayer(dst *video.LayerFramebuffer, sprites *SpriteVisualizer) {
	for _, sprite := range sprites.Sprites {
		if !sprite.OnScreen {
			continue
		}

		palette := sprites.PaletteOBP0
		if sprite.Info.Sprite.PaletteOBP1 {
			palette = sprites.PaletteOBP1
		}

		for y := 0; y < 8; y++ {
			py := sprite.Y + y
			if py < 0 || py >= dst.Height {
				continue
			}
			for x := 0; x < 8; x++ {
				colorIndex := sprite.TileData.GetPixel(x, y)
				if colorIndex == 0 {
					continue // sprite color 0 is transparent
				}

				px := sprite.X + x
				if px < 0 || px >= dst.Width {
					continue
				}

				dst.Buffer[py*dst.Width+px] = uint32(paletteColor(palette, colorIndex))
			}
		}
	}
}

func paletteColor(palette uint8, colorIndex int) video.GBColor {
	shade := (palette >> (colorIndex * 2)) & 0x03
	return video.ByteToColor(shade)
}

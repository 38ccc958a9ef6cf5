package video

import (
	"testing"

	"github.com/crosscode/jeebie/jeebie/addr"
	"github.com/crosscode/jeebie/jeebie/memory"
	"github.com/stretchr/testify/assert"
)

// oamSprite is test scaffolding describing one sprite to place in OAM.
type oamSprite struct {
	oamIndex int
	x, y     int
	tile     [16]byte
}

func placeSprite(mmu *memory.MMU, s oamSprite) {
	oamAddr := uint16(0xFE00 + s.oamIndex*4)
	mmu.Write(oamAddr, byte(s.y+16))
	mmu.Write(oamAddr+1, byte(s.x+8))
	mmu.Write(oamAddr+2, byte(s.oamIndex+1))
	mmu.Write(oamAddr+3, 0x00)

	tileAddr := uint16(0x8000 + (s.oamIndex+1)*16)
	for i, b := range s.tile {
		mmu.Write(tileAddr+uint16(i), b)
	}
}

var (
	blackTile     = [16]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	darkGreyTile  = [16]byte{0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF}
	lightGreyTile = [16]byte{0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00}
)

func tileColor(tile [16]byte) GBColor {
	switch {
	case tile[0] == 0xFF && tile[1] == 0xFF:
		return BlackColor
	case tile[0] == 0x00 && tile[1] == 0xFF:
		return DarkGreyColor
	case tile[0] == 0xFF && tile[1] == 0x00:
		return LightGreyColor
	default:
		return WhiteColor
	}
}

// TestSpritePriorityResolvesByXThenOAMIndex walks overlapping sprite
// placements and checks which sprite's color wins at each pixel: lower X
// wins, ties broken by lower OAM index.
func TestSpritePriorityResolvesByXThenOAMIndex(t *testing.T) {
	tests := []struct {
		name    string
		sprites []oamSprite
		owner   map[int]int // screen X -> winning sprite index, absent means background
	}{
		{
			name: "lower X wins the overlap",
			sprites: []oamSprite{
				{oamIndex: 0, x: 20, y: 50, tile: blackTile},
				{oamIndex: 1, x: 10, y: 50, tile: darkGreyTile},
			},
			owner: map[int]int{10: 1, 17: 1, 20: 0, 27: 0},
		},
		{
			name: "same X, lower OAM index wins",
			sprites: []oamSprite{
				{oamIndex: 0, x: 20, y: 50, tile: blackTile},
				{oamIndex: 1, x: 20, y: 50, tile: darkGreyTile},
			},
			owner: map[int]int{20: 0, 27: 0},
		},
		{
			name: "three-way overlap resolves both rules",
			sprites: []oamSprite{
				{oamIndex: 0, x: 15, y: 50, tile: blackTile},
				{oamIndex: 1, x: 10, y: 50, tile: darkGreyTile},
				{oamIndex: 2, x: 15, y: 50, tile: lightGreyTile},
			},
			owner: map[int]int{10: 1, 17: 1, 18: 0, 22: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mmu := memory.New()
			gpu := NewGpu(mmu)

			mmu.Write(addr.LCDC, 0x83)
			mmu.Write(addr.BGP, 0xE4)
			mmu.Write(addr.OBP0, 0xE4)

			for _, s := range tt.sprites {
				placeSprite(mmu, s)
			}

			gpu.line = 50
			gpu.drawScanline()

			fb := gpu.GetFrameBuffer()
			for x, spriteIdx := range tt.owner {
				want := uint32(tileColor(tt.sprites[spriteIdx].tile))
				assert.Equal(t, want, fb.GetPixel(uint(x), 50), "pixel %d", x)
			}
		})
	}
}

// TestScanlineCapsAtTenSprites checks the hardware 10-sprites-per-line limit,
// including that sprites scrolled fully off-screen still count against it.
func TestScanlineCapsAtTenSprites(t *testing.T) {
	t.Run("eleventh and twelfth sprite are dropped", func(t *testing.T) {
		mmu := memory.New()
		gpu := NewGpu(mmu)

		mmu.Write(addr.LCDC, 0x93)
		mmu.Write(addr.BGP, 0xE4)
		mmu.Write(addr.OBP0, 0xE4)

		for i := 0; i < 12; i++ {
			placeSprite(mmu, oamSprite{oamIndex: i, x: i*8 + 8, y: 50, tile: blackTile})
		}

		gpu.line = 50
		gpu.drawScanline()

		fb := gpu.GetFrameBuffer()
		bg := fb.GetPixel(0, 50)
		for i := 0; i < 10; i++ {
			assert.NotEqual(t, bg, fb.GetPixel(uint(8+i*8), 50), "sprite %d should render", i)
		}
		for i := 10; i < 12; i++ {
			assert.Equal(t, bg, fb.GetPixel(uint(8+i*8), 50), "sprite %d exceeds the scanline limit", i)
		}
	})

	t.Run("off-screen sprites still occupy a slot", func(t *testing.T) {
		mmu := memory.New()
		gpu := NewGpu(mmu)

		mmu.Write(addr.LCDC, 0x82)
		mmu.Write(addr.OBP0, 0xE4)

		for i := 0; i < 12; i++ {
			x := -8
			if i >= 8 {
				x = 20 + i*10 - 8
			}
			placeSprite(mmu, oamSprite{oamIndex: i, x: x, y: 50, tile: blackTile})
		}

		gpu.line = 50
		gpu.drawScanline()

		fb := gpu.GetFrameBuffer()
		assert.Equal(t, uint32(BlackColor), fb.GetPixel(92, 50), "9th sprite (index 8) still fits in the limit")
		assert.Equal(t, uint32(BlackColor), fb.GetPixel(102, 50), "10th sprite (index 9) still fits in the limit")
		assert.Equal(t, uint32(WhiteColor), fb.GetPixel(112, 50), "11th sprite exceeds the limit")
		assert.Equal(t, uint32(WhiteColor), fb.GetPixel(122, 50), "12th sprite exceeds the limit")
	})
}

// TestSpriteBGPriorityFlag checks the per-sprite "behind background" flag:
// when set, the sprite only shows through background color 0.
func TestSpriteBGPriorityFlag(t *testing.T) {
	tests := []struct {
		name        string
		bgColor     byte
		behindBG    bool
		spriteColor byte
		wantSprite  bool
	}{
		{"above BG, over color 0", 0, false, 1, true},
		{"above BG, over color 3", 3, false, 1, true},
		{"behind BG, over color 0 still shows", 0, true, 1, true},
		{"behind BG, hidden by color 1", 1, true, 1, false},
		{"behind BG, hidden by color 3", 3, true, 1, false},
		{"transparent sprite never shows", 0, false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mmu := memory.New()
			gpu := NewGpu(mmu)

			mmu.Write(addr.LCDC, 0x93)
			mmu.Write(addr.BGP, 0xE4)
			mmu.Write(addr.OBP0, 0xE4)

			bgTile := solidColorTile(tt.bgColor)
			for i, b := range bgTile {
				mmu.Write(addr.TileData0+uint16(i), b)
			}
			mmu.Write(addr.TileMap0+uint16((50/8)*32+50/8), 0)

			spriteTile := solidColorTile(tt.spriteColor)
			attrs := byte(0)
			if tt.behindBG {
				attrs = 0x80
			}
			mmu.Write(0xFE00, 50+16)
			mmu.Write(0xFE01, 50+8)
			mmu.Write(0xFE02, 1)
			mmu.Write(0xFE03, attrs)
			for i, b := range spriteTile {
				mmu.Write(addr.TileData0+16+uint16(i), b)
			}

			gpu.line = 50
			gpu.drawScanline()

			got := gpu.framebuffer.GetPixel(50, 50)
			if tt.wantSprite {
				assert.Equal(t, uint32(tileColor(spriteTile)), got, "sprite pixel expected")
			} else {
				assert.Equal(t, uint32(tileColor(bgTile)), got, "background pixel expected")
			}
		})
	}
}

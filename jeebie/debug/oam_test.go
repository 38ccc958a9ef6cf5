package debug

import (
	"testing"

	"github.com/crosscode/jeebie/jeebie/memory"
	"github.com/crosscode/jeebie/jeebie/video"
	"github.com/stretchr/testify/assert"
)

func writeOAMEntry(mmu *memory.MMU, index int, rawY, rawX, tile, flags byte) {
	base := uint16(OAMBaseAddr + index*OAMBytesPerSprite)
	mmu.Write(base, rawY)
	mmu.Write(base+1, rawX)
	mmu.Write(base+2, tile)
	mmu.Write(base+3, flags)
}

func TestExtractOAMDataReadsAllEntries(t *testing.T) {
	mmu := memory.New()
	writeOAMEntry(mmu, 0, 16+50, 8+30, 0x42, 0x80)
	writeOAMEntry(mmu, 1, 16+60, 8+40, 0x24, 0x00)

	data := ExtractOAMData(mmu, 55, 8)

	assert.Len(t, data.Sprites, OAMSpriteCount)
	assert.Equal(t, 55, data.CurrentLine)
	assert.Equal(t, 8, data.SpriteHeight)

	sprite0 := data.Sprites[0]
	assert.Equal(t, 0, sprite0.Index)
	assert.Equal(t, 50, sprite0.Sprite.Y)
	assert.Equal(t, 30, sprite0.Sprite.X)
	assert.Equal(t, uint8(0x42), sprite0.Sprite.TileIndex)
	assert.True(t, sprite0.Sprite.BehindBG)
	assert.True(t, sprite0.IsVisible, "Y=50, line=55, height=8 -> 50 <= 55 < 58")

	sprite1 := data.Sprites[1]
	assert.Equal(t, 60, sprite1.Sprite.Y)
	assert.False(t, sprite1.IsVisible, "Y=60, line=55 -> 60 > 55")
	assert.Equal(t, 1, data.ActiveSprites)
}

func TestSpriteVisibilityWindow(t *testing.T) {
	tests := []struct {
		name         string
		rawY         byte
		currentLine  int
		spriteHeight int
		expected     bool
	}{
		{"above the line", 16 + 10, 20, 8, false},
		{"on the line", 16 + 20, 20, 8, true},
		{"within range before the line", 16 + 15, 20, 8, true},
		{"past the line", 16 + 25, 20, 8, false},
		{"16px sprite extends range", 16 + 10, 20, 16, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mmu := memory.New()
			writeOAMEntry(mmu, 0, tt.rawY, 8+10, 0, 0)

			data := ExtractOAMData(mmu, tt.currentLine, tt.spriteHeight)

			assert.Equal(t, tt.expected, data.Sprites[0].IsVisible)
		})
	}
}

func TestSpriteInfoDecodeAttributes(t *testing.T) {
	tests := []struct {
		name     string
		flags    uint8
		priority bool
		flipY    bool
		flipX    bool
		palette  int
	}{
		{"no flags", 0x00, false, false, false, 0},
		{"background priority", 0x80, true, false, false, 0},
		{"flip y", 0x40, false, true, false, 0},
		{"flip x", 0x20, false, false, true, 0},
		{"palette 1", 0x10, false, false, false, 1},
		{"all flags", 0xF0, true, true, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := SpriteInfo{Sprite: video.Sprite{
				Flags:       tt.flags,
				BehindBG:    tt.flags&0x80 != 0,
				FlipY:       tt.flags&0x40 != 0,
				FlipX:       tt.flags&0x20 != 0,
				PaletteOBP1: tt.flags&0x10 != 0,
			}}

			decoded := info.DecodeAttributes()

			assert.Equal(t, tt.priority, decoded.BackgroundPriority)
			assert.Equal(t, tt.flipY, decoded.FlipY)
			assert.Equal(t, tt.flipX, decoded.FlipX)
			assert.Equal(t, tt.palette, decoded.PaletteNumber)
		})
	}
}

func TestOAMDataGetVisibleSprites(t *testing.T) {
	mmu := memory.New()
	writeOAMEntry(mmu, 0, 16+20, 8+10, 0x01, 0x00)  // visible on line 22
	writeOAMEntry(mmu, 1, 16+100, 8+20, 0x02, 0x00) // not visible
	writeOAMEntry(mmu, 2, 16+18, 8+30, 0x03, 0x00)  // visible on line 22

	visible := ExtractOAMData(mmu, 22, 8).GetVisibleSprites()

	assert.Len(t, visible, 2)
	assert.Equal(t, 0, visible[0].Index)
	assert.Equal(t, 2, visible[1].Index)
}

func TestOAMDataFormatSummary(t *testing.T) {
	data := &OAMData{CurrentLine: 144, ActiveSprites: 3, SpriteHeight: 8}

	assert.Equal(t, "Current Line: 144 | Active Sprites: 3/10 | Height: 8px", data.FormatSummary())
}

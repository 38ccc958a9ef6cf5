package video

import (
	"testing"

	"github.com/crosscode/jeebie/jeebie/addr"
	"github.com/crosscode/jeebie/jeebie/memory"
	"github.com/stretchr/testify/assert"
)

func writeOAMEntry(mmu *memory.MMU, index int, rawY, rawX, tile, flags byte) {
	base := addr.OAMStart + uint16(index*4)
	mmu.Write(base, rawY)
	mmu.Write(base+1, rawX)
	mmu.Write(base+2, tile)
	mmu.Write(base+3, flags)
}

func TestOAMDecodesEntryFields(t *testing.T) {
	mmu := memory.New()
	oam := NewOAM(mmu)

	writeOAMEntry(mmu, 0, 50+16, 80+8, 0x42, 0xE0) // flip X, flip Y, behind BG
	writeOAMEntry(mmu, 1, 100+16, 20+8, 0x10, 0x10) // OBP1 palette

	sprite0 := oam.GetSprite(0)
	assert.Equal(t, 50, sprite0.Y, "Y position should be adjusted by -16")
	assert.Equal(t, 80, sprite0.X, "X position should be adjusted by -8")
	assert.Equal(t, uint8(0x42), sprite0.TileIndex)
	assert.True(t, sprite0.FlipX)
	assert.True(t, sprite0.FlipY)
	assert.True(t, sprite0.BehindBG)
	assert.False(t, sprite0.PaletteOBP1)

	sprite1 := oam.GetSprite(1)
	assert.Equal(t, 100, sprite1.Y)
	assert.Equal(t, 20, sprite1.X)
	assert.Equal(t, uint8(0x10), sprite1.TileIndex)
	assert.False(t, sprite1.FlipX)
	assert.False(t, sprite1.FlipY)
	assert.False(t, sprite1.BehindBG)
	assert.True(t, sprite1.PaletteOBP1)
}

func TestGetSpritesForScanline(t *testing.T) {
	mmu := memory.New()
	oam := NewOAM(mmu)

	writeOAMEntry(mmu, 0, 10+16, 20+8, 0, 0)
	writeOAMEntry(mmu, 1, 20+16, 30+8, 0, 0)
	writeOAMEntry(mmu, 2, 20+16, 40+8, 0, 0) // shares a scanline with sprite 1
	writeOAMEntry(mmu, 3, 50+16, 50+8, 0, 0)

	t.Run("8x8 sprites", func(t *testing.T) {
		mmu.Write(addr.LCDC, 0x00)

		indicesOnLine := func(line int) []int {
			var got []int
			for _, s := range oam.GetSpritesForScanline(line) {
				got = append(got, s.OAMIndex)
			}
			return got
		}

		assert.Equal(t, []int{0}, indicesOnLine(10), "sprite 0's first row")
		assert.Equal(t, []int{0}, indicesOnLine(17), "sprite 0's last row")
		assert.Empty(t, indicesOnLine(18), "one row past sprite 0's height")
		assert.Equal(t, []int{1, 2}, indicesOnLine(20), "two sprites sharing Y=20")
		assert.Equal(t, []int{1, 2}, indicesOnLine(27))
		assert.Equal(t, []int{3}, indicesOnLine(50))
	})

	t.Run("8x16 sprites", func(t *testing.T) {
		mmu.Write(addr.LCDC, 0x04)

		indicesOnLine := func(line int) []int {
			var got []int
			for _, s := range oam.GetSpritesForScanline(line) {
				got = append(got, s.OAMIndex)
			}
			return got
		}

		assert.Equal(t, []int{0}, indicesOnLine(10))
		assert.Equal(t, []int{0, 1, 2}, indicesOnLine(25), "doubled height reaches into sprites 1 and 2's rows")
		assert.Equal(t, []int{1, 2}, indicesOnLine(35), "sprite 0 has scrolled out by its doubled height")
	})
}

func TestGetSpritesForScanlineCapsAtTen(t *testing.T) {
	mmu := memory.New()
	oam := NewOAM(mmu)

	for i := 0; i < 15; i++ {
		writeOAMEntry(mmu, i, 50+16, byte(i)+8, byte(i), 0)
	}
	mmu.Write(addr.LCDC, 0x00)

	sprites := oam.GetSpritesForScanline(50)
	assert.Len(t, sprites, maxSpritesPerScanline)
	for i, s := range sprites {
		assert.Equal(t, i, s.OAMIndex, "sprites beyond the limit are dropped, not reordered")
	}
}

func TestGetAllSprites(t *testing.T) {
	mmu := memory.New()
	oam := NewOAM(mmu)

	for i := 0; i < 40; i++ {
		writeOAMEntry(mmu, i, byte(i)+16, byte(i*2)+8, byte(i), 0)
	}

	sprites := oam.GetAllSprites()
	assert.Len(t, sprites, 40)

	assert.Equal(t, 0, sprites[0].Y)
	assert.Equal(t, 0, sprites[0].X)
	assert.Equal(t, uint8(0), sprites[0].TileIndex)

	assert.Equal(t, 10, sprites[10].Y)
	assert.Equal(t, 20, sprites[10].X)
	assert.Equal(t, uint8(10), sprites[10].TileIndex)
}

func TestGetSpriteReadsLiveMemory(t *testing.T) {
	mmu := memory.New()
	oam := NewOAM(mmu)

	mmu.Write(addr.OAMStart, 50+16)
	assert.Equal(t, 50, oam.GetSprite(0).Y)

	mmu.Write(addr.OAMStart, 60+16)
	assert.Equal(t, 60, oam.GetSprite(0).Y, "OAM is not cached between reads")
}

func TestOAMBoundaryPositions(t *testing.T) {
	mmu := memory.New()
	oam := NewOAM(mmu)

	writeOAMEntry(mmu, 0, 16, 8, 0, 0) // Y=0, X=0 at the raw-offset floor
	writeOAMEntry(mmu, 1, 255, 255, 0, 0)

	sprite0 := oam.GetSprite(0)
	assert.Equal(t, 0, sprite0.Y)
	assert.Equal(t, 0, sprite0.X)

	sprite1 := oam.GetSprite(1)
	assert.Equal(t, 239, sprite1.Y)
	assert.Equal(t, 247, sprite1.X)
}

func TestGetSpriteRejectsOutOfRangeIndex(t *testing.T) {
	mmu := memory.New()
	oam := NewOAM(mmu)

	assert.Nil(t, oam.GetSprite(-1))
	assert.Nil(t, oam.GetSprite(40))
	assert.Nil(t, oam.GetSprite(100))
}

package video

import (
	"github.com/crosscode/jeebie/jeebie/addr"
	"github.com/crosscode/jeebie/jeebie/bit"
)

// statFlag names a bit position in the STAT register.
//
//	7 - unused
//	6 - LYC=LY interrupt enable
//	5 - mode 2 (OAM) interrupt enable
//	4 - mode 1 (VBlank) interrupt enable
//	3 - mode 0 (HBlank) interrupt enable
//	2 - LYC=LY comparison flag (1 = equal)
//	1:0 - current PPU mode
type statFlag uint8

const (
	statLycIrq       statFlag = 6
	statOamIrq       statFlag = 5
	statVblankIrq    statFlag = 4
	statHblankIrq    statFlag = 3
	statLycCondition statFlag = 2
)

// lcdcFlag names a bit position in the LCDC register.
//
//	7 - LCD enable
//	6 - window tile map select (0=0x9800, 1=0x9C00)
//	5 - window enable
//	4 - BG/window tile data select (0=0x9000 signed, 1=0x8000 unsigned)
//	3 - BG tile map select (0=0x9800, 1=0x9C00)
//	2 - sprite size (0=8x8, 1=8x16)
//	1 - sprite enable
//	0 - BG enable (DMG: also gates sprite-over-BG display)
type lcdcFlag uint8

const (
	lcdDisplayEnable       lcdcFlag = 7
	windowTileMapSelect    lcdcFlag = 6
	windowDisplayEnable    lcdcFlag = 5
	bgWindowTileDataSelect lcdcFlag = 4
	bgTileMapDisplaySelect lcdcFlag = 3
	spriteSize             lcdcFlag = 2
	spriteDisplayEnable    lcdcFlag = 1
	bgDisplay              lcdcFlag = 0
)

func (g *GPU) lcdcBit(flag lcdcFlag) bool {
	return bit.IsSet(uint8(flag), g.memory.Read(addr.LCDC))
}

// readLCDCVariable is lcdcBit as a byte: 1 when the flag is set, else 0.
func (g *GPU) readLCDCVariable(flag lcdcFlag) byte {
	if g.lcdcBit(flag) {
		return 1
	}
	return 0
}

func (g *GPU) statBit(flag statFlag) bool {
	return bit.IsSet(uint8(flag), g.memory.Read(addr.STAT))
}

// setMode writes the PPU mode into STAT bits 1:0 and tracks it locally.
func (g *GPU) setMode(mode GpuMode) {
	g.mode = mode
	stat := g.memory.Read(addr.STAT)
	stat = stat&0xFC | byte(mode)
	g.memory.Write(addr.STAT, stat)
}

// enterMode transitions to mode and requests an LCD STAT interrupt if that
// mode's corresponding STAT bit is set.
func (g *GPU) enterMode(mode GpuMode, irq statFlag) {
	g.setMode(mode)
	if g.statBit(irq) {
		g.memory.RequestInterrupt(addr.LCDSTATInterrupt)
	}
}

// setLY updates the LY register and re-evaluates the LYC comparison.
func (g *GPU) setLY(line int) {
	g.line = line
	g.memory.Write(addr.LY, byte(line))
	g.compareLYToLYC()
}

func (g *GPU) compareLYToLYC() {
	equal := g.memory.Read(addr.LY) == g.memory.Read(addr.LYC)
	stat := g.memory.Read(addr.STAT)

	if equal {
		stat = bit.Set(uint8(statLycCondition), stat)
	} else {
		stat = bit.Reset(uint8(statLycCondition), stat)
	}
	g.memory.Write(addr.STAT, stat)

	if equal && g.statBit(statLycIrq) {
		g.memory.RequestInterrupt(addr.LCDSTATInterrupt)
	}
}

package video

import (
	"fmt"
	"log/slog"

	"github.com/crosscode/jeebie/jeebie/addr"
	"github.com/crosscode/jeebie/jeebie/memory"
)

// GpuMode is the PPU's current rendering stage, matching STAT bits 1:0.
type GpuMode int

const (
	hblankMode   GpuMode = 0
	vblankMode   GpuMode = 1
	oamReadMode  GpuMode = 2
	vramReadMode GpuMode = 3
)

// Cycle budgets, in T-cycles, for one scanline's three active modes and for
// a full frame. VBlank doesn't follow the same per-mode split: it spends
// ten scanline-lengths (scanlineCycles each) as mode 1 before the next
// frame's OAM scan begins.
const (
	oamScanlineCycles  = 80
	vramScanlineCycles = 172
	hblankCycles       = 204
	scanlineCycles     = oamScanlineCycles + vramScanlineCycles + hblankCycles
	vblankLineCount    = 10
	frameCycles        = 70224

	// Within the last VBlank scanline (LY=153), hardware resets LY to 0
	// a few cycles before actually leaving mode 1; lineZeroCycles and
	// modeExitCycles are that quirk's two thresholds, both measured from
	// the start of VBlank.
	lineZeroCycles = 4104
	modeExitCycles = 4560
)

// GPU reproduces the DMG picture processing unit: a scanline renderer
// driven by a cycle-accurate mode state machine, composing background,
// window and sprite layers into a 160x144 framebuffer.
type GPU struct {
	memory      *memory.MMU
	framebuffer *FrameBuffer
	oam         *OAM

	// bgPixelBuffer records each pixel's background/window color index (not
	// the final shade) so sprite rendering can test BG priority against it.
	bgPixelBuffer []byte

	mode                 GpuMode
	line                 int
	cycles               int
	modeCounterAux       int
	vBlankLine           int
	pixelCounter         int
	tileCycleCounter     int
	isScanLineTransfered bool
	windowLine           int
}

func NewGpu(mem *memory.MMU) *GPU {
	gpu := &GPU{
		memory:        mem,
		framebuffer:   NewFrameBuffer(),
		oam:           NewOAM(mem),
		bgPixelBuffer: make([]byte, FramebufferSize),
		mode:          vblankMode,
		line:          144,
	}

	lcdc := mem.Read(addr.LCDC)
	bgp := mem.Read(addr.BGP)
	slog.Debug("GPU initialized", "LCDC", fmt.Sprintf("0x%02X", lcdc), "LCD_enabled", lcdc&0x80 != 0, "BGP", fmt.Sprintf("0x%02X", bgp))

	return gpu
}

func (g *GPU) GetFrameBuffer() *FrameBuffer {
	return g.framebuffer
}

// Tick advances the PPU by cycles T-cycles, stepping through the
// OAM-scan -> pixel-transfer -> HBlank -> (repeat) cycle for the 144
// visible lines, then a 10-line VBlank before wrapping back to line 0.
func (g *GPU) Tick(cycles int) {
	g.cycles += cycles

	switch g.mode {
	case hblankMode:
		g.tickHBlank()
	case vblankMode:
		g.tickVBlank(cycles)
	case oamReadMode:
		g.tickOAMScan()
	case vramReadMode:
		g.tickPixelTransfer()
	}

	if g.cycles >= frameCycles {
		g.cycles -= frameCycles
	}
}

func (g *GPU) tickHBlank() {
	if g.cycles < hblankCycles {
		return
	}
	g.cycles -= hblankCycles
	g.setMode(oamReadMode)
	g.setLY(g.line + 1)

	if g.line == 144 {
		g.enterVBlank()
		return
	}
	if g.statBit(statOamIrq) {
		g.memory.RequestInterrupt(addr.LCDSTATInterrupt)
	}
}

func (g *GPU) enterVBlank() {
	g.setMode(vblankMode)
	g.vBlankLine = 0
	g.modeCounterAux = g.cycles
	g.windowLine = 0

	g.memory.RequestInterrupt(addr.VBlankInterrupt)
	if g.statBit(statVblankIrq) {
		g.memory.RequestInterrupt(addr.LCDSTATInterrupt)
	}
}

func (g *GPU) tickVBlank(cycles int) {
	g.modeCounterAux += cycles

	if g.modeCounterAux >= scanlineCycles {
		g.modeCounterAux -= scanlineCycles
		g.vBlankLine++
		if g.vBlankLine <= vblankLineCount-1 {
			g.setLY(g.line + 1)
		}
	}

	if g.line == 153 && g.cycles >= lineZeroCycles && g.modeCounterAux >= 4 {
		g.setLY(0)
	}

	if g.cycles >= modeExitCycles {
		g.cycles -= modeExitCycles
		g.enterMode(oamReadMode, statOamIrq)
	}
}

func (g *GPU) tickOAMScan() {
	if g.cycles < oamScanlineCycles {
		return
	}
	g.cycles -= oamScanlineCycles
	g.setMode(vramReadMode)
	g.isScanLineTransfered = false
}

func (g *GPU) tickPixelTransfer() {
	if !g.isScanLineTransfered {
		if g.lcdcBit(lcdDisplayEnable) {
			g.drawScanline()
		}
		g.isScanLineTransfered = true
	}

	if g.cycles < vramScanlineCycles {
		return
	}
	g.pixelCounter = 0
	g.tileCycleCounter = 0
	g.cycles -= vramScanlineCycles
	g.enterMode(hblankMode, statHblankIrq)
}

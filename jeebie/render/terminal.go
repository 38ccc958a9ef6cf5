package render

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crosscode/jeebie/jeebie"
	"github.com/crosscode/jeebie/jeebie/debug"
	"github.com/crosscode/jeebie/jeebie/disasm"
	"github.com/crosscode/jeebie/jeebie/memory"
	"github.com/crosscode/jeebie/jeebie/video"
	"github.com/gdamore/tcell/v2"
)

const (
	width     = 160
	height    = 144
	scaleX    = 1
	scaleY    = 1
	frameTime = time.Second / 60

	gameAreaWidth  = width * scaleX
	gameAreaHeight = height * scaleY
	registerHeight = 7 // CPU registers + status
	disasmHeight   = 9 // 4 before + current + 4 after
	minTermWidth   = 100
	minTermHeight  = 35
)

var shadeChars = []rune{'█', '▓', '▒', '░'}

var shadeByColor = map[video.GBColor]int{
	video.BlackColor:     0,
	video.DarkGreyColor:  1,
	video.LightGreyColor: 2,
	video.WhiteColor:     3,
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// TerminalRenderer drives a tcell screen split into a Game Boy viewport and
// a right-hand debug panel (registers, disassembly, logs).
type TerminalRenderer struct {
	screen    tcell.Screen
	emulator  *jeebie.Emulator
	running   bool
	logBuffer *LogBuffer
}

func NewTerminalRenderer(emu *jeebie.Emulator) (*TerminalRenderer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %v", err)
	}

	logBuffer := NewLogBuffer(100)
	slog.SetDefault(slog.New(NewLogBufferHandler(logBuffer, slog.LevelDebug)))
	slog.Info("Terminal renderer initialized")
	slog.Debug("Split-screen layout ready")

	return &TerminalRenderer{
		screen:    screen,
		emulator:  emu,
		running:   true,
		logBuffer: logBuffer,
	}, nil
}

func (t *TerminalRenderer) Run() error {
	defer func() {
		slog.Info("Finishing terminal")
		t.screen.Fini()
	}()

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	go t.handleInput()

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	for t.running {
		select {
		case <-ticker.C:
			t.emulator.RunUntilFrame()
			t.render()
			t.screen.Show()
		case <-signals:
			t.running = false
			slog.Info("Received signal to stop")
			return nil
		}
	}

	return nil
}

func (t *TerminalRenderer) handleInput() {
	for t.running {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			t.handleKeyEvent(ev)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func (t *TerminalRenderer) handleKeyEvent(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		t.running = false
	case tcell.KeyEnter:
		t.emulator.HandleKeyPress(memory.JoypadStart)
	case tcell.KeyRight:
		t.emulator.HandleKeyPress(memory.JoypadRight)
	case tcell.KeyLeft:
		t.emulator.HandleKeyPress(memory.JoypadLeft)
	case tcell.KeyUp:
		t.emulator.HandleKeyPress(memory.JoypadUp)
	case tcell.KeyDown:
		t.emulator.HandleKeyPress(memory.JoypadDown)
	case tcell.KeyF12:
		debug.TakeSnapshot(t.emulator.GetCurrentFrame(), false, 0)
	case tcell.KeyRune:
		t.handleRune(ev.Rune())
	}
}

func (t *TerminalRenderer) handleRune(r rune) {
	switch r {
	case 'a':
		t.emulator.HandleKeyPress(memory.JoypadA)
	case 's':
		t.emulator.HandleKeyPress(memory.JoypadB)
	case 'q':
		t.emulator.HandleKeyPress(memory.JoypadSelect)
	case ' ': // pause/resume toggle
		if t.emulator.GetDebuggerState() == jeebie.DebuggerPaused {
			t.emulator.DebuggerResume()
		} else {
			t.emulator.DebuggerPause()
		}
	case 'n':
		t.emulator.DebuggerStepInstruction()
	case 'f':
		t.emulator.DebuggerStepFrame()
	case 'r':
		t.emulator.DebuggerResume()
	case 'p':
		t.emulator.DebuggerPause()
	case 'o': // log OAM sprite summary for the current line
		t.logOAMSummary()
	case 'v': // log VRAM tilemap summary
		t.logVRAMSummary()
	case 'l': // export background/window/sprite layers as separate PNGs
		t.exportLayers()
	}
}

func (t *TerminalRenderer) logOAMSummary() {
	mmu := t.emulator.GetMMU()
	line := int(mmu.Read(0xFF44)) // LY
	spriteHeight := 8
	if mmu.ReadBit(2, 0xFF40) { // LCDC bit 2
		spriteHeight = 16
	}
	slog.Info(debug.ExtractOAMData(mmu, line, spriteHeight).FormatSummary())
}

func (t *TerminalRenderer) logVRAMSummary() {
	slog.Info(debug.ExtractVRAMData(t.emulator.GetMMU()).TilemapInfo.FormatSummary())
}

func (t *TerminalRenderer) exportLayers() {
	mmu := t.emulator.GetMMU()
	line := mmu.Read(0xFF44) // LY
	if err := debug.SaveLayersPNG(debug.RenderLayers(mmu, line), "jeebie_layers", ""); err != nil {
		slog.Error("Failed to export layers", "error", err)
	}
}

func (t *TerminalRenderer) render() {
	termWidth, termHeight := t.screen.Size()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		t.renderTooSmallWarning(termWidth, termHeight)
		return
	}

	t.screen.Clear()
	t.drawBorders(termWidth, termHeight)
	t.drawGameBoy()
	t.drawRegisters(termWidth, termHeight)
	t.drawDisassembly(termWidth, termHeight)
	t.drawLogs(termWidth, termHeight)
}

func (t *TerminalRenderer) renderTooSmallWarning(termWidth, termHeight int) {
	t.screen.Clear()
	style := tcell.StyleDefault.Foreground(tcell.ColorRed)
	msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
	t.drawText(0, termHeight/2, msg, style, termWidth)
}

// drawText writes text starting at (x, y), truncating with an ellipsis if
// it would overflow maxWidth columns from x.
func (t *TerminalRenderer) drawText(x, y int, text string, style tcell.Style, maxWidth int) {
	if maxWidth <= 0 {
		return
	}
	if len(text) > maxWidth {
		if maxWidth > 3 {
			text = text[:maxWidth-3] + "..."
		} else {
			text = text[:maxWidth]
		}
	}
	for i, ch := range text {
		if i >= maxWidth {
			break
		}
		t.screen.SetContent(x+i, y, ch, nil, style)
	}
}

func (t *TerminalRenderer) drawBorders(termWidth, termHeight int) {
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	borderX := min(gameAreaWidth+1, termWidth/2)
	if borderX >= termWidth-10 {
		borderX = termWidth - 10 // leave room for the right panel
	}

	for y := 0; y < termHeight; y++ {
		if borderX < termWidth {
			t.screen.SetContent(borderX, y, '│', nil, borderStyle)
		}
	}

	registerEndY := registerHeight + 1
	if registerEndY < termHeight {
		t.drawHorizontalRule(borderX, registerEndY, termWidth, borderStyle)
	}

	disasmEndY := registerEndY + disasmHeight + 1
	if disasmEndY < termHeight {
		t.drawHorizontalRule(borderX, disasmEndY, termWidth, borderStyle)
	}

	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	t.drawText(1, 0, " Game Boy ", titleStyle, termWidth-1)
	t.drawText(borderX+2, 0, " CPU Registers ", titleStyle, termWidth-borderX-2)
	if registerEndY+1 < termHeight {
		t.drawText(borderX+2, registerEndY+1, " Disassembly ", titleStyle, termWidth-borderX-2)
	}
	if disasmEndY+1 < termHeight {
		t.drawText(borderX+2, disasmEndY+1, " Logs ", titleStyle, termWidth-borderX-2)
	}

	if termHeight > 10 {
		helpStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
		helpText := "Debug: SPACE=pause/resume N=step P=pause R=resume F=step-frame O=oam V=vram L=layers F12=snapshot"
		t.drawText(1, termHeight-1, helpText, helpStyle, termWidth-2)
	}
}

func (t *TerminalRenderer) drawHorizontalRule(borderX, y, termWidth int, style tcell.Style) {
	for x := borderX + 1; x < termWidth; x++ {
		t.screen.SetContent(x, y, '─', nil, style)
	}
	t.screen.SetContent(borderX, y, '├', nil, style)
}

func (t *TerminalRenderer) drawGameBoy() {
	frame := t.emulator.GetCurrentFrame().ToSlice()
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			shade, ok := shadeByColor[video.GBColor(frame[y*width+x])]
			if !ok {
				shade = 0
			}
			char := shadeChars[shade]

			screenX := x * scaleX
			screenY := y*scaleY + 1 // offset for the title row
			for sx := 0; sx < scaleX; sx++ {
				if screenX+sx < gameAreaWidth {
					t.screen.SetContent(screenX+sx, screenY, char, nil, style)
				}
			}
		}
	}
}

func (t *TerminalRenderer) drawRegisters(termWidth, termHeight int) {
	reg := t.emulator.GetCPU().Snapshot()
	startX, startY := gameAreaWidth+3, 1
	regStyle := tcell.StyleDefault.Foreground(tcell.ColorGreen)

	debugStatus, debugStyle := debuggerStatusLabel(t.emulator.GetDebuggerState())

	lines := []string{
		fmt.Sprintf("Status: %s", debugStatus),
		fmt.Sprintf("A: 0x%02X  F: 0x%02X [%s]", reg.A, reg.F, t.emulator.GetCPU().FlagString()),
		fmt.Sprintf("B: 0x%02X  C: 0x%02X", reg.B, reg.C),
		fmt.Sprintf("D: 0x%02X  E: 0x%02X", reg.D, reg.E),
		fmt.Sprintf("H: 0x%02X  L: 0x%02X", reg.H, reg.L),
		fmt.Sprintf("SP: 0x%04X  PC: 0x%04X", reg.SP, reg.PC),
		fmt.Sprintf("Frame: %d  Instr: %d", t.emulator.GetFrameCount(), t.emulator.GetInstructionCount()),
	}

	for i, line := range lines {
		if startY+i >= registerHeight+1 || startY+i >= termHeight {
			break
		}
		style := regStyle
		if i == 0 {
			style = debugStyle
		}
		t.drawText(startX, startY+i, line, style, termWidth-startX)
	}
}

func debuggerStatusLabel(state jeebie.DebuggerState) (string, tcell.Style) {
	switch state {
	case jeebie.DebuggerPaused:
		return "PAUSED", tcell.StyleDefault.Foreground(tcell.ColorYellow)
	case jeebie.DebuggerStep:
		return "STEP", tcell.StyleDefault.Foreground(tcell.ColorBlue)
	case jeebie.DebuggerStepFrame:
		return "FRAME", tcell.StyleDefault.Foreground(tcell.ColorRed)
	default:
		return "RUNNING", tcell.StyleDefault.Foreground(tcell.ColorGreen)
	}
}

func (t *TerminalRenderer) drawDisassembly(termWidth, termHeight int) {
	startX, startY := gameAreaWidth+3, registerHeight+3

	mmu := t.emulator.GetMMU()
	currentPC := t.emulator.GetCPU().PC()
	lines := disasm.DisassembleAround(currentPC, 4, 4, mmu)

	disasmStyle := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	currentPCStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlue)

	for i := 0; i < min(len(lines), disasmHeight); i++ {
		if startY+i >= termHeight {
			break
		}
		line := lines[i]
		style := disasmStyle
		if line.Address == currentPC {
			style = currentPCStyle
		}
		text := disasm.FormatDisassemblyLine(line, line.Address == currentPC)
		t.drawText(startX, startY+i, text, style, termWidth-startX-1)
	}
}

func (t *TerminalRenderer) drawLogs(termWidth, termHeight int) {
	startX := gameAreaWidth + 3
	startY := registerHeight + 3 + disasmHeight + 1
	availableHeight := termHeight - startY
	if availableHeight <= 0 {
		return
	}

	logStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed)

	for i, logEntry := range t.logBuffer.GetRecent(availableHeight) {
		if i >= availableHeight {
			break
		}
		style := logStyle
		switch logEntry.Level {
		case slog.LevelWarn:
			style = warnStyle
		case slog.LevelError:
			style = errStyle
		}
		t.drawText(startX, startY+i, FormatLogEntry(logEntry), style, termWidth-startX-1)
	}
}

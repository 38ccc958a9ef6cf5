package jeebie

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/crosscode/jeebie/jeebie/cpu"
	"github.com/crosscode/jeebie/jeebie/memory"
	"github.com/crosscode/jeebie/jeebie/timing"
	"github.com/crosscode/jeebie/jeebie/video"
)

// ErrInvalidROMSize is returned by NewWithFile when a ROM's length isn't a
// multiple of 32KiB, the smallest valid Game Boy cartridge image.
var ErrInvalidROMSize = errors.New("jeebie: ROM size is not a multiple of 32KiB")

const minROMSize = 32 * 1024

// DebuggerState represents the current debugger mode.
type DebuggerState int

const (
	DebuggerRunning   DebuggerState = iota // Normal execution
	DebuggerPaused                         // Paused, waiting for commands
	DebuggerStep                           // Execute one instruction then pause
	DebuggerStepFrame                      // Execute one frame then pause
)

// Emulator is the root struct and entry point for running the emulation.
// It owns the CPU, bus, and PPU, and never advances them except through
// RunUntilFrame/Tick -- that's the single-advancing-agent invariant the
// debugger layer below is built to preserve.
type Emulator struct {
	cpu    *cpu.CPU
	gpu    *video.GPU
	mem    *memory.MMU
	loaded bool

	pacer timing.Pacer

	// Debugger state
	debuggerState    DebuggerState
	debuggerMutex    sync.RWMutex
	stepRequested    bool
	frameRequested   bool
	instructionCount uint64
	frameCount       uint64
}

func (e *Emulator) init(mem *memory.MMU) {
	e.cpu = cpu.New(mem)
	e.gpu = video.NewGpu(mem)
	e.mem = mem
	e.pacer = timing.NewHeadlessPacer()
	mem.SetPPU(e.gpu)

	// Seeds the divider as if the boot ROM had already run and handed
	// off to the cartridge, since no boot ROM image is loaded by default.
	mem.SetTimerSeed(0xABCC)
}

// New creates a new emulator instance with no cartridge loaded.
func New() *Emulator {
	e := &Emulator{}
	e.init(memory.NewWithCartridge(memory.NewCartridge()))

	return e
}

// NewWithFile creates a new emulator instance and loads the ROM at path.
func NewWithFile(path string) (*Emulator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if len(data) == 0 || len(data)%minROMSize != 0 {
		return nil, fmt.Errorf("jeebie: reading %s: %w", path, ErrInvalidROMSize)
	}

	slog.Debug("Loaded ROM data", "path", path, "size", len(data))

	e := &Emulator{}
	e.init(memory.NewWithCartridge(memory.NewCartridgeWithData(data)))
	e.loaded = true

	return e, nil
}

// IsLoaded reports whether a cartridge ROM was loaded via NewWithFile.
func (e *Emulator) IsLoaded() bool {
	return e.loaded
}

// Title returns the cartridge's header title, or the empty string when
// no ROM is loaded.
func (e *Emulator) Title() string {
	return e.mem.Cartridge().Title()
}

// SetSpeed switches between unthrottled (fast, for headless/test use) and
// real-time (60fps-paced) execution.
func (e *Emulator) SetSpeed(fast bool) {
	if fast {
		e.pacer = timing.NewHeadlessPacer()
		return
	}
	e.pacer = timing.NewAdaptivePacer()
}

// Tick executes a single CPU instruction (or one HALT/interrupt-service
// cycle) and returns the number of T-cycles it took. The bus, timer, DMA,
// PPU and serial port are all advanced as a side effect of CPU bus access,
// through the single Tick chokepoint on the MMU.
func (e *Emulator) Tick() int {
	cycles := e.cpu.Step()
	e.instructionCount++
	return cycles
}

// RunUntilFrame ticks the core until one full frame (70224 T-cycles) has
// elapsed, honoring the debugger state: paused emulators don't advance at
// all, step mode executes exactly one instruction, step-frame executes
// exactly one frame, and running mode paces itself against the limiter.
func (e *Emulator) RunUntilFrame() {
	e.debuggerMutex.RLock()
	state := e.debuggerState
	e.debuggerMutex.RUnlock()

	switch state {
	case DebuggerPaused:
		return
	case DebuggerStep:
		e.debuggerMutex.Lock()
		requested := e.stepRequested
		e.stepRequested = false
		e.debuggerMutex.Unlock()

		if !requested {
			return
		}

		oldPC := e.cpu.PC()
		e.Tick()
		slog.Debug("Step executed", "pc", fmt.Sprintf("0x%04X", oldPC), "new_pc", fmt.Sprintf("0x%04X", e.cpu.PC()))
		e.SetDebuggerState(DebuggerPaused)
		return
	case DebuggerStepFrame:
		e.debuggerMutex.Lock()
		requested := e.frameRequested
		e.frameRequested = false
		e.debuggerMutex.Unlock()

		if !requested {
			return
		}

		e.runFrame()
		e.SetDebuggerState(DebuggerPaused)
		return
	default:
		e.pacer.Wait()
		e.runFrame()
	}
}

func (e *Emulator) runFrame() {
	total := 0
	for total < timing.CyclesPerFrame {
		total += e.Tick()
	}
	e.frameCount++
	if e.frameCount%60 == 0 {
		slog.Debug("Frame completed", "frame", e.frameCount, "pc", fmt.Sprintf("0x%04X", e.cpu.PC()))
	}
}

// GetCurrentFrame returns the most recently completed framebuffer.
func (e *Emulator) GetCurrentFrame() *video.FrameBuffer {
	return e.gpu.GetFrameBuffer()
}

func (e *Emulator) HandleKeyPress(key memory.JoypadKey) {
	e.mem.HandleKeyPress(key)
}

func (e *Emulator) HandleKeyRelease(key memory.JoypadKey) {
	e.mem.HandleKeyRelease(key)
}

func (e *Emulator) GetCPU() *cpu.CPU {
	return e.cpu
}

// GetMMU exposes the bus directly, primarily so test harnesses can poll
// the serial port registers (SB/SC) without the facade needing a
// dedicated serial-capture API of its own.
func (e *Emulator) GetMMU() *memory.MMU {
	return e.mem
}

// Debugger control methods.

func (e *Emulator) SetDebuggerState(state DebuggerState) {
	e.debuggerMutex.Lock()
	defer e.debuggerMutex.Unlock()
	e.debuggerState = state
	slog.Debug("Debugger state changed", "state", state)
}

func (e *Emulator) GetDebuggerState() DebuggerState {
	e.debuggerMutex.RLock()
	defer e.debuggerMutex.RUnlock()
	return e.debuggerState
}

func (e *Emulator) DebuggerPause() {
	e.SetDebuggerState(DebuggerPaused)
	slog.Info("Emulator paused")
}

func (e *Emulator) DebuggerResume() {
	e.SetDebuggerState(DebuggerRunning)
	slog.Info("Emulator resumed")
}

func (e *Emulator) DebuggerStepInstruction() {
	e.debuggerMutex.Lock()
	defer e.debuggerMutex.Unlock()
	e.stepRequested = true
	e.debuggerState = DebuggerStep
	slog.Info("Step instruction requested")
}

func (e *Emulator) DebuggerStepFrame() {
	e.debuggerMutex.Lock()
	defer e.debuggerMutex.Unlock()
	e.frameRequested = true
	e.debuggerState = DebuggerStepFrame
	slog.Info("Step frame requested")
}

func (e *Emulator) GetInstructionCount() uint64 {
	return e.instructionCount
}

func (e *Emulator) GetFrameCount() uint64 {
	return e.frameCount
}

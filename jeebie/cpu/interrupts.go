package cpu

import "github.com/crosscode/jeebie/jeebie/addr"

// vector maps an interrupt bit to its fixed dispatch address, in
// priority order: V-Blank, STAT, Timer, Serial, Joypad.
var vector = [5]uint16{0x40, 0x48, 0x50, 0x58, 0x60}

// pendingInterrupts returns the bits set in both IF and IE, i.e. the
// interrupts that are both requested and enabled.
func (c *CPU) pendingInterrupts() uint8 {
	return c.bus.Read(uint16(addr.IF)) & c.bus.Read(uint16(addr.IE)) & 0x1F
}

// Step executes the next instruction (or one cycle of HALT/interrupt
// handling) and returns the number of T-cycles it took.
func (c *CPU) Step() int {
	c.cyclesThisStep = 0

	c.serviceInterrupts()

	if c.halted {
		c.tick(4)
		return c.cyclesThisStep
	}

	if c.imeDelay > 0 {
		c.imeDelay--
		if c.imeDelay == 0 {
			c.ime = true
		}
	}

	opcode := c.fetch8()
	if opcode == 0xCB {
		cb := c.fetch8()
		opcodeCBTable[cb](c)
	} else {
		opcodeTable[opcode](c)
	}

	return c.cyclesThisStep
}

// serviceInterrupts wakes the CPU from HALT on any pending interrupt and,
// if IME is set, pushes PC and jumps to the highest-priority vector.
// The HALT bug: if IME is clear but an interrupt is pending at the
// moment HALT executes, the CPU never actually halts, and the byte at
// PC is fetched twice (the PC is not incremented the first time).
func (c *CPU) serviceInterrupts() {
	pending := c.pendingInterrupts()

	if c.halted && pending != 0 {
		c.halted = false
	}

	if !c.ime || pending == 0 {
		return
	}

	for bit := 0; bit < 5; bit++ {
		mask := uint8(1) << bit
		if pending&mask == 0 {
			continue
		}

		c.ime = false
		iflag := c.bus.Read(uint16(addr.IF))
		c.bus.Write(uint16(addr.IF), iflag&^mask)
		c.tick(8)
		c.push16(c.pc.get())
		c.pc.set(vector[bit])
		c.tick(4)
		return
	}
}

func opHalt(c *CPU) {
	pending := c.pendingInterrupts()
	if !c.ime && pending != 0 {
		c.haltBug = true
		return
	}
	c.halted = true
}

// opStop treats STOP as a single-byte no-op: the hardware's low-power
// stop state and the DIV-reset/speed-switch side effects aren't modeled
// since CGB double-speed mode is out of scope.
func opStop(c *CPU) {
	c.stopped = true
}

func opDI(c *CPU) {
	c.ime = false
	c.imeDelay = 0
}

func opEI(c *CPU) {
	c.imeDelay = 2
}

package cpu

// patchIrregularOpcodes fills in the x==0 and x==3 blocks of opcodeTable,
// which don't reduce to one uniform shape the way LD r,r' and ALU A,r
// do: immediate loads, the (BC)/(DE)/(HLI)/(HLD) forms, control flow,
// the stack, and the single-register rotate/flag opcodes.
func patchIrregularOpcodes() {
	// x==0 z==0
	opcodeTable[0x00] = func(c *CPU) {}
	opcodeTable[0x08] = opLoadAddrSP
	opcodeTable[0x10] = opStop
	opcodeTable[0x18] = opJR
	for i, cc := range []uint8{0, 1, 2, 3} {
		opcodeTable[0x20+uint8(i)*8] = makeJRcc(cc)
	}

	// x==0 z==1: LD rp[p],nn / ADD HL,rp[p]
	for p := uint8(0); p < 4; p++ {
		rp := p
		opcodeTable[p<<4|0x01] = func(c *CPU) { c.setRP(rp, c.fetch16()) }
		opcodeTable[p<<4|0x09] = func(c *CPU) { c.addHL(c.getRP(rp)) }
	}

	// x==0 z==2: indirect LD through BC/DE/HLI/HLD
	opcodeTable[0x02] = func(c *CPU) { c.write8(c.bc.get(), c.af.getHigh()) }
	opcodeTable[0x12] = func(c *CPU) { c.write8(c.de.get(), c.af.getHigh()) }
	opcodeTable[0x22] = func(c *CPU) { c.write8(c.hl.get(), c.af.getHigh()); c.hl.incr() }
	opcodeTable[0x32] = func(c *CPU) { c.write8(c.hl.get(), c.af.getHigh()); c.hl.decr() }
	opcodeTable[0x0A] = func(c *CPU) { c.af.setHigh(c.read8(c.bc.get())) }
	opcodeTable[0x1A] = func(c *CPU) { c.af.setHigh(c.read8(c.de.get())) }
	opcodeTable[0x2A] = func(c *CPU) { c.af.setHigh(c.read8(c.hl.get())); c.hl.incr() }
	opcodeTable[0x3A] = func(c *CPU) { c.af.setHigh(c.read8(c.hl.get())); c.hl.decr() }

	// x==0 z==3: INC/DEC rp[p]
	for p := uint8(0); p < 4; p++ {
		rp := p
		opcodeTable[p<<4|0x03] = func(c *CPU) { c.setRP(rp, c.getRP(rp)+1); c.internalDelay(4) }
		opcodeTable[p<<4|0x0B] = func(c *CPU) { c.setRP(rp, c.getRP(rp)-1); c.internalDelay(4) }
	}

	// x==0 z==4/5/6: INC/DEC r[y], LD r[y],n
	for y := uint8(0); y < 8; y++ {
		r := y
		opcodeTable[y<<3|0x04] = func(c *CPU) { c.setR8(r, c.inc8(c.getR8(r))) }
		opcodeTable[y<<3|0x05] = func(c *CPU) { c.setR8(r, c.dec8(c.getR8(r))) }
		opcodeTable[y<<3|0x06] = func(c *CPU) { c.setR8(r, c.fetch8()) }
	}

	// x==0 z==7: single-register rotates and flag ops
	opcodeTable[0x07] = func(c *CPU) { c.af.setHigh(c.rlc(c.af.getHigh())); c.setFlag(zeroFlag, false) }
	opcodeTable[0x0F] = func(c *CPU) { c.af.setHigh(c.rrc(c.af.getHigh())); c.setFlag(zeroFlag, false) }
	opcodeTable[0x17] = func(c *CPU) { c.af.setHigh(c.rl(c.af.getHigh())); c.setFlag(zeroFlag, false) }
	opcodeTable[0x1F] = func(c *CPU) { c.af.setHigh(c.rr(c.af.getHigh())); c.setFlag(zeroFlag, false) }
	opcodeTable[0x27] = func(c *CPU) { c.daa() }
	opcodeTable[0x2F] = opCPL
	opcodeTable[0x37] = opSCF
	opcodeTable[0x3F] = opCCF

	// x==3 z==0
	for i, cc := range []uint8{0, 1, 2, 3} {
		opcodeTable[0xC0+uint8(i)*8] = makeRETcc(cc)
	}
	opcodeTable[0xE0] = func(c *CPU) { c.write8(0xFF00|uint16(c.fetch8()), c.af.getHigh()) }
	opcodeTable[0xE8] = func(c *CPU) {
		result := c.addSPSigned()
		c.internalDelay(8)
		c.sp.set(result)
	}
	opcodeTable[0xF0] = func(c *CPU) { c.af.setHigh(c.read8(0xFF00 | uint16(c.fetch8()))) }
	opcodeTable[0xF8] = func(c *CPU) {
		result := c.addSPSigned()
		c.internalDelay(4)
		c.hl.set(result)
	}

	// x==3 z==1
	for p := uint8(0); p < 4; p++ {
		rp2 := p
		opcodeTable[0xC0|rp2<<4|0x01] = func(c *CPU) { c.setRP2(rp2, c.pop16()) }
	}
	opcodeTable[0xC9] = opRET
	opcodeTable[0xD9] = opRETI
	opcodeTable[0xE9] = func(c *CPU) { c.pc.set(c.hl.get()) }
	opcodeTable[0xF9] = func(c *CPU) { c.sp.set(c.hl.get()); c.internalDelay(4) }

	// x==3 z==2
	for i, cc := range []uint8{0, 1, 2, 3} {
		opcodeTable[0xC2+uint8(i)*8] = makeJPcc(cc)
	}
	opcodeTable[0xE2] = func(c *CPU) { c.write8(0xFF00|uint16(c.bc.getLow()), c.af.getHigh()) }
	opcodeTable[0xEA] = func(c *CPU) { c.write8(c.fetch16(), c.af.getHigh()) }
	opcodeTable[0xF2] = func(c *CPU) { c.af.setHigh(c.read8(0xFF00 | uint16(c.bc.getLow()))) }
	opcodeTable[0xFA] = func(c *CPU) { c.af.setHigh(c.read8(c.fetch16())) }

	// x==3 z==3
	opcodeTable[0xC3] = opJP
	opcodeTable[0xF3] = opDI
	opcodeTable[0xFB] = opEI
	opcodeTable[0xD3] = opIllegal
	opcodeTable[0xDB] = opIllegal
	opcodeTable[0xE3] = opIllegal
	opcodeTable[0xEB] = opIllegal

	// x==3 z==4: CALL cc[y],nn for y==0..3; y==4..7 (0xE4/0xEC/0xF4/0xFC) undefined
	for i, cc := range []uint8{0, 1, 2, 3} {
		opcodeTable[0xC4+uint8(i)*8] = makeCALLcc(cc)
	}
	opcodeTable[0xE4] = opIllegal
	opcodeTable[0xEC] = opIllegal
	opcodeTable[0xF4] = opIllegal
	opcodeTable[0xFC] = opIllegal

	// x==3 z==5
	for p := uint8(0); p < 4; p++ {
		rp2 := p
		opcodeTable[0xC0|rp2<<4|0x05] = func(c *CPU) { c.internalDelay(4); c.push16(c.getRP2(rp2)) }
	}
	opcodeTable[0xCD] = opCALL
	opcodeTable[0xDD] = opIllegal
	opcodeTable[0xED] = opIllegal
	opcodeTable[0xFD] = opIllegal

	// x==3 z==6: ALU[y] A,n
	for y := uint8(0); y < 8; y++ {
		op := aluOps[y]
		opcodeTable[0xC0|y<<3|0x06] = func(c *CPU) { op(c, c.fetch8()) }
	}

	// x==3 z==7: RST y*8
	for y := uint8(0); y < 8; y++ {
		target := uint16(y) * 8
		opcodeTable[0xC0|y<<3|0x07] = func(c *CPU) {
			c.internalDelay(4)
			c.push16(c.pc.get())
			c.pc.set(target)
		}
	}
}

func opLoadAddrSP(c *CPU) {
	address := c.fetch16()
	sp := c.sp.get()
	c.write8(address, uint8(sp))
	c.write8(address+1, uint8(sp>>8))
}

func opJR(c *CPU) {
	offset := int8(c.fetch8())
	c.internalDelay(4)
	c.pc.set(uint16(int32(c.pc.get()) + int32(offset)))
}

func makeJRcc(cc uint8) func(*CPU) {
	return func(c *CPU) {
		offset := int8(c.fetch8())
		if c.checkCC(cc) {
			c.internalDelay(4)
			c.pc.set(uint16(int32(c.pc.get()) + int32(offset)))
		}
	}
}

func opJP(c *CPU) {
	target := c.fetch16()
	c.internalDelay(4)
	c.pc.set(target)
}

func makeJPcc(cc uint8) func(*CPU) {
	return func(c *CPU) {
		target := c.fetch16()
		if c.checkCC(cc) {
			c.internalDelay(4)
			c.pc.set(target)
		}
	}
}

func opCALL(c *CPU) {
	target := c.fetch16()
	c.internalDelay(4)
	c.push16(c.pc.get())
	c.pc.set(target)
}

func makeCALLcc(cc uint8) func(*CPU) {
	return func(c *CPU) {
		target := c.fetch16()
		if c.checkCC(cc) {
			c.internalDelay(4)
			c.push16(c.pc.get())
			c.pc.set(target)
		}
	}
}

func opRET(c *CPU) {
	c.pc.set(c.pop16())
	c.internalDelay(4)
}

func opRETI(c *CPU) {
	c.pc.set(c.pop16())
	c.internalDelay(4)
	c.ime = true
	c.imeDelay = 0
}

func makeRETcc(cc uint8) func(*CPU) {
	return func(c *CPU) {
		c.internalDelay(4)
		if c.checkCC(cc) {
			c.pc.set(c.pop16())
			c.internalDelay(4)
		}
	}
}

func opCPL(c *CPU) {
	c.af.setHigh(c.af.getHigh() ^ 0xFF)
	c.setFlag(subFlag, true)
	c.setFlag(halfCarryFlag, true)
}

func opSCF(c *CPU) {
	c.setFlag(subFlag, false)
	c.setFlag(halfCarryFlag, false)
	c.setFlag(carryFlag, true)
}

func opCCF(c *CPU) {
	c.setFlag(subFlag, false)
	c.setFlag(halfCarryFlag, false)
	c.setFlag(carryFlag, !c.isSetFlag(carryFlag))
}

func opIllegal(c *CPU) {
	// Undefined opcodes lock the real CPU up; we treat them as a no-op
	// so a ROM that trips one doesn't take the whole emulator down.
}

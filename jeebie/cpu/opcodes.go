package cpu

// opcodeTable and opcodeCBTable are built once in init() from the small
// index spaces the Sharp encoding groups opcodes into (register index,
// register-pair index, condition index, ALU op index) instead of 256
// hand-written near-duplicate functions. The regular LD/ALU/CB blocks
// are generated here; the irregular blocks (immediate loads, jumps,
// calls, stack ops, RST) are patched in from opcodes_irregular.go.
var opcodeTable [256]func(*CPU)
var opcodeCBTable [256]func(*CPU)

// aluOps indexed by y in ALU[y] A,r / ALU[y] A,n: ADD ADC SUB SBC AND XOR OR CP.
var aluOps = [8]func(*CPU, uint8){
	func(c *CPU, v uint8) { c.addA(v, false) },
	func(c *CPU, v uint8) { c.addA(v, true) },
	func(c *CPU, v uint8) { c.sub(v, false) },
	func(c *CPU, v uint8) { c.sub(v, true) },
	func(c *CPU, v uint8) { c.and(v) },
	func(c *CPU, v uint8) { c.xor(v) },
	func(c *CPU, v uint8) { c.or(v) },
	func(c *CPU, v uint8) { c.cp(v) },
}

// rotOps indexed by y in the CB x==0 block: RLC RRC RL RR SLA SRA SWAP SRL.
var rotOps = [8]func(*CPU, uint8) uint8{
	(*CPU).rlc,
	(*CPU).rrc,
	(*CPU).rl,
	(*CPU).rr,
	(*CPU).sla,
	(*CPU).sra,
	(*CPU).swap,
	(*CPU).srl,
}

func init() {
	for opcode := 0; opcode < 256; opcode++ {
		opcodeTable[opcode] = opUnimplemented
		opcodeCBTable[opcode] = buildCB(uint8(opcode))
	}

	for x := 1; x < 3; x++ {
		for y := 0; y < 8; y++ {
			for z := 0; z < 8; z++ {
				opcode := uint8(x<<6 | y<<3 | z)
				opcodeTable[opcode] = buildMain(x, y, z)
			}
		}
	}

	patchIrregularOpcodes()
}

// buildMain generates the two fully regular blocks of the table: x==1
// (LD r,r', with HALT carved out of the one slot it would otherwise
// occupy) and x==2 (ALU A,r).
func buildMain(x, y, z int) func(*CPU) {
	switch x {
	case 1:
		if z == 6 && y == 6 {
			return opHalt
		}
		dst, src := uint8(y), uint8(z)
		return func(c *CPU) { c.setR8(dst, c.getR8(src)) }
	default:
		op := aluOps[y]
		src := uint8(z)
		return func(c *CPU) { op(c, c.getR8(src)) }
	}
}

func buildCB(opcode uint8) func(*CPU) {
	x := opcode >> 6
	y := (opcode >> 3) & 0x7
	z := opcode & 0x7

	switch x {
	case 0:
		op := rotOps[y]
		return func(c *CPU) { c.setR8(z, op(c, c.getR8(z))) }
	case 1:
		return func(c *CPU) { c.bit(y, c.getR8(z)) }
	case 2:
		return func(c *CPU) { c.setR8(z, c.getR8(z)&^(1<<y)) }
	default:
		return func(c *CPU) { c.setR8(z, c.getR8(z)|(1<<y)) }
	}
}

func opUnimplemented(c *CPU) {
	// Real hardware locks up on undefined opcodes; failing loudly here
	// surfaces a bad decode immediately instead of corrupting state.
	panic("cpu: unimplemented opcode")
}

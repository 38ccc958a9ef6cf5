// Package disasm provides a best-effort instruction-length decoder for the
// debug views. It does not aim to produce full mnemonic disassembly: it
// reports each instruction's address, raw opcode bytes, and length, which
// is enough for the TUI/debugger to walk the instruction stream and
// highlight the current PC.
package disasm

import (
	"fmt"

	"github.com/crosscode/jeebie/jeebie/memory"
)

// DisassemblyLine represents a single decoded instruction.
type DisassemblyLine struct {
	Address     uint16
	Instruction string
	Length      int
}

// cbLength is always 2: the 0xCB prefix byte plus the sub-opcode.
const cbLength = 2

// operandLength maps each unprefixed opcode to its total instruction
// length in bytes (1, 2, or 3), based on the Sharp LR35902's fixed
// encoding: the d8/r8/a8 immediate opcodes are 2 bytes, the d16/a16
// immediate opcodes are 3 bytes, and the 0xCB prefix entry is cbLength.
var operandLength = [256]int{
	0x00: 1, 0x01: 3, 0x02: 1, 0x03: 1, 0x04: 1, 0x05: 1, 0x06: 2, 0x07: 1,
	0x08: 3, 0x09: 1, 0x0A: 1, 0x0B: 1, 0x0C: 1, 0x0D: 1, 0x0E: 2, 0x0F: 1,
	0x10: 2, 0x11: 3, 0x12: 1, 0x13: 1, 0x14: 1, 0x15: 1, 0x16: 2, 0x17: 1,
	0x18: 2, 0x19: 1, 0x1A: 1, 0x1B: 1, 0x1C: 1, 0x1D: 1, 0x1E: 2, 0x1F: 1,
	0x20: 2, 0x21: 3, 0x22: 1, 0x23: 1, 0x24: 1, 0x25: 1, 0x26: 2, 0x27: 1,
	0x28: 2, 0x29: 1, 0x2A: 1, 0x2B: 1, 0x2C: 1, 0x2D: 1, 0x2E: 2, 0x2F: 1,
	0x30: 2, 0x31: 3, 0x32: 1, 0x33: 1, 0x34: 1, 0x35: 1, 0x36: 2, 0x37: 1,
	0x38: 2, 0x39: 1, 0x3A: 1, 0x3B: 1, 0x3C: 1, 0x3D: 1, 0x3E: 2, 0x3F: 1,
	0xC0: 1, 0xC1: 1, 0xC2: 3, 0xC3: 3, 0xC4: 3, 0xC5: 1, 0xC6: 2, 0xC7: 1,
	0xC8: 1, 0xC9: 1, 0xCA: 3, 0xCB: 2, 0xCC: 3, 0xCD: 3, 0xCE: 2, 0xCF: 1,
	0xD0: 1, 0xD1: 1, 0xD2: 3, 0xD4: 3, 0xD5: 1, 0xD6: 2, 0xD7: 1,
	0xD8: 1, 0xD9: 1, 0xDA: 3, 0xDC: 3, 0xDE: 2, 0xDF: 1,
	0xE0: 2, 0xE1: 1, 0xE2: 1, 0xE5: 1, 0xE6: 2, 0xE7: 1,
	0xE8: 2, 0xE9: 1, 0xEA: 3, 0xEE: 2, 0xEF: 1,
	0xF0: 2, 0xF1: 1, 0xF2: 1, 0xF3: 1, 0xF5: 1, 0xF6: 2, 0xF7: 1,
	0xF8: 2, 0xF9: 1, 0xFA: 3, 0xFB: 1, 0xFE: 2, 0xFF: 1,
}

func lengthOf(opcode byte) int {
	if l := operandLength[opcode]; l != 0 {
		return l
	}
	// 8-bit register loads, ALU ops on registers, and everything else
	// not listed above are all single-byte.
	return 1
}

// DisassembleAt decodes the instruction at pc into its address, raw bytes,
// and length, without crossing the 0xFFFF boundary.
func DisassembleAt(pc uint16, mmu *memory.MMU) DisassemblyLine {
	opcode := mmu.Read(pc)

	if opcode == 0xCB {
		if pc == 0xFFFF {
			return DisassemblyLine{Address: pc, Instruction: "CB ??", Length: cbLength}
		}
		cb := mmu.Read(pc + 1)
		return DisassemblyLine{
			Address:     pc,
			Instruction: fmt.Sprintf("CB %02X", cb),
			Length:      cbLength,
		}
	}

	length := lengthOf(opcode)
	switch length {
	case 2:
		if pc == 0xFFFF {
			return DisassemblyLine{Address: pc, Instruction: fmt.Sprintf("%02X ??", opcode), Length: 1}
		}
		n := mmu.Read(pc + 1)
		return DisassemblyLine{Address: pc, Instruction: fmt.Sprintf("%02X %02X", opcode, n), Length: 2}
	case 3:
		if pc >= 0xFFFE {
			return DisassemblyLine{Address: pc, Instruction: fmt.Sprintf("%02X ??", opcode), Length: 1}
		}
		lo := mmu.Read(pc + 1)
		hi := mmu.Read(pc + 2)
		return DisassemblyLine{Address: pc, Instruction: fmt.Sprintf("%02X %02X %02X", opcode, lo, hi), Length: 3}
	default:
		return DisassemblyLine{Address: pc, Instruction: fmt.Sprintf("%02X", opcode), Length: 1}
	}
}

// DisassembleBytes decodes the instruction at offset within data, without
// needing a live bus -- used by debug views working off a memory snapshot.
func DisassembleBytes(data []byte, offset int) (instruction string, length int) {
	if offset < 0 || offset >= len(data) {
		return "??", 1
	}

	opcode := data[offset]

	readAt := func(i int) (byte, bool) {
		if i < 0 || i >= len(data) {
			return 0, false
		}
		return data[i], true
	}

	if opcode == 0xCB {
		if cb, ok := readAt(offset + 1); ok {
			return fmt.Sprintf("CB %02X", cb), cbLength
		}
		return "CB ??", cbLength
	}

	switch lengthOf(opcode) {
	case 2:
		if n, ok := readAt(offset + 1); ok {
			return fmt.Sprintf("%02X %02X", opcode, n), 2
		}
		return fmt.Sprintf("%02X ??", opcode), 1
	case 3:
		lo, okLo := readAt(offset + 1)
		hi, okHi := readAt(offset + 2)
		if okLo && okHi {
			return fmt.Sprintf("%02X %02X %02X", opcode, lo, hi), 3
		}
		return fmt.Sprintf("%02X ??", opcode), 1
	default:
		return fmt.Sprintf("%02X", opcode), 1
	}
}

// DisassembleRange disassembles multiple instructions starting from the
// given PC.
func DisassembleRange(startPC uint16, count int, mmu *memory.MMU) []DisassemblyLine {
	lines := make([]DisassemblyLine, 0, count)
	pc := startPC

	for i := 0; i < count && pc <= 0xFFFF; i++ {
		line := DisassembleAt(pc, mmu)
		lines = append(lines, line)
		pc += uint16(line.Length)
	}

	return lines
}

// DisassembleAround disassembles instructions before, at, and after the
// given PC. Since instruction length is variable, the starting point is
// found by scanning forward from several candidate offsets until one
// lands exactly on currentPC.
func DisassembleAround(currentPC uint16, beforeCount, afterCount int, mmu *memory.MMU) []DisassemblyLine {
	startPC := currentPC
	instructionsFound := 0

	for offset := beforeCount * 3; offset >= 0 && currentPC > uint16(offset); offset-- {
		testPC := currentPC - uint16(offset)

		pc := testPC
		count := 0
		for count < beforeCount*2 && pc <= currentPC {
			if pc == currentPC && count >= beforeCount {
				startPC = testPC
				instructionsFound = count
				break
			}
			line := DisassembleAt(pc, mmu)
			pc += uint16(line.Length)
			count++
		}

		if startPC != currentPC {
			break
		}
	}

	if startPC == currentPC {
		instructionsFound = 0
	}

	totalCount := instructionsFound + 1 + afterCount
	return DisassembleRange(startPC, totalCount, mmu)
}

// FormatDisassemblyLine formats a disassembly line for display.
func FormatDisassemblyLine(line DisassemblyLine, isCurrentPC bool) string {
	prefix := " "
	if isCurrentPC {
		prefix = "->"
	}

	return fmt.Sprintf("%s0x%04X: %s", prefix, line.Address, line.Instruction)
}

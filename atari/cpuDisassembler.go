package atari

import (
	"bytes"
	"fmt"
	"sort"
)

// Disassemble the loaded 6502 program into human-readable CPU instructions
// mapped to their respective memory address.
//
// Much help from https://github.com/OneLoneCoder/olcNES
func (cpu *Cpu6502) Disassemble(startAddr, endAddr uint16) map[uint16]string {
	// Current CPU instruction, disassembled
	var lineDiss bytes.Buffer
	var value, lo, hi byte

	// this needs to be bigger than uint16, to determine when larger than endAddr
	var addr uint32 = uint32(startAddr)

	disassembly := make(map[uint16]string)

	for addr <= uint32(endAddr) {
		// Instruction memory address
		lineAddr := uint16(addr)
		lineDiss.WriteString(fmt.Sprintf("$%04X: ", lineAddr))

		// Readable instruction name
		opcode := cpu.read(uint16(addr))
		addr++
		inst := cpu.InstLookup[opcode]
		lineDiss.WriteString(fmt.Sprintf("%s ", inst.Name))

		switch inst.Mode {
		case IMP:
			lineDiss.WriteString(fmt.Sprintf("{%s}", inst.Mode))
		case IMM:
			value = cpu.read(uint16(addr))
			addr++
			lineDiss.WriteString(fmt.Sprintf("#$%02X {%s}", value, inst.Mode))
		case REL:
			value = cpu.read(uint16(addr))
			addr++
			target := uint16(addr) + uint16(value)
			if value&(1<<7) > 0 {
				target = uint16(addr) + (uint16(value) | 0xFF00)
			}
			lineDiss.WriteString(fmt.Sprintf("$%02X [%04X] {%s}", value, target, inst.Mode))
		case ZP0:
			lo = cpu.read(uint16(addr))
			addr++
			lineDiss.WriteString(fmt.Sprintf("$%02X {%s}", lo, inst.Mode))
		case ZPX:
			lo = cpu.read(uint16(addr))
			addr++
			lineDiss.WriteString(fmt.Sprintf("$%02X, X {%s}", lo, inst.Mode))
		case ZPY:
			lo = cpu.read(uint16(addr))
			addr++
			lineDiss.WriteString(fmt.Sprintf("$%02X, Y {%s}", lo, inst.Mode))
		case ABS:
			lo = cpu.read(uint16(addr))
			addr++
			hi = cpu.read(uint16(addr))
			addr++
			lineDiss.WriteString(fmt.Sprintf("$%04X {%s}", uint16(hi)<<8|uint16(lo), inst.Mode))
		case ABX:
			lo = cpu.read(uint16(addr))
			addr++
			hi = cpu.read(uint16(addr))
			addr++
			lineDiss.WriteString(fmt.Sprintf("$%04X, X {%s}", uint16(hi)<<8|uint16(lo), inst.Mode))
		case ABY:
			lo = cpu.read(uint16(addr))
			addr++
			hi = cpu.read(uint16(addr))
			addr++
			lineDiss.WriteString(fmt.Sprintf("$%04X, Y {%s}", uint16(hi)<<8|uint16(lo), inst.Mode))
		case IND:
			lo = cpu.read(uint16(addr))
			addr++
			hi = cpu.read(uint16(addr))
			addr++
			lineDiss.WriteString(fmt.Sprintf("($%04X) {%s}", uint16(hi)<<8|uint16(lo), inst.Mode))
		case IZX:
			lo = cpu.read(uint16(addr))
			addr++
			lineDiss.WriteString(fmt.Sprintf("($%02X, X) {%s}", lo, inst.Mode))
		case IZY:
			lo = cpu.read(uint16(addr))
			addr++
			lineDiss.WriteString(fmt.Sprintf("($%02X), Y {%s}", lo, inst.Mode))
		}

		// Add to map
		disassembly[lineAddr] = lineDiss.String()
		lineDiss.Reset()
	}

	return disassembly
}

// DisassembleWindow formats a few instructions around the given address,
// marking it. Used by trap reports and ROM-write panics.
func (cpu *Cpu6502) DisassembleWindow(pc uint16, before, after int) string {
	start := pc
	for i := 0; i < before; i++ {
		// Walking backwards through variable-length instructions is
		// ambiguous; step back conservatively three bytes at a time and
		// resync on whatever decodes.
		if start < 3 {
			break
		}
		start -= 3
	}

	diss := cpu.Disassemble(start, pc+uint16(after*3))

	addrs := make([]int, 0, len(diss))
	for a := range diss {
		addrs = append(addrs, int(a))
	}
	sort.Ints(addrs)

	var buf bytes.Buffer
	for _, a := range addrs {
		marker := "   "
		if uint16(a) == pc {
			marker = ">>>"
		}
		buf.WriteString(fmt.Sprintf("%s %s\n", marker, diss[uint16(a)]))
	}

	return buf.String()
}

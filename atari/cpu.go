package atari

import (
	"bytes"
	"fmt"
	"log"
)

// Bus is the CPU's window onto the 16-bit address space. The machine
// implements it by routing to RAM, ROM, or a device register bank; the
// functional test harness implements it with a bare 64KB RAM plane.
type Bus interface {
	Read(addr uint16) byte
	Write(addr uint16, data byte)
}

type Cpu6502 struct {
	Pc     uint16 // Program Counter
	Sp     byte   // Stack Pointer: low 8 bits of next free location on stack.
	A      byte   // Accumulator Register
	X      byte   // X Register
	Y      byte   // Y Register
	Status byte   // Processor Status Flags

	bus Bus // Communication Bus

	// Internal variables
	Cycles        byte   // Remaining cycles for current instruction
	Opcode        byte   // Opcode representing next instruction to be executed
	AddrAbs       uint16 // Set by addressing mode functions, used by instructions
	AddrRel       uint16 // Relative displacement address used for branching
	Fetched       byte   // Byte of memory used by CPU instructions
	CycleCount    uint64 // Total # of cycles executed by the CPU
	isImpliedAddr bool   // Whether the current instruction's address mode is implied

	// Interrupt lines, sampled at instruction boundaries.
	nmiPending  bool
	irqAsserted bool

	InstLookup [16 * 16]Instruction // Instruction operation lookup

	OpDiss string // Disassembly for the current instruction, used for debug

	Logger *log.Logger // Per-instruction trace, nil when disabled

	warnedOpcodes map[byte]bool // unstable opcodes already logged
}

const (
	stackBase uint16 = 0x0100
)

// Interrupt vectors
const (
	nmiVectAddr   uint16 = 0xFFFA
	resetVectAddr uint16 = 0xFFFC
	irqVectAddr   uint16 = 0xFFFE
)

func NewCpu6502() *Cpu6502 {
	cpu := &Cpu6502{
		Sp:            0xFD,
		warnedOpcodes: make(map[byte]bool),
	}

	// Create the lookup table containing all the CPU instructions, the
	// documented-illegal ones included.
	// Reference: http://archive.6502.org/datasheets/rockwell_r650x_r651x.pdf
	// https://www.nesdev.org/wiki/CPU_unofficial_opcodes
	cpu.InstLookup = [16 * 16]Instruction{
		{"BRK", cpu.opBRK, cpu.amIMP, IMP, 7}, {"ORA", cpu.opORA, cpu.amIZX, IZX, 6}, {"HLT", cpu.opHLT, cpu.amIMP, IMP, 2}, {"SLO", cpu.opSLO, cpu.amIZX, IZX, 8}, {"NOP", cpu.opNOP, cpu.amZP0, ZP0, 3}, {"ORA", cpu.opORA, cpu.amZP0, ZP0, 3}, {"ASL", cpu.opASL, cpu.amZP0, ZP0, 5}, {"SLO", cpu.opSLO, cpu.amZP0, ZP0, 5}, {"PHP", cpu.opPHP, cpu.amIMP, IMP, 3}, {"ORA", cpu.opORA, cpu.amIMM, IMM, 2}, {"ASL", cpu.opASL, cpu.amIMP, IMP, 2}, {"ANC", cpu.opANC, cpu.amIMM, IMM, 2}, {"NOP", cpu.opNOP, cpu.amABS, ABS, 4}, {"ORA", cpu.opORA, cpu.amABS, ABS, 4}, {"ASL", cpu.opASL, cpu.amABS, ABS, 6}, {"SLO", cpu.opSLO, cpu.amABS, ABS, 6},

		{"BPL", cpu.opBPL, cpu.amREL, REL, 2}, {"ORA", cpu.opORA, cpu.amIZY, IZY, 5}, {"HLT", cpu.opHLT, cpu.amIMP, IMP, 2}, {"SLO", cpu.opSLO, cpu.amIZY, IZY, 8}, {"NOP", cpu.opNOP, cpu.amZPX, ZPX, 4}, {"ORA", cpu.opORA, cpu.amZPX, ZPX, 4}, {"ASL", cpu.opASL, cpu.amZPX, ZPX, 6}, {"SLO", cpu.opSLO, cpu.amZPX, ZPX, 6}, {"CLC", cpu.opCLC, cpu.amIMP, IMP, 2}, {"ORA", cpu.opORA, cpu.amABY, ABY, 4}, {"NOP", cpu.opNOP, cpu.amIMP, IMP, 2}, {"SLO", cpu.opSLO, cpu.amABY, ABY, 7}, {"NOP", cpu.opNOP, cpu.amABX, ABX, 4}, {"ORA", cpu.opORA, cpu.amABX, ABX, 4}, {"ASL", cpu.opASL, cpu.amABX, ABX, 7}, {"SLO", cpu.opSLO, cpu.amABX, ABX, 7},

		{"JSR", cpu.opJSR, cpu.amABS, ABS, 6}, {"AND", cpu.opAND, cpu.amIZX, IZX, 6}, {"HLT", cpu.opHLT, cpu.amIMP, IMP, 2}, {"RLA", cpu.opRLA, cpu.amIZX, IZX, 8}, {"BIT", cpu.opBIT, cpu.amZP0, ZP0, 3}, {"AND", cpu.opAND, cpu.amZP0, ZP0, 3}, {"ROL", cpu.opROL, cpu.amZP0, ZP0, 5}, {"RLA", cpu.opRLA, cpu.amZP0, ZP0, 5}, {"PLP", cpu.opPLP, cpu.amIMP, IMP, 4}, {"AND", cpu.opAND, cpu.amIMM, IMM, 2}, {"ROL", cpu.opROL, cpu.amIMP, IMP, 2}, {"ANC", cpu.opANC, cpu.amIMM, IMM, 2}, {"BIT", cpu.opBIT, cpu.amABS, ABS, 4}, {"AND", cpu.opAND, cpu.amABS, ABS, 4}, {"ROL", cpu.opROL, cpu.amABS, ABS, 6}, {"RLA", cpu.opRLA, cpu.amABS, ABS, 6},

		{"BMI", cpu.opBMI, cpu.amREL, REL, 2}, {"AND", cpu.opAND, cpu.amIZY, IZY, 5}, {"HLT", cpu.opHLT, cpu.amIMP, IMP, 2}, {"RLA", cpu.opRLA, cpu.amIZY, IZY, 8}, {"NOP", cpu.opNOP, cpu.amZPX, ZPX, 4}, {"AND", cpu.opAND, cpu.amZPX, ZPX, 4}, {"ROL", cpu.opROL, cpu.amZPX, ZPX, 6}, {"RLA", cpu.opRLA, cpu.amZPX, ZPX, 6}, {"SEC", cpu.opSEC, cpu.amIMP, IMP, 2}, {"AND", cpu.opAND, cpu.amABY, ABY, 4}, {"NOP", cpu.opNOP, cpu.amIMP, IMP, 2}, {"RLA", cpu.opRLA, cpu.amABY, ABY, 7}, {"NOP", cpu.opNOP, cpu.amABX, ABX, 4}, {"AND", cpu.opAND, cpu.amABX, ABX, 4}, {"ROL", cpu.opROL, cpu.amABX, ABX, 7}, {"RLA", cpu.opRLA, cpu.amABX, ABX, 7},

		{"RTI", cpu.opRTI, cpu.amIMP, IMP, 6}, {"EOR", cpu.opEOR, cpu.amIZX, IZX, 6}, {"HLT", cpu.opHLT, cpu.amIMP, IMP, 2}, {"SRE", cpu.opSRE, cpu.amIZX, IZX, 8}, {"NOP", cpu.opNOP, cpu.amZP0, ZP0, 3}, {"EOR", cpu.opEOR, cpu.amZP0, ZP0, 3}, {"LSR", cpu.opLSR, cpu.amZP0, ZP0, 5}, {"SRE", cpu.opSRE, cpu.amZP0, ZP0, 5}, {"PHA", cpu.opPHA, cpu.amIMP, IMP, 3}, {"EOR", cpu.opEOR, cpu.amIMM, IMM, 2}, {"LSR", cpu.opLSR, cpu.amIMP, IMP, 2}, {"ALR", cpu.opALR, cpu.amIMM, IMM, 2}, {"JMP", cpu.opJMP, cpu.amABS, ABS, 3}, {"EOR", cpu.opEOR, cpu.amABS, ABS, 4}, {"LSR", cpu.opLSR, cpu.amABS, ABS, 6}, {"SRE", cpu.opSRE, cpu.amABS, ABS, 6},

		{"BVC", cpu.opBVC, cpu.amREL, REL, 2}, {"EOR", cpu.opEOR, cpu.amIZY, IZY, 5}, {"HLT", cpu.opHLT, cpu.amIMP, IMP, 2}, {"SRE", cpu.opSRE, cpu.amIZY, IZY, 8}, {"NOP", cpu.opNOP, cpu.amZPX, ZPX, 4}, {"EOR", cpu.opEOR, cpu.amZPX, ZPX, 4}, {"LSR", cpu.opLSR, cpu.amZPX, ZPX, 6}, {"SRE", cpu.opSRE, cpu.amZPX, ZPX, 6}, {"CLI", cpu.opCLI, cpu.amIMP, IMP, 2}, {"EOR", cpu.opEOR, cpu.amABY, ABY, 4}, {"NOP", cpu.opNOP, cpu.amIMP, IMP, 2}, {"SRE", cpu.opSRE, cpu.amABY, ABY, 7}, {"NOP", cpu.opNOP, cpu.amABX, ABX, 4}, {"EOR", cpu.opEOR, cpu.amABX, ABX, 4}, {"LSR", cpu.opLSR, cpu.amABX, ABX, 7}, {"SRE", cpu.opSRE, cpu.amABX, ABX, 7},

		{"RTS", cpu.opRTS, cpu.amIMP, IMP, 6}, {"ADC", cpu.opADC, cpu.amIZX, IZX, 6}, {"HLT", cpu.opHLT, cpu.amIMP, IMP, 2}, {"RRA", cpu.opRRA, cpu.amIZX, IZX, 8}, {"NOP", cpu.opNOP, cpu.amZP0, ZP0, 3}, {"ADC", cpu.opADC, cpu.amZP0, ZP0, 3}, {"ROR", cpu.opROR, cpu.amZP0, ZP0, 5}, {"RRA", cpu.opRRA, cpu.amZP0, ZP0, 5}, {"PLA", cpu.opPLA, cpu.amIMP, IMP, 4}, {"ADC", cpu.opADC, cpu.amIMM, IMM, 2}, {"ROR", cpu.opROR, cpu.amIMP, IMP, 2}, {"ARR", cpu.opARR, cpu.amIMM, IMM, 2}, {"JMP", cpu.opJMP, cpu.amIND, IND, 5}, {"ADC", cpu.opADC, cpu.amABS, ABS, 4}, {"ROR", cpu.opROR, cpu.amABS, ABS, 6}, {"RRA", cpu.opRRA, cpu.amABS, ABS, 6},

		{"BVS", cpu.opBVS, cpu.amREL, REL, 2}, {"ADC", cpu.opADC, cpu.amIZY, IZY, 5}, {"HLT", cpu.opHLT, cpu.amIMP, IMP, 2}, {"RRA", cpu.opRRA, cpu.amIZY, IZY, 8}, {"NOP", cpu.opNOP, cpu.amZPX, ZPX, 4}, {"ADC", cpu.opADC, cpu.amZPX, ZPX, 4}, {"ROR", cpu.opROR, cpu.amZPX, ZPX, 6}, {"RRA", cpu.opRRA, cpu.amZPX, ZPX, 6}, {"SEI", cpu.opSEI, cpu.amIMP, IMP, 2}, {"ADC", cpu.opADC, cpu.amABY, ABY, 4}, {"NOP", cpu.opNOP, cpu.amIMP, IMP, 2}, {"RRA", cpu.opRRA, cpu.amABY, ABY, 7}, {"NOP", cpu.opNOP, cpu.amABX, ABX, 4}, {"ADC", cpu.opADC, cpu.amABX, ABX, 4}, {"ROR", cpu.opROR, cpu.amABX, ABX, 7}, {"RRA", cpu.opRRA, cpu.amABX, ABX, 7},

		{"NOP", cpu.opNOP, cpu.amIMM, IMM, 2}, {"STA", cpu.opSTA, cpu.amIZX, IZX, 6}, {"NOP", cpu.opNOP, cpu.amIMM, IMM, 2}, {"SAX", cpu.opSAX, cpu.amIZX, IZX, 6}, {"STY", cpu.opSTY, cpu.amZP0, ZP0, 3}, {"STA", cpu.opSTA, cpu.amZP0, ZP0, 3}, {"STX", cpu.opSTX, cpu.amZP0, ZP0, 3}, {"SAX", cpu.opSAX, cpu.amZP0, ZP0, 3}, {"DEY", cpu.opDEY, cpu.amIMP, IMP, 2}, {"NOP", cpu.opNOP, cpu.amIMM, IMM, 2}, {"TXA", cpu.opTXA, cpu.amIMP, IMP, 2}, {"XXX", cpu.opXXX, cpu.amIMM, IMM, 2}, {"STY", cpu.opSTY, cpu.amABS, ABS, 4}, {"STA", cpu.opSTA, cpu.amABS, ABS, 4}, {"STX", cpu.opSTX, cpu.amABS, ABS, 4}, {"SAX", cpu.opSAX, cpu.amABS, ABS, 4},

		{"BCC", cpu.opBCC, cpu.amREL, REL, 2}, {"STA", cpu.opSTA, cpu.amIZY, IZY, 6}, {"HLT", cpu.opHLT, cpu.amIMP, IMP, 2}, {"XXX", cpu.opXXX, cpu.amIZY, IZY, 6}, {"STY", cpu.opSTY, cpu.amZPX, ZPX, 4}, {"STA", cpu.opSTA, cpu.amZPX, ZPX, 4}, {"STX", cpu.opSTX, cpu.amZPY, ZPY, 4}, {"SAX", cpu.opSAX, cpu.amZPY, ZPY, 4}, {"TYA", cpu.opTYA, cpu.amIMP, IMP, 2}, {"STA", cpu.opSTA, cpu.amABY, ABY, 5}, {"TXS", cpu.opTXS, cpu.amIMP, IMP, 2}, {"XXX", cpu.opXXX, cpu.amABY, ABY, 5}, {"XXX", cpu.opXXX, cpu.amABX, ABX, 5}, {"STA", cpu.opSTA, cpu.amABX, ABX, 5}, {"XXX", cpu.opXXX, cpu.amABY, ABY, 5}, {"XXX", cpu.opXXX, cpu.amABY, ABY, 5},

		{"LDY", cpu.opLDY, cpu.amIMM, IMM, 2}, {"LDA", cpu.opLDA, cpu.amIZX, IZX, 6}, {"LDX", cpu.opLDX, cpu.amIMM, IMM, 2}, {"LAX", cpu.opLAX, cpu.amIZX, IZX, 6}, {"LDY", cpu.opLDY, cpu.amZP0, ZP0, 3}, {"LDA", cpu.opLDA, cpu.amZP0, ZP0, 3}, {"LDX", cpu.opLDX, cpu.amZP0, ZP0, 3}, {"LAX", cpu.opLAX, cpu.amZP0, ZP0, 3}, {"TAY", cpu.opTAY, cpu.amIMP, IMP, 2}, {"LDA", cpu.opLDA, cpu.amIMM, IMM, 2}, {"TAX", cpu.opTAX, cpu.amIMP, IMP, 2}, {"LAX", cpu.opLAX, cpu.amIMM, IMM, 2}, {"LDY", cpu.opLDY, cpu.amABS, ABS, 4}, {"LDA", cpu.opLDA, cpu.amABS, ABS, 4}, {"LDX", cpu.opLDX, cpu.amABS, ABS, 4}, {"LAX", cpu.opLAX, cpu.amABS, ABS, 4},

		{"BCS", cpu.opBCS, cpu.amREL, REL, 2}, {"LDA", cpu.opLDA, cpu.amIZY, IZY, 5}, {"HLT", cpu.opHLT, cpu.amIMP, IMP, 2}, {"LAX", cpu.opLAX, cpu.amIZY, IZY, 5}, {"LDY", cpu.opLDY, cpu.amZPX, ZPX, 4}, {"LDA", cpu.opLDA, cpu.amZPX, ZPX, 4}, {"LDX", cpu.opLDX, cpu.amZPY, ZPY, 4}, {"LAX", cpu.opLAX, cpu.amZPY, ZPY, 4}, {"CLV", cpu.opCLV, cpu.amIMP, IMP, 2}, {"LDA", cpu.opLDA, cpu.amABY, ABY, 4}, {"TSX", cpu.opTSX, cpu.amIMP, IMP, 2}, {"XXX", cpu.opXXX, cpu.amABY, ABY, 4}, {"LDY", cpu.opLDY, cpu.amABX, ABX, 4}, {"LDA", cpu.opLDA, cpu.amABX, ABX, 4}, {"LDX", cpu.opLDX, cpu.amABY, ABY, 4}, {"LAX", cpu.opLAX, cpu.amABY, ABY, 4},

		{"CPY", cpu.opCPY, cpu.amIMM, IMM, 2}, {"CMP", cpu.opCMP, cpu.amIZX, IZX, 6}, {"NOP", cpu.opNOP, cpu.amIMM, IMM, 2}, {"DCP", cpu.opDCP, cpu.amIZX, IZX, 8}, {"CPY", cpu.opCPY, cpu.amZP0, ZP0, 3}, {"CMP", cpu.opCMP, cpu.amZP0, ZP0, 3}, {"DEC", cpu.opDEC, cpu.amZP0, ZP0, 5}, {"DCP", cpu.opDCP, cpu.amZP0, ZP0, 5}, {"INY", cpu.opINY, cpu.amIMP, IMP, 2}, {"CMP", cpu.opCMP, cpu.amIMM, IMM, 2}, {"DEX", cpu.opDEX, cpu.amIMP, IMP, 2}, {"AXS", cpu.opAXS, cpu.amIMM, IMM, 2}, {"CPY", cpu.opCPY, cpu.amABS, ABS, 4}, {"CMP", cpu.opCMP, cpu.amABS, ABS, 4}, {"DEC", cpu.opDEC, cpu.amABS, ABS, 6}, {"DCP", cpu.opDCP, cpu.amABS, ABS, 6},

		{"BNE", cpu.opBNE, cpu.amREL, REL, 2}, {"CMP", cpu.opCMP, cpu.amIZY, IZY, 5}, {"HLT", cpu.opHLT, cpu.amIMP, IMP, 2}, {"DCP", cpu.opDCP, cpu.amIZY, IZY, 8}, {"NOP", cpu.opNOP, cpu.amZPX, ZPX, 4}, {"CMP", cpu.opCMP, cpu.amZPX, ZPX, 4}, {"DEC", cpu.opDEC, cpu.amZPX, ZPX, 6}, {"DCP", cpu.opDCP, cpu.amZPX, ZPX, 6}, {"CLD", cpu.opCLD, cpu.amIMP, IMP, 2}, {"CMP", cpu.opCMP, cpu.amABY, ABY, 4}, {"NOP", cpu.opNOP, cpu.amIMP, IMP, 2}, {"DCP", cpu.opDCP, cpu.amABY, ABY, 7}, {"NOP", cpu.opNOP, cpu.amABX, ABX, 4}, {"CMP", cpu.opCMP, cpu.amABX, ABX, 4}, {"DEC", cpu.opDEC, cpu.amABX, ABX, 7}, {"DCP", cpu.opDCP, cpu.amABX, ABX, 7},

		{"CPX", cpu.opCPX, cpu.amIMM, IMM, 2}, {"SBC", cpu.opSBC, cpu.amIZX, IZX, 6}, {"NOP", cpu.opNOP, cpu.amIMM, IMM, 2}, {"ISC", cpu.opISC, cpu.amIZX, IZX, 8}, {"CPX", cpu.opCPX, cpu.amZP0, ZP0, 3}, {"SBC", cpu.opSBC, cpu.amZP0, ZP0, 3}, {"INC", cpu.opINC, cpu.amZP0, ZP0, 5}, {"ISC", cpu.opISC, cpu.amZP0, ZP0, 5}, {"INX", cpu.opINX, cpu.amIMP, IMP, 2}, {"SBC", cpu.opSBC, cpu.amIMM, IMM, 2}, {"NOP", cpu.opNOP, cpu.amIMP, IMP, 2}, {"SBC", cpu.opSBC, cpu.amIMM, IMM, 2}, {"CPX", cpu.opCPX, cpu.amABS, ABS, 4}, {"SBC", cpu.opSBC, cpu.amABS, ABS, 4}, {"INC", cpu.opINC, cpu.amABS, ABS, 6}, {"ISC", cpu.opISC, cpu.amABS, ABS, 6},

		{"BEQ", cpu.opBEQ, cpu.amREL, REL, 2}, {"SBC", cpu.opSBC, cpu.amIZY, IZY, 5}, {"HLT", cpu.opHLT, cpu.amIMP, IMP, 2}, {"ISC", cpu.opISC, cpu.amIZY, IZY, 8}, {"NOP", cpu.opNOP, cpu.amZPX, ZPX, 4}, {"SBC", cpu.opSBC, cpu.amZPX, ZPX, 4}, {"INC", cpu.opINC, cpu.amZPX, ZPX, 6}, {"ISC", cpu.opISC, cpu.amZPX, ZPX, 6}, {"SED", cpu.opSED, cpu.amIMP, IMP, 2}, {"SBC", cpu.opSBC, cpu.amABY, ABY, 4}, {"NOP", cpu.opNOP, cpu.amIMP, IMP, 2}, {"ISC", cpu.opISC, cpu.amABY, ABY, 7}, {"NOP", cpu.opNOP, cpu.amABX, ABX, 4}, {"SBC", cpu.opSBC, cpu.amABX, ABX, 4}, {"INC", cpu.opINC, cpu.amABX, ABX, 7}, {"ISC", cpu.opISC, cpu.amABX, ABX, 7},
	}

	return cpu
}

// Connect the CPU to a 16-bit address bus.
func (cpu *Cpu6502) ConnectBus(b Bus) { cpu.bus = b }

// Read from the attached bus.
func (cpu *Cpu6502) read(addr uint16) byte {
	return cpu.bus.Read(addr)
}

// Write to the attached bus.
func (cpu *Cpu6502) write(addr uint16, data byte) {
	cpu.bus.Write(addr, data)
}

// Read a word from memory (little endian order).
func (cpu *Cpu6502) readWord(addr uint16) uint16 {
	lo := cpu.read(addr)
	hi := cpu.read(addr + 1)

	return (uint16(hi) << 8) | uint16(lo)
}

// Read a byte from memory at the address previously set by the appropriate
// addressing mode function. Avoid if current instruction's address mode is implied.
func (cpu *Cpu6502) fetch() {
	if !cpu.isImpliedAddr {
		cpu.Fetched = cpu.read(cpu.AddrAbs)
	}
}

// Functions to push and pop from the stack.
func (cpu *Cpu6502) stackPush(data byte) {
	cpu.write((stackBase | uint16(cpu.Sp)), data)
	cpu.Sp--
}

func (cpu *Cpu6502) stackPop() byte {
	cpu.Sp++
	return cpu.read(stackBase | uint16(cpu.Sp))
}

////////////////////////////////////////////////////////////////
// Status Flags
type SF6502 byte // 6502 Status Flag

const (
	StatusFlagC SF6502 = 1 << iota // Carry
	StatusFlagZ                    // Zero
	StatusFlagI                    // Interrupt Disable
	StatusFlagD                    // Decimal Mode
	StatusFlagB                    // Break Command
	StatusFlagX                    // UNUSED
	StatusFlagV                    // Overflow
	StatusFlagN                    // Negative
)

// Convenience functions used to get and set CPU status flags.
func (cpu *Cpu6502) getFlag(f SF6502) byte {
	return cpu.Status & byte(f)
}

func (cpu *Cpu6502) setFlag(f SF6502, b bool) {
	if b {
		cpu.Status |= byte(f)
	} else {
		cpu.Status &^= byte(f)
	}
}

// carryBit returns the carry flag as 0 or 1 for arithmetic.
func (cpu *Cpu6502) carryBit() byte {
	if cpu.getFlag(StatusFlagC) != 0 {
		return 1
	}
	return 0
}

// Set N and Z from a result byte. Nearly every ALU operation ends here.
func (cpu *Cpu6502) setNZ(val byte) {
	cpu.setFlag(StatusFlagZ, val == 0)
	cpu.setFlag(StatusFlagN, val&(1<<7) > 0)
}

////////////////////////////////////////////////////////////////
// Interrupts

func (cpu *Cpu6502) Reset() {
	cpu.A = 0x00
	cpu.X = 0x00
	cpu.Y = 0x00
	cpu.Status = 0x00 | byte(StatusFlagX) | byte(StatusFlagI)
	cpu.Sp = 0xFD

	// Get the program counter from the reset vector location.
	cpu.Pc = cpu.readWord(resetVectAddr)

	cpu.AddrAbs = 0x0000
	cpu.AddrRel = 0x0000
	cpu.Fetched = 0x00
	cpu.nmiPending = false
	cpu.irqAsserted = false

	// Spend time on reset
	cpu.Cycles = 7
}

// NMI requests a non-maskable interrupt, serviced at the next instruction
// boundary.
func (cpu *Cpu6502) NMI() {
	cpu.nmiPending = true
}

// SetIRQ drives the (level-sensitive) IRQ line.
func (cpu *Cpu6502) SetIRQ(asserted bool) {
	cpu.irqAsserted = asserted
}

// Push PC and status, then jump through the given vector. Shared by NMI and
// IRQ entry; BRK does its own sequence because of the pushed B flag and the
// skipped signature byte.
func (cpu *Cpu6502) interrupt(vector uint16) {
	cpu.stackPush(byte(cpu.Pc >> 8))
	cpu.stackPush(byte(cpu.Pc))

	// B is clear on a hardware-pushed status byte.
	// http://visual6502.org/wiki/index.php?title=6502_BRK_and_B_bit
	status := (cpu.Status | byte(StatusFlagX)) &^ byte(StatusFlagB)
	cpu.stackPush(status)

	cpu.setFlag(StatusFlagI, true)
	cpu.Pc = cpu.readWord(vector)

	cpu.Cycles = 7
}

// Clock represents one CPU clock cycle.
func (cpu *Cpu6502) Clock() {
	if cpu.Cycles == 0 {
		// Interrupts are sampled between instructions only.
		if cpu.nmiPending {
			cpu.nmiPending = false
			cpu.interrupt(nmiVectAddr)
		} else if cpu.irqAsserted && cpu.getFlag(StatusFlagI) == 0 {
			cpu.interrupt(irqVectAddr)
		} else {
			cpu.executeInstruction()
		}
	}

	// Turn implied address mode off, just in case the last instruction turned it on.
	cpu.isImpliedAddr = false

	cpu.CycleCount++

	cpu.Cycles--
}

func (cpu *Cpu6502) executeInstruction() {
	// Get the next opcode by reading from the bus at the location of the
	// current program counter.
	cpu.Opcode = cpu.read(cpu.Pc)
	oldPc := cpu.Pc

	// Lookup by opcode the instruction to be executed.
	inst := cpu.InstLookup[cpu.Opcode]

	// Increment program counter.
	cpu.Pc++

	// Set required cycles for instruction execution.
	cpu.Cycles = inst.Cycles

	// Add any additional cycles needed by either the addressing mode or
	// instruction. The AND means the page-cross penalty only applies to
	// instructions that can actually pay it; stores never do.
	extraCycles1 := inst.AddrMode()
	extraCycles2 := inst.Execute()

	cpu.Cycles += (extraCycles1 & extraCycles2)

	if cpu.Logger != nil {
		var buf bytes.Buffer
		buf.WriteString(fmt.Sprintf("%04X\t%02X - %s ", oldPc, cpu.Opcode, inst.Name))
		buf.WriteString(fmt.Sprintf("\t\tA:%02X X:%02X Y:%02X P:%02X SP:%02X\tCYC:%d",
			cpu.A, cpu.X, cpu.Y, cpu.Status, cpu.Sp, cpu.CycleCount))
		cpu.Logger.Print(buf.String())
		cpu.OpDiss = buf.String()
	}
}

// stateString formats the register file for panics and trap reports.
func (cpu *Cpu6502) stateString() string {
	return fmt.Sprintf("PC:%04X A:%02X X:%02X Y:%02X SP:%02X P:%08b",
		cpu.Pc, cpu.A, cpu.X, cpu.Y, cpu.Sp, cpu.Status)
}

////////////////////////////////////////////////////////////////
// Addressing Modes
// These functions return any extra cycles needed for execution.

// Implied:
func (cpu *Cpu6502) amIMP() byte {
	cpu.isImpliedAddr = true

	cpu.Fetched = cpu.A
	return 0x00
}

// Immediate:
func (cpu *Cpu6502) amIMM() byte {
	// The second byte of the instruction contains the operand.
	cpu.AddrAbs = cpu.Pc
	cpu.Pc++

	return 0x00
}

// Relative:
func (cpu *Cpu6502) amREL() byte {
	addr := cpu.read(cpu.Pc)
	cpu.Pc++

	cpu.AddrRel = uint16(addr)

	// Pad left 8 bits if value is negative.
	if cpu.AddrRel&(1<<7) > 0 {
		cpu.AddrRel |= 0xFF00
	}

	return 0x00
}

// Zero Page:
func (cpu *Cpu6502) amZP0() byte {
	// Use the second byte of the instruction to index into page zero.
	lo := cpu.read(cpu.Pc)
	cpu.Pc++

	cpu.AddrAbs = uint16(lo)

	return 0x00
}

// Zero Page, X
func (cpu *Cpu6502) amZPX() byte {
	// The index addition wraps within page zero.
	cpu.AddrAbs = uint16(cpu.read(cpu.Pc)+cpu.X) & 0x00FF
	cpu.Pc++

	return 0x00
}

// Zero Page, Y
func (cpu *Cpu6502) amZPY() byte {
	cpu.AddrAbs = uint16(cpu.read(cpu.Pc)+cpu.Y) & 0x00FF
	cpu.Pc++

	return 0x00
}

// Absolute:
func (cpu *Cpu6502) amABS() byte {
	// The second byte of the instruction contains the low order byte of the
	// address. The third byte of the instruction contains the high order byte.
	cpu.AddrAbs = cpu.readWord(cpu.Pc)
	cpu.Pc += 2

	return 0x00
}

// Absolute, X:
func (cpu *Cpu6502) amABX() byte {
	addr := cpu.readWord(cpu.Pc)
	cpu.Pc += 2

	cpu.AddrAbs = addr + uint16(cpu.X)

	// Add a cycle if page cross occurred.
	if cpu.AddrAbs&0xFF00 != addr&0xFF00 {
		return 1
	}

	return 0x00
}

// Absolute, Y:
func (cpu *Cpu6502) amABY() byte {
	addr := cpu.readWord(cpu.Pc)
	cpu.Pc += 2

	cpu.AddrAbs = addr + uint16(cpu.Y)

	// Add a cycle if page cross occurred.
	if cpu.AddrAbs&0xFF00 != addr&0xFF00 {
		return 1
	}

	return 0x00
}

// Indirect (JMP only):
func (cpu *Cpu6502) amIND() byte {
	// The next 16 bits contain a memory address pointing to the effective
	// address. The NMOS part never carries into the high byte when reading
	// the pointer, so ($xxFF) fetches its high byte from $xx00.
	addr := cpu.readWord(cpu.Pc)
	cpu.Pc += 2

	lo := cpu.read(addr)
	hi := cpu.read((addr & 0xFF00) | ((addr + 1) & 0x00FF))

	cpu.AddrAbs = uint16(hi)<<8 | uint16(lo)

	return 0x00
}

// Indexed Indirect:
func (cpu *Cpu6502) amIZX() byte {
	// Add the second byte of the instruction with the contents of register X.
	// This result is a zero page memory location pointing to the low order byte
	// of the effective address. The next memory location contains the high
	// order byte. Both memory locations must be in page zero.
	addr := uint16(cpu.read(cpu.Pc)+cpu.X) & 0x00FF
	cpu.Pc++

	lo := cpu.read(addr)
	hi := cpu.read((addr + 1) & 0x00FF) // Zero page wraparound
	cpu.AddrAbs = uint16(hi)<<8 | uint16(lo)

	return 0x00
}

// Indirect Indexed:
func (cpu *Cpu6502) amIZY() byte {
	// The second byte points to a zero page word; Y is added after the
	// indirection, so a page cross is possible.
	addr := uint16(cpu.read(cpu.Pc)) & 0x00FF
	cpu.Pc++

	lo := cpu.read(addr)
	hi := cpu.read((addr + 1) & 0x00FF) // Zero page wraparound

	cpu.AddrAbs = (uint16(hi)<<8 | uint16(lo)) + uint16(cpu.Y)

	// Add a cycle if page cross occurred.
	if cpu.AddrAbs&0xFF00 != (uint16(hi) << 8) {
		return 1
	}

	return 0x00
}

////////////////////////////////////////////////////////////////
// Instructions
type Instruction struct {
	Name     string
	Execute  func() byte
	AddrMode func() byte
	Mode     AddressingMode
	Cycles   byte
}

// CPU instructions. Each instruction method returns the number of any extra
// cycles necessary for execution.

// Shared branch body: +1 cycle when taken, +1 more when the target crosses a
// page boundary.
func (cpu *Cpu6502) branch(cond bool) byte {
	if cond {
		cpu.Cycles++

		cpu.AddrAbs = cpu.Pc + cpu.AddrRel

		if cpu.AddrAbs&0xFF00 != cpu.Pc&0xFF00 {
			cpu.Cycles++
		}

		cpu.Pc = cpu.AddrAbs
	}

	return 0x00
}

// Shared add body, used by ADC and RRA. Handles both binary and decimal
// mode; V is computed as in binary mode either way.
func (cpu *Cpu6502) adc(val byte) {
	carryIn := uint16(cpu.carryBit())
	sum := uint16(cpu.A) + uint16(val) + carryIn

	overflow := (cpu.A^byte(sum))&(val^byte(sum))&(1<<7) > 0

	if cpu.getFlag(StatusFlagD) > 0 {
		// Adjust each nibble past 9 up to the next decimal digit.
		lo := uint16(cpu.A&0x0F) + uint16(val&0x0F) + carryIn
		hi := uint16(cpu.A>>4) + uint16(val>>4)
		if lo > 9 {
			lo += 6
			hi++
		}
		if hi > 9 {
			hi += 6
		}

		cpu.setFlag(StatusFlagC, hi > 15)
		cpu.A = byte(hi<<4) | byte(lo&0x0F)
	} else {
		cpu.setFlag(StatusFlagC, sum > 0xFF)
		cpu.A = byte(sum)
	}

	cpu.setFlag(StatusFlagV, overflow)
	cpu.setNZ(cpu.A)
}

// Shared subtract body, used by SBC and ISC. Carry is NOT-borrow.
func (cpu *Cpu6502) sbc(val byte) {
	carryIn := uint16(cpu.carryBit())

	// Subtraction is addition of the one's complement.
	inv := uint16(val) ^ 0x00FF
	sum := uint16(cpu.A) + inv + carryIn

	overflow := (uint16(cpu.A)^sum)&(inv^sum)&(1<<7) > 0

	if cpu.getFlag(StatusFlagD) > 0 {
		borrow := int16(1 - carryIn)
		lo := int16(cpu.A&0x0F) - int16(val&0x0F) - borrow
		if lo < 0 {
			lo = ((lo - 6) & 0x0F) - 0x10
		}
		res := int16(cpu.A&0xF0) - int16(val&0xF0) + lo
		if res < 0 {
			res -= 0x60
		}
		cpu.A = byte(res)
	} else {
		cpu.A = byte(sum)
	}

	cpu.setFlag(StatusFlagC, sum > 0xFF)
	cpu.setFlag(StatusFlagV, overflow)
	cpu.setNZ(cpu.A)
}

// Shared compare body for CMP/CPX/CPY.
func (cpu *Cpu6502) compare(reg byte) {
	cpu.fetch()

	cpu.setFlag(StatusFlagC, reg >= cpu.Fetched)
	cpu.setNZ(reg - cpu.Fetched)
}

// Write a read-modify-write result back to A or memory depending on the
// addressing mode.
func (cpu *Cpu6502) storeALU(result byte) {
	if cpu.isImpliedAddr {
		cpu.A = result
	} else {
		cpu.write(cpu.AddrAbs, result)
	}
}

// ADC - Add with Carry
func (cpu *Cpu6502) opADC() byte {
	cpu.fetch()
	cpu.adc(cpu.Fetched)

	return 0x01
}

// AND - Logical AND
func (cpu *Cpu6502) opAND() byte {
	cpu.fetch()

	cpu.A &= cpu.Fetched
	cpu.setNZ(cpu.A)

	return 0x01
}

// ASL - Arithmetic Shift Left
func (cpu *Cpu6502) opASL() byte {
	cpu.fetch()

	// Carry takes the old bit 7.
	cpu.setFlag(StatusFlagC, cpu.Fetched&(1<<7) > 0)

	result := cpu.Fetched << 1
	cpu.setNZ(result)
	cpu.storeALU(result)

	return 0x00
}

// BCC - Branch if Carry Clear
func (cpu *Cpu6502) opBCC() byte {
	return cpu.branch(cpu.getFlag(StatusFlagC) == 0)
}

// BCS - Branch if Carry Set
func (cpu *Cpu6502) opBCS() byte {
	return cpu.branch(cpu.getFlag(StatusFlagC) != 0)
}

// BEQ - Branch if Equal
func (cpu *Cpu6502) opBEQ() byte {
	return cpu.branch(cpu.getFlag(StatusFlagZ) != 0)
}

// BIT - Bit Test
func (cpu *Cpu6502) opBIT() byte {
	cpu.fetch()

	cpu.setFlag(StatusFlagZ, cpu.Fetched&cpu.A == 0)
	cpu.setFlag(StatusFlagV, cpu.Fetched&(1<<6) > 0)
	cpu.setFlag(StatusFlagN, cpu.Fetched&(1<<7) > 0)

	return 0x00
}

// BMI - Branch if Minus
func (cpu *Cpu6502) opBMI() byte {
	return cpu.branch(cpu.getFlag(StatusFlagN) != 0)
}

// BNE - Branch if Not Equal
func (cpu *Cpu6502) opBNE() byte {
	return cpu.branch(cpu.getFlag(StatusFlagZ) == 0)
}

// BPL - Branch if Positive
func (cpu *Cpu6502) opBPL() byte {
	return cpu.branch(cpu.getFlag(StatusFlagN) == 0)
}

// BRK - Force Interrupt. The pushed PC skips the signature byte after the
// opcode, and unlike a hardware interrupt the pushed status has B set.
func (cpu *Cpu6502) opBRK() byte {
	cpu.Pc++

	cpu.stackPush(byte(cpu.Pc >> 8))
	cpu.stackPush(byte(cpu.Pc))
	cpu.stackPush(cpu.Status | byte(StatusFlagB) | byte(StatusFlagX))

	cpu.setFlag(StatusFlagI, true)

	cpu.Pc = cpu.readWord(irqVectAddr)

	return 0x00
}

// BVC - Branch if Overflow Clear
func (cpu *Cpu6502) opBVC() byte {
	return cpu.branch(cpu.getFlag(StatusFlagV) == 0)
}

// BVS - Branch if Overflow Set
func (cpu *Cpu6502) opBVS() byte {
	return cpu.branch(cpu.getFlag(StatusFlagV) != 0)
}

// CLC - Clear Carry Flag
func (cpu *Cpu6502) opCLC() byte {
	cpu.setFlag(StatusFlagC, false)

	return 0x00
}

// CLD - Clear Decimal Mode
func (cpu *Cpu6502) opCLD() byte {
	cpu.setFlag(StatusFlagD, false)

	return 0x00
}

// CLI - Clear Interrupt Disable
func (cpu *Cpu6502) opCLI() byte {
	cpu.setFlag(StatusFlagI, false)

	return 0x00
}

// CLV - Clear Overflow Flag
func (cpu *Cpu6502) opCLV() byte {
	cpu.setFlag(StatusFlagV, false)

	return 0x00
}

// CMP - Compare Accumulator
func (cpu *Cpu6502) opCMP() byte {
	cpu.compare(cpu.A)

	return 0x01
}

// CPX - Compare X Register
func (cpu *Cpu6502) opCPX() byte {
	cpu.compare(cpu.X)

	return 0x00
}

// CPY - Compare Y Register
func (cpu *Cpu6502) opCPY() byte {
	cpu.compare(cpu.Y)

	return 0x00
}

// DEC - Decrement Memory
func (cpu *Cpu6502) opDEC() byte {
	cpu.fetch()

	result := cpu.Fetched - 1
	cpu.write(cpu.AddrAbs, result)
	cpu.setNZ(result)

	return 0x00
}

// DEX - Decrement X Register
func (cpu *Cpu6502) opDEX() byte {
	cpu.X--
	cpu.setNZ(cpu.X)

	return 0x00
}

// DEY - Decrement Y Register
func (cpu *Cpu6502) opDEY() byte {
	cpu.Y--
	cpu.setNZ(cpu.Y)

	return 0x00
}

// EOR - Exclusive OR
func (cpu *Cpu6502) opEOR() byte {
	cpu.fetch()

	cpu.A ^= cpu.Fetched
	cpu.setNZ(cpu.A)

	return 0x01
}

// INC - Increment Memory
func (cpu *Cpu6502) opINC() byte {
	cpu.fetch()

	result := cpu.Fetched + 1
	cpu.write(cpu.AddrAbs, result)
	cpu.setNZ(result)

	return 0x00
}

// INX - Increment X Register
func (cpu *Cpu6502) opINX() byte {
	cpu.X++
	cpu.setNZ(cpu.X)

	return 0x00
}

// INY - Increment Y Register
func (cpu *Cpu6502) opINY() byte {
	cpu.Y++
	cpu.setNZ(cpu.Y)

	return 0x00
}

// JMP - Jump
func (cpu *Cpu6502) opJMP() byte {
	cpu.Pc = cpu.AddrAbs

	return 0x00
}

// JSR - Jump to Subroutine. The pushed return address is the last byte of
// the JSR instruction; RTS adds one on the way back.
func (cpu *Cpu6502) opJSR() byte {
	retAddr := cpu.Pc - 1

	cpu.stackPush(byte(retAddr >> 8))
	cpu.stackPush(byte(retAddr))

	cpu.Pc = cpu.AddrAbs

	return 0x00
}

// LDA - Load Accumulator
func (cpu *Cpu6502) opLDA() byte {
	cpu.fetch()

	cpu.A = cpu.Fetched
	cpu.setNZ(cpu.A)

	return 0x01
}

// LDX - Load X Register
func (cpu *Cpu6502) opLDX() byte {
	cpu.fetch()

	cpu.X = cpu.Fetched
	cpu.setNZ(cpu.X)

	return 0x01
}

// LDY - Load Y Register
func (cpu *Cpu6502) opLDY() byte {
	cpu.fetch()

	cpu.Y = cpu.Fetched
	cpu.setNZ(cpu.Y)

	return 0x01
}

// LSR - Logical Shift Right
func (cpu *Cpu6502) opLSR() byte {
	cpu.fetch()

	// Carry takes the old bit 0.
	cpu.setFlag(StatusFlagC, cpu.Fetched&0x1 > 0)

	result := cpu.Fetched >> 1
	cpu.setNZ(result)
	cpu.storeALU(result)

	return 0x00
}

// NOP - No Operation. Covers the documented opcode and the illegal variants
// that read (and discard) an operand.
func (cpu *Cpu6502) opNOP() byte { return 0x01 }

// ORA - Logical Inclusive OR
func (cpu *Cpu6502) opORA() byte {
	cpu.fetch()

	cpu.A |= cpu.Fetched
	cpu.setNZ(cpu.A)

	return 0x01
}

// PHA - Push Accumulator
func (cpu *Cpu6502) opPHA() byte {
	cpu.stackPush(cpu.A)
	return 0x00
}

// PHP - Push Processor Status
func (cpu *Cpu6502) opPHP() byte {
	// The pushed copy always has B and the reserved bit set.
	// http://visual6502.org/wiki/index.php?title=6502_BRK_and_B_bit
	cpu.stackPush(cpu.Status | byte(StatusFlagB) | byte(StatusFlagX))

	return 0x00
}

// PLA - Pull Accumulator
func (cpu *Cpu6502) opPLA() byte {
	cpu.A = cpu.stackPop()
	cpu.setNZ(cpu.A)

	return 0x00
}

// PLP - Pull Processor Status
func (cpu *Cpu6502) opPLP() byte {
	// B is ignored on pop; the reserved bit always reads set.
	bFlag := cpu.getFlag(StatusFlagB) > 0
	cpu.Status = cpu.stackPop()
	cpu.setFlag(StatusFlagB, bFlag)
	cpu.setFlag(StatusFlagX, true)

	return 0x00
}

// ROL - Rotate Left
func (cpu *Cpu6502) opROL() byte {
	cpu.fetch()

	carry := cpu.carryBit()

	// Set carry flag to bit 7 of old value.
	cpu.setFlag(StatusFlagC, cpu.Fetched&(1<<7) > 0)

	result := (cpu.Fetched << 1) | carry
	cpu.setNZ(result)
	cpu.storeALU(result)

	return 0x00
}

// ROR - Rotate Right
func (cpu *Cpu6502) opROR() byte {
	cpu.fetch()

	carry := cpu.carryBit()

	// Set carry flag to bit 0 of old value.
	cpu.setFlag(StatusFlagC, cpu.Fetched&0x1 > 0)

	result := (cpu.Fetched >> 1) | (carry << 7)
	cpu.setNZ(result)
	cpu.storeALU(result)

	return 0x00
}

// RTI - Return from Interrupt
func (cpu *Cpu6502) opRTI() byte {
	bFlag := cpu.getFlag(StatusFlagB) > 0
	cpu.Status = cpu.stackPop()
	cpu.setFlag(StatusFlagB, bFlag)
	cpu.setFlag(StatusFlagX, true)

	lo := cpu.stackPop()
	hi := cpu.stackPop()

	cpu.Pc = uint16(hi)<<8 | uint16(lo)

	return 0x00
}

// RTS - Return from Subroutine
func (cpu *Cpu6502) opRTS() byte {
	lo := cpu.stackPop()
	hi := cpu.stackPop()

	cpu.Pc = (uint16(hi)<<8 | uint16(lo)) + 1

	return 0x00
}

// SBC - Subtract with Carry
func (cpu *Cpu6502) opSBC() byte {
	cpu.fetch()
	cpu.sbc(cpu.Fetched)

	return 0x01
}

// SEC - Set Carry Flag
func (cpu *Cpu6502) opSEC() byte {
	cpu.setFlag(StatusFlagC, true)

	return 0x00
}

// SED - Set Decimal Flag
func (cpu *Cpu6502) opSED() byte {
	cpu.setFlag(StatusFlagD, true)

	return 0x00
}

// SEI - Set Interrupt Disable
func (cpu *Cpu6502) opSEI() byte {
	cpu.setFlag(StatusFlagI, true)

	return 0x00
}

// STA - Store Accumulator
func (cpu *Cpu6502) opSTA() byte {
	cpu.write(cpu.AddrAbs, cpu.A)

	return 0x00
}

// STX - Store X Register
func (cpu *Cpu6502) opSTX() byte {
	cpu.write(cpu.AddrAbs, cpu.X)

	return 0x00
}

// STY - Store Y Register
func (cpu *Cpu6502) opSTY() byte {
	cpu.write(cpu.AddrAbs, cpu.Y)

	return 0x00
}

// TAX - Transfer Accumulator to X
func (cpu *Cpu6502) opTAX() byte {
	cpu.X = cpu.A
	cpu.setNZ(cpu.X)

	return 0x00
}

// TAY - Transfer Accumulator to Y
func (cpu *Cpu6502) opTAY() byte {
	cpu.Y = cpu.A
	cpu.setNZ(cpu.Y)

	return 0x00
}

// TSX - Transfer Stack Pointer to X
func (cpu *Cpu6502) opTSX() byte {
	cpu.X = cpu.Sp
	cpu.setNZ(cpu.X)

	return 0x00
}

// TXA - Transfer X to Accumulator
func (cpu *Cpu6502) opTXA() byte {
	cpu.A = cpu.X
	cpu.setNZ(cpu.A)

	return 0x00
}

// TXS - Transfer X to Stack Pointer. The only transfer that leaves the
// flags alone.
func (cpu *Cpu6502) opTXS() byte {
	cpu.Sp = cpu.X

	return 0x00
}

// TYA - Transfer Y to Accumulator
func (cpu *Cpu6502) opTYA() byte {
	cpu.A = cpu.Y
	cpu.setNZ(cpu.A)

	return 0x00
}

////////////////////////////////////////////////////////////////
// Documented-illegal instructions. Each is the composition of its two
// underlying micro-operations with the combined flag effects.
// Reference: https://www.nesdev.org/wiki/CPU_unofficial_opcodes

// SLO - ASL memory, then ORA the result into A.
func (cpu *Cpu6502) opSLO() byte {
	cpu.fetch()

	cpu.setFlag(StatusFlagC, cpu.Fetched&(1<<7) > 0)

	result := cpu.Fetched << 1
	cpu.write(cpu.AddrAbs, result)

	cpu.A |= result
	cpu.setNZ(cpu.A)

	return 0x00
}

// RLA - ROL memory, then AND the result into A.
func (cpu *Cpu6502) opRLA() byte {
	cpu.fetch()

	carry := cpu.carryBit()
	cpu.setFlag(StatusFlagC, cpu.Fetched&(1<<7) > 0)

	result := (cpu.Fetched << 1) | carry
	cpu.write(cpu.AddrAbs, result)

	cpu.A &= result
	cpu.setNZ(cpu.A)

	return 0x00
}

// SRE - LSR memory, then EOR the result into A.
func (cpu *Cpu6502) opSRE() byte {
	cpu.fetch()

	cpu.setFlag(StatusFlagC, cpu.Fetched&0x1 > 0)

	result := cpu.Fetched >> 1
	cpu.write(cpu.AddrAbs, result)

	cpu.A ^= result
	cpu.setNZ(cpu.A)

	return 0x00
}

// RRA - ROR memory, then ADC the result.
func (cpu *Cpu6502) opRRA() byte {
	cpu.fetch()

	carry := cpu.carryBit()
	cpu.setFlag(StatusFlagC, cpu.Fetched&0x1 > 0)

	result := (cpu.Fetched >> 1) | (carry << 7)
	cpu.write(cpu.AddrAbs, result)

	cpu.adc(result)

	return 0x00
}

// DCP - DEC memory, then CMP.
func (cpu *Cpu6502) opDCP() byte {
	cpu.fetch()

	result := cpu.Fetched - 1
	cpu.write(cpu.AddrAbs, result)

	cpu.setFlag(StatusFlagC, cpu.A >= result)
	cpu.setNZ(cpu.A - result)

	return 0x00
}

// ISC - INC memory, then SBC.
func (cpu *Cpu6502) opISC() byte {
	cpu.fetch()

	result := cpu.Fetched + 1
	cpu.write(cpu.AddrAbs, result)

	cpu.sbc(result)

	return 0x00
}

// LAX - LDA and LDX in one go.
func (cpu *Cpu6502) opLAX() byte {
	cpu.fetch()

	cpu.A = cpu.Fetched
	cpu.X = cpu.Fetched
	cpu.setNZ(cpu.A)

	return 0x01
}

// SAX - store A AND X, no flags.
func (cpu *Cpu6502) opSAX() byte {
	cpu.write(cpu.AddrAbs, cpu.A&cpu.X)

	return 0x00
}

// ANC - AND immediate, then copy N into C.
func (cpu *Cpu6502) opANC() byte {
	cpu.fetch()

	cpu.A &= cpu.Fetched
	cpu.setNZ(cpu.A)
	cpu.setFlag(StatusFlagC, cpu.getFlag(StatusFlagN) > 0)

	return 0x00
}

// ALR - AND immediate, then LSR A.
func (cpu *Cpu6502) opALR() byte {
	cpu.fetch()

	cpu.A &= cpu.Fetched

	cpu.setFlag(StatusFlagC, cpu.A&0x1 > 0)
	cpu.A >>= 1
	cpu.setNZ(cpu.A)

	return 0x00
}

// ARR - AND immediate, then ROR A; C and V come from the rotated result.
func (cpu *Cpu6502) opARR() byte {
	cpu.fetch()

	cpu.A &= cpu.Fetched
	cpu.A = (cpu.A >> 1) | (cpu.carryBit() << 7)

	cpu.setNZ(cpu.A)
	cpu.setFlag(StatusFlagC, cpu.A&(1<<6) > 0)
	cpu.setFlag(StatusFlagV, ((cpu.A>>6)^(cpu.A>>5))&0x1 > 0)

	return 0x00
}

// AXS - X = (A AND X) - immediate, with CMP-style flags.
func (cpu *Cpu6502) opAXS() byte {
	cpu.fetch()

	base := cpu.A & cpu.X
	cpu.setFlag(StatusFlagC, base >= cpu.Fetched)

	cpu.X = base - cpu.Fetched
	cpu.setNZ(cpu.X)

	return 0x00
}

// HLT - the jam opcodes wedge the processor for good; running one means the
// guest has gone off the rails, so treat it as fatal.
func (cpu *Cpu6502) opHLT() byte {
	panic(fmt.Sprintf("HLT opcode %#02x executed at $%04X [%s]\n%s",
		cpu.Opcode, cpu.Pc-1, cpu.stateString(),
		cpu.DisassembleWindow(cpu.Pc-1, 2, 2)))
}

// Catch-all for the remaining unstable opcodes (XAA, AHX, TAS, LAS, SHX,
// SHY). Their real behavior depends on analog effects; treat them as NOPs
// and say so once.
func (cpu *Cpu6502) opXXX() byte {
	if !cpu.warnedOpcodes[cpu.Opcode] {
		cpu.warnedOpcodes[cpu.Opcode] = true
		log.Printf("unstable opcode %#02x at $%04X treated as NOP", cpu.Opcode, cpu.Pc)
	}

	return 0x00
}

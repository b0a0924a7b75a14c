package atari

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Build a bare all-RAM machine with a program loaded at the given address
// and the PC pointing at it.
func newTestCpu(program []byte, addr uint16) *FuncTest {
	harness := NewFuncTestFromBytes(program, addr)
	harness.Cpu.Pc = addr

	return harness
}

// Run one instruction to completion, returning how many cycles it took.
func runOneInstruction(h *FuncTest) int {
	ticks := 0
	for {
		h.Cpu.Clock()
		ticks++
		if h.Cpu.Cycles == 0 {
			return ticks
		}
	}
}

////////////////////////////////////////////////////////////////
// ALU

func TestAdcBinary(t *testing.T) {
	h := newTestCpu([]byte{0x69, 0x25}, 0x0200) // ADC #$25
	cpu := h.Cpu
	cpu.A = 0x85
	cpu.setFlag(StatusFlagC, true)

	h.StepInstruction()

	assert.Equal(t, byte(0xAB), cpu.A)
	assert.Zero(t, cpu.getFlag(StatusFlagC))
	assert.NotZero(t, cpu.getFlag(StatusFlagN))
	assert.Zero(t, cpu.getFlag(StatusFlagZ))
	assert.Zero(t, cpu.getFlag(StatusFlagV))
}

func TestAdcBinaryOverflow(t *testing.T) {
	// Two positives summing negative sets V.
	h := newTestCpu([]byte{0x69, 0x50}, 0x0200) // ADC #$50
	cpu := h.Cpu
	cpu.A = 0x50

	h.StepInstruction()

	assert.Equal(t, byte(0xA0), cpu.A)
	assert.NotZero(t, cpu.getFlag(StatusFlagV))
	assert.NotZero(t, cpu.getFlag(StatusFlagN))
	assert.Zero(t, cpu.getFlag(StatusFlagC))
}

func TestAdcDecimal(t *testing.T) {
	h := newTestCpu([]byte{0x69, 0x25}, 0x0200) // ADC #$25
	cpu := h.Cpu
	cpu.A = 0x85
	cpu.setFlag(StatusFlagD, true)
	cpu.setFlag(StatusFlagC, true)

	h.StepInstruction()

	// 85 + 25 + 1 = 111 in BCD: A=0x11 with decimal carry out.
	assert.Equal(t, byte(0x11), cpu.A)
	assert.NotZero(t, cpu.getFlag(StatusFlagC))
	assert.Zero(t, cpu.getFlag(StatusFlagZ))
}

func TestSbcDecimal(t *testing.T) {
	h := newTestCpu([]byte{0xE9, 0x85}, 0x0200) // SBC #$85
	cpu := h.Cpu
	cpu.A = 0x25
	cpu.setFlag(StatusFlagD, true)
	cpu.setFlag(StatusFlagC, false) // borrow in

	h.StepInstruction()

	// 25 - 85 - 1 = 39 with a borrow out.
	assert.Equal(t, byte(0x39), cpu.A)
	assert.Zero(t, cpu.getFlag(StatusFlagC))
}

func TestSbcDecimalBoundary(t *testing.T) {
	h := newTestCpu([]byte{0xE9, 0x75}, 0x0200) // SBC #$75
	cpu := h.Cpu
	cpu.A = 0x75
	cpu.setFlag(StatusFlagD, true)
	cpu.setFlag(StatusFlagC, true)

	h.StepInstruction()

	assert.Equal(t, byte(0x00), cpu.A)
	assert.NotZero(t, cpu.getFlag(StatusFlagZ))
	assert.NotZero(t, cpu.getFlag(StatusFlagC))
}

func TestSbcBinaryCarryChain(t *testing.T) {
	// Carry is NOT-borrow: 0x40 - 0x41 borrows and clears C.
	h := newTestCpu([]byte{0xE9, 0x41}, 0x0200)
	cpu := h.Cpu
	cpu.A = 0x40
	cpu.setFlag(StatusFlagC, true)

	h.StepInstruction()

	assert.Equal(t, byte(0xFF), cpu.A)
	assert.Zero(t, cpu.getFlag(StatusFlagC))
	assert.NotZero(t, cpu.getFlag(StatusFlagN))
}

func TestLdaImmediate(t *testing.T) {
	h := newTestCpu([]byte{0xA9, 0xFF}, 0x0200) // LDA #$FF
	cpu := h.Cpu

	h.StepInstruction()

	assert.Equal(t, byte(0xFF), cpu.A)
	assert.NotZero(t, cpu.getFlag(StatusFlagN))
	assert.Zero(t, cpu.getFlag(StatusFlagZ))
}

func TestCompareSetsCarryAndZero(t *testing.T) {
	tests := []struct {
		a, m    byte
		c, z, n bool
	}{
		{0x40, 0x40, true, true, false},
		{0x41, 0x40, true, false, false},
		{0x3F, 0x40, false, false, true},
	}

	for _, tt := range tests {
		h := newTestCpu([]byte{0xC9, tt.m}, 0x0200) // CMP #m
		cpu := h.Cpu
		cpu.A = tt.a

		h.StepInstruction()

		assert.Equal(t, tt.c, cpu.getFlag(StatusFlagC) != 0, "C for %#02x cmp %#02x", tt.a, tt.m)
		assert.Equal(t, tt.z, cpu.getFlag(StatusFlagZ) != 0, "Z for %#02x cmp %#02x", tt.a, tt.m)
		assert.Equal(t, tt.n, cpu.getFlag(StatusFlagN) != 0, "N for %#02x cmp %#02x", tt.a, tt.m)
	}
}

func TestBitFlags(t *testing.T) {
	h := newTestCpu([]byte{0x24, 0x10}, 0x0200) // BIT $10
	cpu := h.Cpu
	h.Mem.Ram[0x10] = 0xC0 // bits 7 and 6 set
	cpu.A = 0x0F

	h.StepInstruction()

	assert.NotZero(t, cpu.getFlag(StatusFlagN))
	assert.NotZero(t, cpu.getFlag(StatusFlagV))
	assert.NotZero(t, cpu.getFlag(StatusFlagZ)) // A & M == 0
}

func TestRolRotatesThroughCarry(t *testing.T) {
	h := newTestCpu([]byte{0x2A}, 0x0200) // ROL A
	cpu := h.Cpu
	cpu.A = 0x80
	cpu.setFlag(StatusFlagC, true)

	h.StepInstruction()

	assert.Equal(t, byte(0x01), cpu.A)
	assert.NotZero(t, cpu.getFlag(StatusFlagC))
}

func TestAslMemorySetsNZFromResult(t *testing.T) {
	h := newTestCpu([]byte{0x06, 0x10}, 0x0200) // ASL $10
	cpu := h.Cpu
	h.Mem.Ram[0x10] = 0x40

	h.StepInstruction()

	assert.Equal(t, byte(0x80), h.Mem.Ram[0x10])
	assert.NotZero(t, cpu.getFlag(StatusFlagN))
	assert.Zero(t, cpu.getFlag(StatusFlagC))
	assert.Zero(t, cpu.getFlag(StatusFlagZ))
}

////////////////////////////////////////////////////////////////
// Control flow and stack

func TestJsrRtsRoundTrip(t *testing.T) {
	// JSR $0310 / (BRK) / ... and RTS at $0310.
	h := newTestCpu([]byte{0x20, 0x10, 0x03, 0x00, 0x60}, 0x0200)
	cpu := h.Cpu
	h.Mem.Ram[0x0310] = 0x60 // RTS
	require.Equal(t, byte(0xFD), cpu.Sp)

	h.StepInstruction() // JSR
	assert.Equal(t, uint16(0x0310), cpu.Pc)

	h.StepInstruction() // RTS
	assert.Equal(t, uint16(0x0203), cpu.Pc)
	assert.Equal(t, byte(0xFD), cpu.Sp)
}

func TestPhpPlpRoundTrip(t *testing.T) {
	h := newTestCpu([]byte{0x08, 0x28}, 0x0200) // PHP / PLP
	cpu := h.Cpu
	cpu.Status = byte(StatusFlagN) | byte(StatusFlagD) | byte(StatusFlagC)

	h.StepInstruction()

	// The pushed copy has B and the reserved bit forced on.
	pushed := h.Mem.Ram[0x01FD]
	assert.NotZero(t, pushed&byte(StatusFlagB))
	assert.NotZero(t, pushed&byte(StatusFlagX))

	cpu.Status = 0
	h.StepInstruction()

	assert.NotZero(t, cpu.getFlag(StatusFlagN))
	assert.NotZero(t, cpu.getFlag(StatusFlagD))
	assert.NotZero(t, cpu.getFlag(StatusFlagC))
	assert.Zero(t, cpu.getFlag(StatusFlagB)) // B ignored on pop
}

func TestPhaPlaRoundTrip(t *testing.T) {
	h := newTestCpu([]byte{0x48, 0xA9, 0x00, 0x68}, 0x0200) // PHA / LDA #0 / PLA
	cpu := h.Cpu
	cpu.A = 0x5A

	h.StepInstruction()
	h.StepInstruction()
	require.Equal(t, byte(0x00), cpu.A)

	h.StepInstruction()
	assert.Equal(t, byte(0x5A), cpu.A)
	assert.Equal(t, byte(0xFD), cpu.Sp)
}

func TestJmpIndirectPageBug(t *testing.T) {
	// Pointer at $02FF: the high byte comes from $0200, not $0300.
	h := newTestCpu([]byte{0x6C, 0xFF, 0x02}, 0x0400) // JMP ($02FF)
	h.Mem.Ram[0x02FF] = 0x34
	h.Mem.Ram[0x0300] = 0x12 // would be used by a correct fetch
	h.Mem.Ram[0x0200] = 0x80 // used by the 6502's wrapped fetch

	h.StepInstruction()

	assert.Equal(t, uint16(0x8034), h.Cpu.Pc)
}

func TestBranchCycleCosts(t *testing.T) {
	// Untaken branch: base 2 cycles.
	h := newTestCpu([]byte{0xD0, 0x10}, 0x0200) // BNE +16
	h.Cpu.setFlag(StatusFlagZ, true)
	assert.Equal(t, 2, runOneInstruction(h))

	// Taken branch in page: +1.
	h = newTestCpu([]byte{0xD0, 0x10}, 0x0200)
	h.Cpu.setFlag(StatusFlagZ, false)
	assert.Equal(t, 3, runOneInstruction(h))
	assert.Equal(t, uint16(0x0212), h.Cpu.Pc)

	// Taken branch across a page: +2.
	h = newTestCpu([]byte{0xD0, 0x7F}, 0x02F0)
	h.Cpu.setFlag(StatusFlagZ, false)
	assert.Equal(t, 4, runOneInstruction(h))
	assert.Equal(t, uint16(0x0371), h.Cpu.Pc)
}

func TestLoadPageCrossPenalty(t *testing.T) {
	// LDA $12FF,X with X=1 crosses into $1300: 4+1 cycles.
	h := newTestCpu([]byte{0xBD, 0xFF, 0x12}, 0x0200)
	h.Cpu.X = 0x01
	assert.Equal(t, 5, runOneInstruction(h))

	// Same access without the cross: 4 cycles.
	h = newTestCpu([]byte{0xBD, 0x00, 0x12}, 0x0200)
	h.Cpu.X = 0x01
	assert.Equal(t, 4, runOneInstruction(h))
}

func TestStorePageCrossHasNoPenalty(t *testing.T) {
	// STA $12FF,X always costs 5, page cross or not.
	h := newTestCpu([]byte{0x9D, 0xFF, 0x12}, 0x0200)
	h.Cpu.X = 0x01
	assert.Equal(t, 5, runOneInstruction(h))
}

func TestZeroPageIndexedWraps(t *testing.T) {
	// LDA $FF,X with X=2 reads $01, not $101.
	h := newTestCpu([]byte{0xB5, 0xFF}, 0x0200)
	h.Cpu.X = 0x02
	h.Mem.Ram[0x01] = 0x42
	h.Mem.Ram[0x101] = 0x99

	h.StepInstruction()

	assert.Equal(t, byte(0x42), h.Cpu.A)
}

func TestIndirectIndexedZeroPageWrap(t *testing.T) {
	// (IZY) pointer at $FF wraps its high byte to $00.
	h := newTestCpu([]byte{0xB1, 0xFF}, 0x0200) // LDA ($FF),Y
	h.Mem.Ram[0xFF] = 0x00
	h.Mem.Ram[0x00] = 0x30
	h.Cpu.Y = 0x05
	h.Mem.Ram[0x3005] = 0x77

	h.StepInstruction()

	assert.Equal(t, byte(0x77), h.Cpu.A)
}

////////////////////////////////////////////////////////////////
// Interrupts

func TestResetLoadsVector(t *testing.T) {
	h := newTestCpu(nil, 0x0000)
	h.Mem.Ram[0xFFFC] = 0x34
	h.Mem.Ram[0xFFFD] = 0x12

	h.Cpu.Reset()

	assert.Equal(t, uint16(0x1234), h.Cpu.Pc)
	assert.Equal(t, byte(0xFD), h.Cpu.Sp)
	assert.NotZero(t, h.Cpu.getFlag(StatusFlagI))
	assert.Zero(t, h.Cpu.getFlag(StatusFlagD))
}

func TestNmiEntry(t *testing.T) {
	h := newTestCpu([]byte{0xEA, 0xEA}, 0x0200) // NOPs
	h.Mem.Ram[0xFFFA] = 0x00
	h.Mem.Ram[0xFFFB] = 0x80
	cpu := h.Cpu
	cpu.setFlag(StatusFlagI, true) // NMI ignores I

	cpu.NMI()
	h.StepInstruction() // services the interrupt instead of the NOP

	assert.Equal(t, uint16(0x8000), cpu.Pc)

	// Pushed status has B clear; pushed PC is the interrupted address.
	status := h.Mem.Ram[0x01FB]
	assert.Zero(t, status&byte(StatusFlagB))
	assert.Equal(t, byte(0x02), h.Mem.Ram[0x01FD]) // PC high
	assert.Equal(t, byte(0x00), h.Mem.Ram[0x01FC]) // PC low
}

func TestIrqMaskedByIFlag(t *testing.T) {
	h := newTestCpu([]byte{0xEA, 0xEA}, 0x0200)
	h.Mem.Ram[0xFFFE] = 0x00
	h.Mem.Ram[0xFFFF] = 0x90
	cpu := h.Cpu

	cpu.setFlag(StatusFlagI, true)
	cpu.SetIRQ(true)
	h.StepInstruction()
	assert.Equal(t, uint16(0x0201), cpu.Pc) // NOP ran, IRQ held off

	cpu.setFlag(StatusFlagI, false)
	h.StepInstruction()
	assert.Equal(t, uint16(0x9000), cpu.Pc) // IRQ serviced at the boundary
}

func TestBrkRtiRoundTrip(t *testing.T) {
	h := newTestCpu([]byte{0x00, 0xFF, 0xEA}, 0x0200) // BRK + signature byte
	h.Mem.Ram[0xFFFE] = 0x00
	h.Mem.Ram[0xFFFF] = 0x80
	h.Mem.Ram[0x8000] = 0x40 // RTI
	cpu := h.Cpu

	h.StepInstruction() // BRK
	assert.Equal(t, uint16(0x8000), cpu.Pc)

	// The pushed status from BRK has B set.
	assert.NotZero(t, h.Mem.Ram[0x01FB]&byte(StatusFlagB))

	h.StepInstruction() // RTI
	// BRK pushes PC+1, skipping the signature byte.
	assert.Equal(t, uint16(0x0202), cpu.Pc)
}

////////////////////////////////////////////////////////////////
// Documented-illegal opcodes

func TestIllegalLax(t *testing.T) {
	h := newTestCpu([]byte{0xA7, 0x10}, 0x0200) // LAX $10
	h.Mem.Ram[0x10] = 0x8F

	h.StepInstruction()

	assert.Equal(t, byte(0x8F), h.Cpu.A)
	assert.Equal(t, byte(0x8F), h.Cpu.X)
	assert.NotZero(t, h.Cpu.getFlag(StatusFlagN))
}

func TestIllegalSax(t *testing.T) {
	h := newTestCpu([]byte{0x87, 0x10}, 0x0200) // SAX $10
	h.Cpu.A = 0xF0
	h.Cpu.X = 0x3C
	flags := h.Cpu.Status

	h.StepInstruction()

	assert.Equal(t, byte(0x30), h.Mem.Ram[0x10])
	assert.Equal(t, flags, h.Cpu.Status) // no flag effects
}

func TestIllegalDcp(t *testing.T) {
	h := newTestCpu([]byte{0xC7, 0x10}, 0x0200) // DCP $10
	h.Mem.Ram[0x10] = 0x41
	h.Cpu.A = 0x40

	h.StepInstruction()

	assert.Equal(t, byte(0x40), h.Mem.Ram[0x10]) // decremented
	assert.NotZero(t, h.Cpu.getFlag(StatusFlagZ))
	assert.NotZero(t, h.Cpu.getFlag(StatusFlagC)) // A >= M
}

func TestIllegalIsc(t *testing.T) {
	h := newTestCpu([]byte{0xE7, 0x10}, 0x0200) // ISC $10
	h.Mem.Ram[0x10] = 0x0F
	h.Cpu.A = 0x20
	h.Cpu.setFlag(StatusFlagC, true)

	h.StepInstruction()

	assert.Equal(t, byte(0x10), h.Mem.Ram[0x10]) // incremented
	assert.Equal(t, byte(0x10), h.Cpu.A)         // 0x20 - 0x10
	assert.NotZero(t, h.Cpu.getFlag(StatusFlagC))
}

func TestIllegalSlo(t *testing.T) {
	h := newTestCpu([]byte{0x07, 0x10}, 0x0200) // SLO $10
	h.Mem.Ram[0x10] = 0x81
	h.Cpu.A = 0x01

	h.StepInstruction()

	assert.Equal(t, byte(0x02), h.Mem.Ram[0x10]) // shifted left
	assert.Equal(t, byte(0x03), h.Cpu.A)         // ORed in
	assert.NotZero(t, h.Cpu.getFlag(StatusFlagC))
}

func TestIllegalRra(t *testing.T) {
	h := newTestCpu([]byte{0x67, 0x10}, 0x0200) // RRA $10
	h.Mem.Ram[0x10] = 0x02
	h.Cpu.A = 0x10

	h.StepInstruction()

	// ROR 0x02 -> 0x01 with C=0, then ADC: A = 0x10 + 0x01.
	assert.Equal(t, byte(0x01), h.Mem.Ram[0x10])
	assert.Equal(t, byte(0x11), h.Cpu.A)
}

func TestIllegalAnc(t *testing.T) {
	h := newTestCpu([]byte{0x0B, 0x80}, 0x0200) // ANC #$80
	h.Cpu.A = 0xFF

	h.StepInstruction()

	assert.Equal(t, byte(0x80), h.Cpu.A)
	assert.NotZero(t, h.Cpu.getFlag(StatusFlagN))
	assert.NotZero(t, h.Cpu.getFlag(StatusFlagC)) // C mirrors N
}

func TestIllegalAxs(t *testing.T) {
	h := newTestCpu([]byte{0xCB, 0x02}, 0x0200) // AXS #$02
	h.Cpu.A = 0x0F
	h.Cpu.X = 0x03

	h.StepInstruction()

	// X = (A & X) - 2 = 0x03 - 0x02.
	assert.Equal(t, byte(0x01), h.Cpu.X)
	assert.NotZero(t, h.Cpu.getFlag(StatusFlagC))
}

func TestAliasedSbcImmediate(t *testing.T) {
	// 0xEB behaves exactly like the official SBC immediate.
	h := newTestCpu([]byte{0xEB, 0x01}, 0x0200)
	h.Cpu.A = 0x03
	h.Cpu.setFlag(StatusFlagC, true)

	h.StepInstruction()

	assert.Equal(t, byte(0x02), h.Cpu.A)
	assert.NotZero(t, h.Cpu.getFlag(StatusFlagC))
}

func TestHltIsFatal(t *testing.T) {
	h := newTestCpu([]byte{0x02}, 0x0200)

	assert.Panics(t, func() {
		h.StepInstruction()
	})
}

////////////////////////////////////////////////////////////////
// Cycle pacing

func TestBaseCycleCosts(t *testing.T) {
	tests := []struct {
		name    string
		program []byte
		cycles  int
	}{
		{"LDA imm", []byte{0xA9, 0x01}, 2},
		{"LDA zp", []byte{0xA5, 0x10}, 3},
		{"LDA abs", []byte{0xAD, 0x00, 0x30}, 4},
		{"STA izx", []byte{0x81, 0x10}, 6},
		{"INC abs", []byte{0xEE, 0x00, 0x30}, 6},
		{"JMP abs", []byte{0x4C, 0x00, 0x03}, 3},
		{"JSR abs", []byte{0x20, 0x00, 0x03}, 6},
		{"PHA", []byte{0x48}, 3},
		{"PLA", []byte{0x68}, 4},
		{"SLO izx", []byte{0x03, 0x10}, 8},
		{"NOP zp", []byte{0x04, 0x10}, 3},
	}

	for _, tt := range tests {
		h := newTestCpu(tt.program, 0x0200)
		assert.Equal(t, tt.cycles, runOneInstruction(h), tt.name)
	}
}

func TestNZInvariant(t *testing.T) {
	// After any load, N mirrors bit 7 and Z mirrors equality with zero.
	for _, val := range []byte{0x00, 0x01, 0x7F, 0x80, 0xFF} {
		h := newTestCpu([]byte{0xA9, val}, 0x0200)

		h.StepInstruction()

		assert.Equal(t, val&0x80 != 0, h.Cpu.getFlag(StatusFlagN) != 0, "N for %#02x", val)
		assert.Equal(t, val == 0, h.Cpu.getFlag(StatusFlagZ) != 0, "Z for %#02x", val)
	}
}

package atari

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrapDetection(t *testing.T) {
	// JMP $0400 at $0400: the suite's failure marker.
	harness := NewFuncTestFromBytes([]byte{0x4C, 0x00, 0x04}, funcTestEntry)

	assert.True(t, harness.isTrap())
	assert.False(t, harness.Run())
}

func TestTrapRequiresSelfJump(t *testing.T) {
	// A JMP somewhere else is not a trap.
	harness := NewFuncTestFromBytes([]byte{0x4C, 0x00, 0x05}, funcTestEntry)

	assert.False(t, harness.isTrap())
}

func TestTrapRequiresJmpOpcode(t *testing.T) {
	// A BNE-to-self spin is not the marker the suite uses.
	harness := NewFuncTestFromBytes([]byte{0xD0, 0xFE}, funcTestEntry)

	assert.False(t, harness.isTrap())
}

func TestSuccessAddressWins(t *testing.T) {
	// Jump straight to the success address, which itself holds a
	// JMP-to-self; success must be detected before trap.
	harness := NewFuncTestFromBytes([]byte{0x4C, 0x69, 0x34}, funcTestEntry)
	harness.Mem.LoadRamBytes([]byte{0x4C, 0x69, 0x34}, funcTestSuccess)

	assert.True(t, harness.Run())
}

func TestHarnessBusIsAllRam(t *testing.T) {
	harness := NewFuncTestFromBytes(nil, 0)

	// The ROM window addresses are plain RAM here.
	harness.Write(0xFFFC, 0xAB)
	assert.Equal(t, byte(0xAB), harness.Read(0xFFFC))
}

func TestStepInstructionRunsOneInstruction(t *testing.T) {
	harness := NewFuncTestFromBytes([]byte{0xA9, 0x07, 0xEA}, funcTestEntry)
	require.Equal(t, funcTestEntry, harness.Cpu.Pc)

	harness.StepInstruction()

	assert.Equal(t, byte(0x07), harness.Cpu.A)
	assert.Equal(t, funcTestEntry+2, harness.Cpu.Pc)
}

func TestRunSmallProgramToSuccess(t *testing.T) {
	// A tiny program that does some arithmetic and then parks at the
	// success address.
	program := []byte{
		0x18,             // CLC
		0xA9, 0x10,       // LDA #$10
		0x69, 0x05,       // ADC #$05
		0x8D, 0x00, 0x02, // STA $0200
		0x4C, 0x69, 0x34, // JMP $3469
	}
	harness := NewFuncTestFromBytes(program, funcTestEntry)
	harness.Mem.LoadRamBytes([]byte{0x4C, 0x69, 0x34}, funcTestSuccess)

	assert.True(t, harness.Run())
	assert.Equal(t, byte(0x15), harness.Mem.Ram[0x0200])
}

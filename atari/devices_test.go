package atari

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

////////////////////////////////////////////////////////////////
// POKEY

func TestPokeyRegisterLatching(t *testing.T) {
	pokey := NewPokey()

	pokey.CpuWrite(0xD200, 0x42) // AUDF1
	pokey.CpuWrite(0xD201, 0xA8) // AUDC1

	assert.Equal(t, byte(0x42), pokey.audf[0])
	assert.Equal(t, byte(0xA8), pokey.audc[0])

	pokey.CpuWrite(0xD206, 0x10) // AUDF4
	assert.Equal(t, byte(0x10), pokey.audf[3])
}

func TestPokeyStimerReloadsTimers(t *testing.T) {
	pokey := NewPokey()
	pokey.CpuWrite(0xD200, 0x05)
	pokey.CpuWrite(0xD206, 0x09)

	pokey.CpuWrite(0xD209, 0x00) // STIMER

	assert.Equal(t, uint16(0x05), pokey.timers[0])
	assert.Equal(t, uint16(0x09), pokey.timers[3])
}

func TestPokeyTimerIrqLatch(t *testing.T) {
	pokey := NewPokey()
	pokey.CpuWrite(0xD200, 0x02) // AUDF1
	pokey.CpuWrite(0xD20E, 0x01) // IRQEN: timer 1
	pokey.CpuWrite(0xD209, 0x00) // STIMER

	assert.False(t, pokey.IrqAsserted())

	// Drain the timer; expiry pulls the IRQST bit low.
	for i := 0; i < 4; i++ {
		pokey.Clock()
	}

	assert.True(t, pokey.IrqAsserted())
	assert.Zero(t, pokey.CpuRead(0xD20E)&0x01)

	// Disabling the interrupt clears its pending status.
	pokey.CpuWrite(0xD20E, 0x00)
	assert.False(t, pokey.IrqAsserted())
}

func TestPokeyRandomAdvances(t *testing.T) {
	pokey := NewPokey()

	seen := make(map[byte]bool)
	for i := 0; i < 32; i++ {
		seen[pokey.CpuRead(0xD20A)] = true
		pokey.Clock()
	}

	// An LFSR must not be stuck on one value.
	assert.Greater(t, len(seen), 1)
}

func TestPokeyWindowDecodesLowNibble(t *testing.T) {
	pokey := NewPokey()
	pokey.kbcode = 0x3F

	assert.Equal(t, byte(0x3F), pokey.CpuRead(0xD209))
	assert.Equal(t, byte(0x3F), pokey.CpuRead(0xD2F9))
}

////////////////////////////////////////////////////////////////
// PIA

func TestPiaPortDirectionMixing(t *testing.T) {
	pia := NewPia()

	// Low nibble output, high nibble input.
	pia.CpuWrite(0xD301, 0x0F) // DDRA
	pia.CpuWrite(0xD300, 0x05) // PORTA latch
	pia.SetPortAInput(0xA0)

	// Output bits read the latch, input bits read the pins.
	assert.Equal(t, byte(0xA5), pia.CpuRead(0xD300))
}

func TestPiaPortBIndependent(t *testing.T) {
	pia := NewPia()

	pia.CpuWrite(0xD303, 0xFF) // DDRB all output
	pia.CpuWrite(0xD302, 0x3C)
	pia.SetPortBInput(0x00) // pins ignored when all-output

	assert.Equal(t, byte(0x3C), pia.CpuRead(0xD302))
	assert.Equal(t, byte(0xFF), pia.CpuRead(0xD303))
}

func TestPiaWindowDecodesLowTwoBits(t *testing.T) {
	pia := NewPia()
	pia.CpuWrite(0xD301, 0x55)

	assert.Equal(t, byte(0x55), pia.CpuRead(0xD301))
	assert.Equal(t, byte(0x55), pia.CpuRead(0xD3FD)) // mirror
}

func TestPiaJoystickInput(t *testing.T) {
	pia := NewPia()

	// All-input port: stick held up pulls bit 0 low.
	pia.SetPortAInput(0xF0 | (0x0F &^ stickUp))

	assert.Equal(t, byte(0xFE), pia.CpuRead(0xD300))
}

package atari

import (
	"fmt"
	"log"
	"os"
)

// System memory: a 64KB RAM plane and a 64KB ROM plane sharing one 16-bit
// address space. The split address selects which plane services a read:
// addresses at or above the split come from ROM. A split of zero means the
// machine is all RAM (used by the functional test harness).
type Mem struct {
	Ram [64 * 1024]byte
	Rom [64 * 1024]byte

	split uint16
}

const (
	// OS ROM image gets loaded at 0xD800-0xFFFF.
	osRomBase uint16 = 0xD800
	osRomSize int    = 10 * 1024
)

func NewMem(split uint16) *Mem {
	return &Mem{split: split}
}

// Load an OS ROM image into the ROM plane at 0xD800. The image must be
// exactly 10KB; anything else means a bad file was given to us.
func (m *Mem) LoadOsRom(filepath string) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		log.Fatalf("Unable to open %v\n%v\n", filepath, err)
	}

	if len(data) != osRomSize {
		log.Fatalf("Bad OS ROM image %v: got %v bytes, want %v\n",
			filepath, len(data), osRomSize)
	}

	m.LoadRomBytes(data, osRomBase)
}

// Load a 64KB functional test image into the RAM plane.
func (m *Mem) LoadFunctionalTest(filepath string) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		log.Fatalf("Unable to open %v\n%v\n", filepath, err)
	}

	if len(data) != len(m.Ram) {
		log.Fatalf("Bad test image %v: got %v bytes, want %v\n",
			filepath, len(data), len(m.Ram))
	}

	m.LoadRamBytes(data, 0x0000)
}

// Load a slice of bytes into the RAM plane at the given offset.
func (m *Mem) LoadRamBytes(data []byte, offset uint16) {
	for i, bte := range data {
		m.Ram[int(offset)+i] = bte
	}
}

// Load a slice of bytes into the ROM plane at the given offset.
func (m *Mem) LoadRomBytes(data []byte, offset uint16) {
	for i, bte := range data {
		m.Rom[int(offset)+i] = bte
	}
}

// GetByte reads from the plane selected by the split address.
func (m *Mem) GetByte(addr uint16) byte {
	if m.split == 0 || addr < m.split {
		return m.Ram[addr]
	}
	return m.Rom[addr]
}

// SetByte writes to RAM. Writing the ROM window is a bug in either the guest
// or the emulator, so fail loudly rather than latching the value.
func (m *Mem) SetByte(addr uint16, data byte) {
	if m.split != 0 && addr >= m.split {
		panic(fmt.Sprintf("write to ROM address $%04X (data %#02x)", addr, data))
	}
	m.Ram[addr] = data
}

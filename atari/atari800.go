package atari

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"time"
)

// Atari800 is the machine: it owns every chip, routes the shared address
// bus, and drives the whole assembly forward one cycle at a time.
type Atari800 struct {
	Cpu   *Cpu6502
	Mem   *Mem
	Antic *Antic
	Gtia  *Gtia
	Pokey *Pokey
	Pia   *Pia

	Disp  *Display
	Input *Input

	ClockCount int

	isDebug   bool // Enable debug panel
	isLogging bool // Enable CPU trace logging
}

// Memory-mapped device windows. Each chip decodes its own sub-address.
const (
	gtiaMinAddr  uint16 = 0xD000
	gtiaMaxAddr  uint16 = 0xD0FF
	pokeyMinAddr uint16 = 0xD200
	pokeyMaxAddr uint16 = 0xD2FF
	piaMinAddr   uint16 = 0xD300
	piaMaxAddr   uint16 = 0xD3FF
	anticMinAddr uint16 = 0xD400
	anticMaxAddr uint16 = 0xD4FF

	// Everything from here up (minus the device windows below it) is OS ROM.
	romSplit uint16 = 0xD800

	// Frames per second
	fps float64 = 60.0
)

func NewAtari800(isDebug, isLogging bool) *Atari800 {
	cpu := NewCpu6502()

	machine := &Atari800{
		Cpu:       cpu,
		Mem:       NewMem(romSplit),
		Antic:     NewAntic(),
		Gtia:      NewGtia(),
		Pokey:     NewPokey(),
		Pia:       NewPia(),
		Input:     NewInput(),
		isDebug:   isDebug,
		isLogging: isLogging,
	}

	// ANTIC fetches display lists and screen data on its own bus port.
	machine.Antic.ConnectMem(machine.Mem)

	// Connect this machine's address bus to the cpu.
	cpu.ConnectBus(machine)

	if isLogging {
		cpu.Logger = newTraceLogger()
	}

	return machine
}

func newTraceLogger() *log.Logger {
	now := time.Now()
	logFile := fmt.Sprintf("./logs/cpu%s.log", now.Format("20060102-150405"))
	f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE, 0664)
	if err != nil {
		log.Fatal("Unable to create CPU log file...\n", err)
	}

	return log.New(f, "", 0)
}

// Read services a CPU read at the specified address.
func (a *Atari800) Read(addr uint16) byte {
	var data byte

	if addr >= gtiaMinAddr && addr <= gtiaMaxAddr {
		data = a.Gtia.CpuRead(addr)
	} else if addr >= pokeyMinAddr && addr <= pokeyMaxAddr {
		data = a.Pokey.CpuRead(addr)
	} else if addr >= piaMinAddr && addr <= piaMaxAddr {
		data = a.Pia.CpuRead(addr)
	} else if addr >= anticMinAddr && addr <= anticMaxAddr {
		data = a.Antic.CpuRead(addr)
	} else {
		data = a.Mem.GetByte(addr)
	}

	return data
}

// Write services a CPU write at the specified address.
func (a *Atari800) Write(addr uint16, data byte) {
	if addr >= gtiaMinAddr && addr <= gtiaMaxAddr {
		a.Gtia.CpuWrite(addr, data)
	} else if addr >= pokeyMinAddr && addr <= pokeyMaxAddr {
		a.Pokey.CpuWrite(addr, data)
	} else if addr >= piaMinAddr && addr <= piaMaxAddr {
		a.Pia.CpuWrite(addr, data)
	} else if addr >= anticMinAddr && addr <= anticMaxAddr {
		a.Antic.CpuWrite(addr, data)
	} else if addr >= romSplit {
		panic(fmt.Sprintf("write to ROM address $%04X (data %#02x)\n%s\n%s",
			addr, data, a.Cpu.stateString(),
			a.Cpu.DisassembleWindow(a.Cpu.Pc, 2, 2)))
	} else {
		a.Mem.SetByte(addr, data)
	}
}

// ReadWord reads a little-endian word as two successive byte reads, the
// second at addr+1 with wrapping.
func ReadWord(b Bus, addr uint16) uint16 {
	lo := b.Read(addr)
	hi := b.Read(addr + 1)

	return (uint16(hi) << 8) | uint16(lo)
}

// WriteWord writes a little-endian word as two successive byte writes.
func WriteWord(b Bus, addr uint16, val uint16) {
	b.Write(addr, byte(val))
	b.Write(addr+1, byte(val>>8))
}

// Load an OS ROM image into the machine.
func (a *Atari800) LoadOsRom(filepath string) {
	a.Mem.LoadOsRom(filepath)
}

// Reset the machine.
func (a *Atari800) Reset() {
	a.Cpu.Reset()

	a.ClockCount = 0
}

// Clock advances the machine by one cycle. ANTIC goes first: it may raise
// NMI or halt the CPU for this cycle, and a scanline it finishes is handed
// to GTIA before the CPU runs again.
func (a *Atari800) Clock() {
	a.Antic.Clock()

	if a.Antic.ScanlineReady {
		a.Antic.ScanlineReady = false
		a.Gtia.RenderScanline(a.Antic.Scanline(), &a.Antic.ScanlineBuffer)
	}

	if a.Antic.Nmi {
		a.Antic.Nmi = false
		a.Cpu.NMI()
	}

	if !a.Antic.Stalled() {
		a.Cpu.Clock()
	}

	a.Pokey.Clock()
	a.Pia.Clock()
	a.Cpu.SetIRQ(a.Pokey.IrqAsserted())

	a.ClockCount++
}

// RenderFrame rasterizes one whole frame through ANTIC and GTIA without
// running the CPU, used when driving output rather than free-running.
func (a *Atari800) RenderFrame() {
	a.Gtia.ClearFrame()
	a.Antic.resetDlist()

	for y := 0; y < visibleScanlines; y++ {
		a.Antic.ProcessScanline()
		a.Gtia.RenderScanline(y, &a.Antic.ScanlineBuffer)
	}
}

// Run the machine with a display window attached.
func (a *Atari800) Run() {
	// Create a PixelGL display for GTIA's framebuffer to render to.
	display := NewDisplay(a.isDebug)
	a.Disp = display

	intervalInMilli := (1 / fps) * 1000
	interval := time.Duration(intervalInMilli) * time.Millisecond
	fmt.Println("Frame refresh time:", interval)

	// Use a timer to keep frames rendered steadily at a set FPS.
	var t time.Time
	for !display.window.Closed() {
		// Run 1 whole frame.
		t = time.Now()
		for !a.Antic.FrameComplete {
			a.Clock()
		}

		a.Input.Poll(display.window, a.Pia, a.Gtia)

		display.DrawFrame(a.Gtia.Framebuffer)

		if a.isDebug {
			a.DrawDebugPanel()
		}

		display.UpdateScreen()

		time.Sleep(interval - time.Since(t))

		// Prepare for new frame
		a.Antic.FrameComplete = false
	}
}

func (a *Atari800) DrawDebugPanel() {
	a.Disp.WriteRegDebugString(a.getCpuDebugString())

	// Disassembly
	diss := a.getDisassemblyLines()
	a.Disp.WriteInstDebugString(diss)
}

func (a *Atari800) getDisassemblyLines() string {
	var buf bytes.Buffer

	diss := a.Cpu.Disassemble(a.Cpu.Pc, a.Cpu.Pc+0x30)

	idx := a.Cpu.Pc
	for i := 0; i < 10; i++ {
		next, err := getNextIdx(diss, idx)
		if err != nil {
			// End of the map
			break
		}
		buf.WriteString(diss[next])
		buf.WriteByte('\n')
		idx = next + 1
	}

	return buf.String()
}

// Items are stored by memory address, not all memory address are filled. This
// function returns the next item at or after the given memory address.
func getNextIdx(m map[uint16]string, addr uint16) (uint16, error) {
	for _, ok := m[addr]; !ok; _, ok = m[addr] {
		if addr >= 0xFFFF {
			return 0, errors.New("end of map")
		}
		addr++
	}

	return addr, nil
}

func (a *Atari800) getCpuDebugString() string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Flags: %08b\n", a.Cpu.Status))
	buf.WriteString(fmt.Sprintf("PC: %#04X\n", a.Cpu.Pc))
	buf.WriteString(fmt.Sprintf("A: %#02X\n", a.Cpu.A))
	buf.WriteString(fmt.Sprintf("X: %#02X\n", a.Cpu.X))
	buf.WriteString(fmt.Sprintf("Y: %#02X\n", a.Cpu.Y))
	buf.WriteString(fmt.Sprintf("SP: %#02X\n\n", a.Cpu.Sp))

	// Cycles
	buf.WriteString(fmt.Sprintf("Cycle Count: %d\n\n", a.Cpu.CycleCount))

	// Raster position
	buf.WriteString(fmt.Sprintf("Scanline: %d\nVCOUNT: %#02X\n\n",
		a.Antic.Scanline(), a.Antic.VCount()))

	// Previous instruction
	buf.WriteString(fmt.Sprintf("Previous Instruction:\n%s\n", a.Cpu.OpDiss))

	return buf.String()
}

package atari

// ANTIC - Alphanumeric Television Interface Controller.
// A little DMA machine that walks a display list in memory and turns screen
// RAM into color indices, one scanline at a time. It ticks once per CPU
// cycle, steals the bus while it fetches, and raises the vertical blank and
// display list NMIs.
//
// Memory map: $D400-$D4FF, low nibble decodes.
// References:
// https://www.atariarchives.org/mapping/memorymap.php#54272
type Antic struct {
	mem *Mem // ANTIC has its own DMA port into memory

	// Display list state.
	dlistBase    uint16 // latched from DLISTL/DLISTH
	dlistCursor  uint16 // next instruction byte to fetch
	screenCursor uint16 // next screen data byte to fetch

	currentInstr   byte // instruction byte for the active row
	currentMode    byte // low nibble of currentInstr
	modeLine       byte // scanline within the current row (0-7 for mode 2)
	linesRemaining byte // scanlines left in the current row

	// Raster counters. One tick is one CPU cycle, which is two color clocks.
	colorClock int // 0-227
	scanline   int // 0-261

	dmaEnabled bool

	// Registers.
	dmactl byte
	chactl byte
	hscrol byte
	vscrol byte
	pmbase byte
	chbase byte
	nmien  byte
	nmist  byte
	penh   byte
	penv   byte

	// CPU halt line, set by a WSYNC write, released at the next hsync.
	wsyncHalt bool

	// One-cycle halt while the scanline DMA burst owns the bus.
	dmaBurst bool

	// NMI line to the CPU, consumed by the bus between ticks.
	Nmi bool

	// Set when a visible scanline has just been rasterized into
	// ScanlineBuffer; consumed by the bus, which hands the buffer to GTIA.
	ScanlineReady bool

	// Set at the frame boundary (scanline wrap 261 -> 0).
	FrameComplete bool

	// Color indices (0-3) for the scanline being displayed. 320 visible
	// pixels; the rest is overscan.
	ScanlineBuffer [384]byte
}

const (
	colorClocksPerLine = 228
	scanlinesPerFrame  = 262
	visibleScanlines   = 192
	vblankScanline     = 248
)

func NewAntic() *Antic {
	return &Antic{}
}

// Connect ANTIC's DMA port to system memory.
func (a *Antic) ConnectMem(m *Mem) { a.mem = m }

// Clock advances ANTIC by one machine cycle (two color clocks).
func (a *Antic) Clock() {
	a.dmaBurst = false
	a.colorClock += 2

	if a.colorClock >= colorClocksPerLine {
		a.colorClock = 0
		a.wsyncHalt = false // hsync releases a WSYNC'd CPU
		a.scanline++

		if a.scanline >= scanlinesPerFrame {
			a.scanline = 0
			a.FrameComplete = true

			// Each frame walks the display list from its base; restart row
			// state too in case the list ended mid-row.
			a.dlistCursor = a.dlistBase
			a.linesRemaining = 0
			a.modeLine = 0
		}

		if a.scanline == vblankScanline && a.nmien&nmiVbi != 0 {
			a.nmist |= nmiVbi
			a.Nmi = true
		}

		if a.scanline < visibleScanlines {
			a.ProcessScanline()
			a.ScanlineReady = true

			// The fetch burst steals this cycle from the CPU.
			if a.dmaEnabled {
				a.dmaBurst = true
			}
		}
	}
}

// Stalled reports whether the CPU should be held off the bus this cycle.
func (a *Antic) Stalled() bool {
	return a.wsyncHalt || a.dmaBurst
}

// VCount returns the VCOUNT register value: current scanline / 2.
func (a *Antic) VCount() byte {
	return byte(a.scanline >> 1)
}

// Scanline returns the current raster line, used by the frame renderer.
func (a *Antic) Scanline() int { return a.scanline }

func (a *Antic) CpuRead(addr uint16) byte {
	switch addr & 0x0F {
	case anticVCOUNT:
		return a.VCount()
	case anticPENH:
		return a.penh
	case anticPENV:
		return a.penv
	case anticNMIST:
		return a.nmist
	}

	// Write-only registers read as open bus.
	return 0xFF
}

func (a *Antic) CpuWrite(addr uint16, data byte) {
	switch addr & 0x0F {
	case anticDMACTL:
		a.dmactl = data
		a.dmaEnabled = data&dmactlDmaEnable != 0
	case anticCHACTL:
		a.chactl = data
	case anticDLISTL:
		a.dlistBase = (a.dlistBase & 0xFF00) | uint16(data)
		a.resetDlist()
	case anticDLISTH:
		a.dlistBase = (a.dlistBase & 0x00FF) | (uint16(data) << 8)
		a.resetDlist()
	case anticHSCROL:
		a.hscrol = data
	case anticVSCROL:
		a.vscrol = data
	case anticPMBASE:
		a.pmbase = data
	case anticCHBASE:
		a.chbase = data
	case anticWSYNC:
		a.wsyncHalt = true
	case anticNMIEN:
		a.nmien = data
	case anticNMIST: // NMIRES
		a.nmist = 0
	}
}

func (a *Antic) resetDlist() {
	a.dlistCursor = a.dlistBase
	a.linesRemaining = 0
	a.modeLine = 0
}

// ProcessScanline rasterizes one visible scanline into ScanlineBuffer,
// walking the display list as rows are exhausted. The frame renderer calls
// this directly; the free-running machine gets it via Clock.
func (a *Antic) ProcessScanline() {
	for i := range a.ScanlineBuffer {
		a.ScanlineBuffer[i] = 0
	}

	if !a.dmaEnabled || a.mem == nil {
		return
	}

	if a.linesRemaining == 0 {
		a.fetchInstruction()
	}

	switch a.currentMode {
	case dlModeBlank:
		// Background only; the buffer is already clear.
	case 0x2:
		a.renderTextScanline()
	case 0xF:
		a.renderHiresScanline()
	default:
		// Remaining modes consume screen memory at the right rate but
		// rasterize as background. A bad mode byte is the guest's
		// problem, never ours.
	}

	a.linesRemaining--
	a.modeLine++

	if a.linesRemaining == 0 {
		if a.currentMode >= 0x2 {
			a.screenCursor += modeRowBytes[a.currentMode]
		}

		// Row done: a DLI-flagged instruction interrupts at its last line.
		if a.currentInstr&dlDli != 0 && a.nmien&nmiDli != 0 {
			a.nmist |= nmiDli
			a.Nmi = true
		}
	}
}

// fetchInstruction loads the next display list instruction, following jumps.
func (a *Antic) fetchInstruction() {
	// A malformed list can chain jumps forever; bound the walk and fall
	// back to blank lines rather than wedging the machine.
	for i := 0; i < 64; i++ {
		instr := a.mem.GetByte(a.dlistCursor)
		a.dlistCursor++

		mode := instr & 0x0F

		if mode == dlModeJump {
			// JMP/JVB: the next two bytes are the new list address. JVB
			// (bit 6) waits for vertical blank on hardware; here it is an
			// unconditional reload.
			lo := a.mem.GetByte(a.dlistCursor)
			hi := a.mem.GetByte(a.dlistCursor + 1)
			a.dlistCursor = (uint16(hi) << 8) | uint16(lo)
			continue
		}

		a.currentInstr = instr
		a.currentMode = mode
		a.modeLine = 0

		if mode == dlModeBlank {
			// Bits 6-4 give the blank line count - 1.
			a.linesRemaining = ((instr >> 4) & 0x7) + 1
			return
		}

		if instr&dlLms != 0 {
			lo := a.mem.GetByte(a.dlistCursor)
			hi := a.mem.GetByte(a.dlistCursor + 1)
			a.dlistCursor += 2
			a.screenCursor = (uint16(hi) << 8) | uint16(lo)
		}

		a.linesRemaining = modeScanlines[mode]
		return
	}

	// Runaway jump chain: emit blanks until the guest rewrites the list.
	a.currentInstr = 0
	a.currentMode = dlModeBlank
	a.linesRemaining = 1
}

// renderTextScanline rasterizes one scanline of mode 2: 40 columns of 8x8
// characters, one bitmap byte per character per scanline.
func (a *Antic) renderTextScanline() {
	charBase := a.charBase()

	for col := uint16(0); col < 40; col++ {
		ch := a.mem.GetByte(a.screenCursor + col)

		charAddr := charBase + uint16(ch&0x7F)*8 + uint16(a.modeLine)
		bits := a.mem.GetByte(charAddr)

		// Bit 7 of the character code selects inverse video, subject to
		// CHACTL.
		if ch&0x80 != 0 {
			if a.chactl&chactlBlank != 0 {
				bits = 0
			} else if a.chactl&chactlInverse != 0 {
				bits = ^bits
			}
		}

		for bit := 0; bit < 8; bit++ {
			px := int(col)*8 + bit

			if bits&(0x80>>bit) != 0 {
				a.ScanlineBuffer[px] = 1
			} else {
				a.ScanlineBuffer[px] = 0
			}
		}
	}
}

// renderHiresScanline rasterizes one scanline of mode F: a straight 320-bit
// bitmap row, 40 bytes, MSB first.
func (a *Antic) renderHiresScanline() {
	for col := uint16(0); col < 40; col++ {
		bits := a.mem.GetByte(a.screenCursor + col)

		for bit := 0; bit < 8; bit++ {
			px := int(col)*8 + bit

			if bits&(0x80>>bit) != 0 {
				a.ScanlineBuffer[px] = 1
			} else {
				a.ScanlineBuffer[px] = 0
			}
		}
	}
}

// charBase returns the character set base address. Bits 7-1 of CHBASE form
// the high byte; zero falls back to the OS ROM font.
func (a *Antic) charBase() uint16 {
	if a.chbase == 0 {
		return 0xE000
	}
	return uint16(a.chbase&0xFE) << 8
}

package atari

// ANTIC register indices (low nibble of a $D4xx address).
const (
	anticDMACTL = 0x00 // W - DMA control
	anticCHACTL = 0x01 // W - character control
	anticDLISTL = 0x02 // W - display list pointer, low byte
	anticDLISTH = 0x03 // W - display list pointer, high byte
	anticHSCROL = 0x04 // W - horizontal scroll
	anticVSCROL = 0x05 // W - vertical scroll
	anticPMBASE = 0x07 // W - player/missile base address
	anticCHBASE = 0x09 // W - character set base address
	anticWSYNC  = 0x0A // W - wait for horizontal sync
	anticVCOUNT = 0x0B // R - scanline counter / 2
	anticPENH   = 0x0C // R - light pen horizontal
	anticPENV   = 0x0D // R - light pen vertical
	anticNMIEN  = 0x0E // W - NMI enable
	anticNMIST  = 0x0F // R - NMI status; W (NMIRES) clears it
)

// DMACTL flags
const (
	dmactlNarrowPlayfield byte = 1 << 0
	dmactlNormalPlayfield byte = 1 << 1
	dmactlMissileDma      byte = 1 << 2
	dmactlPlayerDma       byte = 1 << 3
	dmactlSingleLinePm    byte = 1 << 4
	dmactlDmaEnable       byte = 1 << 5
)

// CHACTL flags
const (
	chactlBlank   byte = 1 << 1 // blank characters with bit 7 set
	chactlInverse byte = 1 << 2 // invert characters with bit 7 set
)

// NMIEN / NMIST flags
const (
	nmiReset byte = 1 << 5
	nmiVbi   byte = 1 << 6
	nmiDli   byte = 1 << 7
)

// Display list instruction bits
const (
	dlDli    byte = 1 << 7 // interrupt at the last scanline of this row
	dlLms    byte = 1 << 6 // two operand bytes follow: new screen address
	dlVscrol byte = 1 << 5
	dlHscrol byte = 1 << 4

	dlModeBlank byte = 0x0
	dlModeJump  byte = 0x1
)

// Scanlines per mode row, indexed by ANTIC mode. Modes 0 and 1 are handled
// specially (blank count / jump).
var modeScanlines = [16]byte{
	0, 0,
	8, 10, 8, 16, 8, 16, // text modes 2-7
	8, 4, 4, 2, 1, 2, 1, 1, // map modes 8-F
}

// Screen memory bytes consumed per mode row (normal-width playfield).
var modeRowBytes = [16]uint16{
	0, 0,
	40, 40, 40, 40, 20, 20,
	10, 10, 20, 20, 20, 40, 40, 40,
}

package atari

// GTIA - Graphics Television Interface Adaptor.
// Translates ANTIC's color indices into NTSC colors, latches the color and
// priority registers, and exposes collision/trigger status to the CPU.
//
// Memory map: $D000-$D01F, mirrored through the $D0xx page.
// References:
// https://www.atariarchives.org/mapping/memorymap.php#53248
type Gtia struct {
	// Player/missile colors ($D012-$D015) and playfield colors
	// ($D016-$D019), background at $D01A. All write-only.
	colpm [4]byte
	colpf [4]byte
	colbk byte

	// Control registers.
	prior  byte // $D01B - priority selection
	vdelay byte // $D01C - vertical delay
	gractl byte // $D01D - graphics control
	consol byte // $D01F - console switches

	// Collision latches, read-only; cleared by a write to HITCLR ($D01E).
	// Order: M0PF-M3PF, P0PF-P3PF, M0PL-M3PL, P0PL-P3PL.
	collisions [16]byte

	// Joystick trigger inputs ($D010-$D013), 1 = not pressed.
	trig [4]byte

	// GTIA owns the final pixel output.
	Framebuffer *Framebuffer
}

// GTIA register indices (within the 32-byte window).
const (
	gtiaM0PF   = 0x00
	gtiaP0PF   = 0x04
	gtiaM0PL   = 0x08
	gtiaP0PL   = 0x0C
	gtiaTRIG0  = 0x10
	gtiaCOLPM0 = 0x12
	gtiaCOLPF0 = 0x16
	gtiaCOLBK  = 0x1A
	gtiaPRIOR  = 0x1B
	gtiaVDELAY = 0x1C
	gtiaGRACTL = 0x1D
	gtiaHITCLR = 0x1E
	gtiaCONSOL = 0x1F
)

// Console switch bits (active low, like the hardware).
const (
	ConsolStart  byte = 1 << 0
	ConsolSelect byte = 1 << 1
	ConsolOption byte = 1 << 2
)

func NewGtia() *Gtia {
	return &Gtia{
		trig:        [4]byte{1, 1, 1, 1},
		consol:      0x07, // no console key held
		Framebuffer: NewFramebuffer(screenWidth, screenHeight),
	}
}

const (
	screenWidth  = 320
	screenHeight = 192
)

// CpuRead services a read in the GTIA window. Write-only registers read back
// as 0xFF, like the real chip's open bus.
func (g *Gtia) CpuRead(addr uint16) byte {
	reg := addr & 0x1F

	switch {
	case reg < 0x10: // collision latches
		return g.collisions[reg]
	case reg <= 0x13: // TRIG0-TRIG3
		return g.trig[reg-gtiaTRIG0]
	case reg == gtiaCONSOL:
		return g.consol
	}

	return 0xFF
}

func (g *Gtia) CpuWrite(addr uint16, data byte) {
	reg := addr & 0x1F

	switch {
	case reg >= gtiaCOLPM0 && reg < gtiaCOLPF0:
		g.colpm[reg-gtiaCOLPM0] = data
	case reg >= gtiaCOLPF0 && reg < gtiaCOLBK:
		g.colpf[reg-gtiaCOLPF0] = data
	case reg == gtiaCOLBK:
		g.colbk = data
	case reg == gtiaPRIOR:
		g.prior = data
	case reg == gtiaVDELAY:
		g.vdelay = data
	case reg == gtiaGRACTL:
		g.gractl = data
	case reg == gtiaHITCLR:
		// Any write clears every collision latch.
		g.collisions = [16]byte{}
	case reg == gtiaCONSOL:
		g.consol = data
	}
}

// SetTrigger sets a joystick trigger input. pressed pulls the line low.
func (g *Gtia) SetTrigger(n int, pressed bool) {
	if pressed {
		g.trig[n] = 0
	} else {
		g.trig[n] = 1
	}
}

// SetConsol sets the console switch inputs (START/SELECT/OPTION), active low.
func (g *Gtia) SetConsol(held byte) {
	g.consol = ^held & 0x07
}

// RenderScanline colorizes one ANTIC scanline buffer of color indices into
// the framebuffer row at scanlineY.
func (g *Gtia) RenderScanline(scanlineY int, indices *[384]byte) {
	for x := 0; x < screenWidth; x++ {
		r, gg, b := g.colorForIndex(indices[x])
		g.Framebuffer.SetPixel(x, scanlineY, r, gg, b)
	}
}

// ClearFrame paints the whole framebuffer with the background color.
func (g *Gtia) ClearFrame() {
	r, gg, b := colorToRgb(g.colbk)
	g.Framebuffer.Clear(r, gg, b)
}

// Map a playfield color index (0-3) through the color registers.
func (g *Gtia) colorForIndex(index byte) (byte, byte, byte) {
	var atariColor byte
	switch index {
	case 1:
		atariColor = g.colpf[0]
	case 2:
		atariColor = g.colpf[1]
	case 3:
		atariColor = g.colpf[2]
	default:
		atariColor = g.colbk
	}

	return colorToRgb(atariColor)
}

// Convert an Atari color byte to RGB. Bits 7-4 select the hue, bits 3-1 the
// luminance; bit 0 is ignored.
func colorToRgb(atariColor byte) (byte, byte, byte) {
	hue := (atariColor >> 4) & 0x0F
	lum := (atariColor >> 1) & 0x07

	c := atariPalette[(uint16(hue)<<3)|uint16(lum)]
	return c[0], c[1], c[2]
}

// NTSC palette: 16 hues x 8 luminance levels. Approximation of the composite
// output; real hardware shifts with temperature and the TV's tint knob.
var atariPalette = [128][3]byte{
	// Hue 0 (gray)
	{0, 0, 0}, {25, 25, 25}, {55, 55, 55}, {79, 79, 79},
	{109, 109, 109}, {139, 139, 139}, {169, 169, 169}, {255, 255, 255},

	// Hue 1 (gold)
	{65, 45, 0}, {89, 67, 0}, {119, 97, 11}, {143, 121, 35},
	{173, 151, 65}, {203, 181, 95}, {233, 211, 125}, {255, 255, 195},

	// Hue 2 (orange)
	{105, 35, 0}, {129, 59, 0}, {159, 89, 0}, {183, 113, 23},
	{213, 143, 53}, {243, 173, 83}, {255, 203, 113}, {255, 255, 183},

	// Hue 3 (red-orange)
	{105, 20, 0}, {129, 44, 0}, {159, 74, 0}, {183, 98, 19},
	{213, 128, 49}, {243, 158, 79}, {255, 188, 109}, {255, 255, 179},

	// Hue 4 (pink)
	{85, 0, 20}, {109, 0, 44}, {139, 15, 74}, {163, 39, 98},
	{193, 69, 128}, {223, 99, 158}, {253, 129, 188}, {255, 199, 255},

	// Hue 5 (purple)
	{65, 0, 60}, {89, 0, 84}, {119, 5, 114}, {143, 29, 138},
	{173, 59, 168}, {203, 89, 198}, {233, 119, 228}, {255, 189, 255},

	// Hue 6 (blue-purple)
	{35, 0, 85}, {59, 0, 109}, {89, 0, 139}, {113, 23, 163},
	{143, 53, 193}, {173, 83, 223}, {203, 113, 253}, {255, 183, 255},

	// Hue 7 (blue)
	{0, 0, 100}, {0, 24, 124}, {0, 54, 154}, {17, 78, 178},
	{47, 108, 208}, {77, 138, 238}, {107, 168, 255}, {177, 238, 255},

	// Hue 8 (blue)
	{0, 20, 105}, {0, 44, 129}, {0, 74, 159}, {0, 98, 183},
	{23, 128, 213}, {53, 158, 243}, {83, 188, 255}, {153, 255, 255},

	// Hue 9 (cyan)
	{0, 40, 85}, {0, 64, 109}, {0, 94, 139}, {0, 118, 163},
	{3, 148, 193}, {33, 178, 223}, {63, 208, 253}, {133, 255, 255},

	// Hue 10 (cyan-green)
	{0, 55, 45}, {0, 79, 69}, {0, 109, 99}, {0, 133, 123},
	{0, 163, 153}, {19, 193, 183}, {49, 223, 213}, {119, 255, 255},

	// Hue 11 (green)
	{0, 60, 0}, {0, 84, 0}, {0, 114, 11}, {0, 138, 35},
	{0, 168, 65}, {27, 198, 95}, {57, 228, 125}, {127, 255, 195},

	// Hue 12 (yellow-green)
	{20, 65, 0}, {44, 89, 0}, {74, 119, 0}, {98, 143, 0},
	{128, 173, 23}, {158, 203, 53}, {188, 233, 83}, {255, 255, 153},

	// Hue 13 (orange-green)
	{45, 60, 0}, {69, 84, 0}, {99, 114, 0}, {123, 138, 0},
	{153, 168, 15}, {183, 198, 45}, {213, 228, 75}, {255, 255, 145},

	// Hue 14 (light orange)
	{60, 55, 0}, {84, 79, 0}, {114, 109, 0}, {138, 133, 0},
	{168, 163, 0}, {198, 193, 27}, {228, 223, 57}, {255, 255, 127},

	// Hue 15 (yellow)
	{65, 50, 0}, {89, 74, 0}, {119, 104, 0}, {143, 128, 0},
	{173, 158, 21}, {203, 188, 51}, {233, 218, 81}, {255, 255, 151},
}

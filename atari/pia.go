package atari

// PIA - the 6520 peripheral interface adapter. Port A carries joystick
// directions for sticks 1 and 2, port B sticks 3 and 4 (and OS ROM banking
// on the XL line, which this machine doesn't have).
//
// Memory map: $D300-$D3FF, low 2 bits decode.
type Pia struct {
	porta byte // $D300 - port A output latch
	ddra  byte // $D301 - port A data direction, 1 = output
	portb byte // $D302 - port B output latch
	ddrb  byte // $D303 - port B data direction

	// What's actually on the pins, set by the host's input polling.
	portaInput byte
	portbInput byte
}

func NewPia() *Pia {
	return &Pia{
		porta:      0xFF,
		portb:      0xFF,
		portaInput: 0xFF, // joystick lines idle high
		portbInput: 0xFF,
	}
}

// Clock is a no-op; the PIA is purely reactive.
func (p *Pia) Clock() {}

func (p *Pia) CpuRead(addr uint16) byte {
	switch addr & 0x03 {
	case 0x00:
		// Output bits read back the latch, input bits read the pins.
		return (p.porta & p.ddra) | (p.portaInput &^ p.ddra)
	case 0x01:
		return p.ddra
	case 0x02:
		return (p.portb & p.ddrb) | (p.portbInput &^ p.ddrb)
	case 0x03:
		return p.ddrb
	}

	return 0xFF
}

func (p *Pia) CpuWrite(addr uint16, data byte) {
	switch addr & 0x03 {
	case 0x00:
		p.porta = data
	case 0x01:
		p.ddra = data
	case 0x02:
		p.portb = data
	case 0x03:
		p.ddrb = data
	}
}

// SetPortAInput sets the joystick lines for sticks 1 and 2.
func (p *Pia) SetPortAInput(val byte) {
	p.portaInput = val
}

// SetPortBInput sets the joystick lines for sticks 3 and 4.
func (p *Pia) SetPortBInput(val byte) {
	p.portbInput = val
}

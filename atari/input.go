package atari

import (
	"github.com/faiface/pixel/pixelgl"
)

// Input polls the host keyboard and feeds joystick 1 and the console
// switches into the PIA and GTIA input shadows.
type Input struct{}

// Keyboard binds:
/*
	Stick up     ---> W
	Stick down   ---> S
	Stick left   ---> A
	Stick right  ---> D
	Trigger      ---> J
	START        ---> F2
	SELECT       ---> F3
	OPTION       ---> F4
*/
const (
	stickUp byte = 1 << iota
	stickDown
	stickLeft
	stickRight
)

var stickKeys = map[byte]pixelgl.Button{
	stickUp:    pixelgl.KeyW,
	stickDown:  pixelgl.KeyS,
	stickLeft:  pixelgl.KeyA,
	stickRight: pixelgl.KeyD,
}

var consolKeys = map[byte]pixelgl.Button{
	ConsolStart:  pixelgl.KeyF2,
	ConsolSelect: pixelgl.KeyF3,
	ConsolOption: pixelgl.KeyF4,
}

func NewInput() *Input {
	return &Input{}
}

// Poll reads the key state and latches it into the device input shadows.
// Joystick lines are active low: a held direction pulls its bit to 0.
func (in *Input) Poll(win *pixelgl.Window, pia *Pia, gtia *Gtia) {
	stick := byte(0x0F)
	for bit, key := range stickKeys {
		if win.Pressed(key) {
			stick &^= bit
		}
	}

	// Stick 1 occupies the low nibble of port A; stick 2 is left idle.
	pia.SetPortAInput(0xF0 | stick)

	gtia.SetTrigger(0, win.Pressed(pixelgl.KeyJ))

	var consol byte
	for bit, key := range consolKeys {
		if win.Pressed(key) {
			consol |= bit
		}
	}
	gtia.SetConsol(consol)
}

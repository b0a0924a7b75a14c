package atari

type AddressingMode int

const (
	IMP AddressingMode = iota
	IMM
	REL
	ZP0
	ZPX
	ZPY
	ABS
	ABX
	ABY
	IND
	IZX
	IZY
)

var addressingModeNames = [...]string{
	"IMP", "IMM", "REL", "ZP0", "ZPX", "ZPY",
	"ABS", "ABX", "ABY", "IND", "IZX", "IZY",
}

func (m AddressingMode) String() string {
	return addressingModeNames[m]
}

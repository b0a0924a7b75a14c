package atari

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
)

// Interactive machine monitor: a terminal UI that single-steps the CPU and
// shows the register file, a slice of memory with the PC highlighted, and
// the decoded instruction about to run.
type monitorModel struct {
	machine *Atari800

	prevPC uint16
	err    error
}

// Init is the first function that will be called. It returns an optional
// initial command. To not perform an initial command return nil.
func (m monitorModel) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received. Use it to inspect messages
// and, in response, update the model and/or send a command.
func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case " ", "j":
			m.prevPC = m.machine.Cpu.Pc
			if err := m.step(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// step runs one instruction, converting a contract-violation panic (ROM
// write, HLT) into an error so the TUI can exit cleanly.
func (m *monitorModel) step() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("machine fault: %v", r)
		}
	}()

	m.machine.StepInstruction()
	return nil
}

// renderPage renders 16 bytes of memory as a line. The current PC is
// highlighted.
func (m monitorModel) renderPage(start uint16) string {
	s := fmt.Sprintf("%04x | ", start)
	for i := uint16(0); i < 16; i++ {
		b := m.machine.Mem.GetByte(start + i)
		if start+i == m.machine.Cpu.Pc {
			s += fmt.Sprintf("[%02x] ", b)
		} else {
			s += fmt.Sprintf(" %02x  ", b)
		}
	}
	return s
}

func (m monitorModel) status() string {
	cpu := m.machine.Cpu

	var flags string
	for _, flag := range []SF6502{
		StatusFlagN, StatusFlagV, StatusFlagX, StatusFlagB,
		StatusFlagD, StatusFlagI, StatusFlagZ, StatusFlagC,
	} {
		if cpu.getFlag(flag) != 0 {
			flags += "/ "
		} else {
			flags += "  "
		}
	}

	return fmt.Sprintf(`
PC: %04x (%04x)
 A: %02x
 X: %02x
 Y: %02x
SP: %02x
VC: %02x
N V _ B D I Z C
`,
		cpu.Pc,
		m.prevPC,
		cpu.A,
		cpu.X,
		cpu.Y,
		cpu.Sp,
		m.machine.Antic.VCount(),
	) + flags
}

func (m monitorModel) pageTable() string {
	header := "addr | "
	for b := 0; b < 16; b++ {
		header += fmt.Sprintf("  %01x  ", b)
	}

	rows := []string{header}

	// Zero page, the stack around SP, and the code around PC.
	offsets := []uint16{
		0x0000, 0x0010,
		stackBase | uint16(m.machine.Cpu.Sp)&0xF0,
		m.machine.Cpu.Pc & 0xFFF0,
		(m.machine.Cpu.Pc & 0xFFF0) + 16,
		(m.machine.Cpu.Pc & 0xFFF0) + 32,
	}
	for _, off := range offsets {
		rows = append(rows, m.renderPage(off))
	}
	return strings.Join(rows, "\n")
}

// View renders the program's UI, which is just a string. The view is
// rendered after every Update.
func (m monitorModel) View() string {
	opcode := m.machine.Mem.GetByte(m.machine.Cpu.Pc)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.pageTable(),
			m.status(),
		),
		"",
		spew.Sdump(m.machine.Cpu.InstLookup[opcode]),
		"space/j: step    q: quit",
	)
}

// StepInstruction clocks the whole machine through one CPU instruction,
// ANTIC and the devices included.
func (a *Atari800) StepInstruction() {
	start := a.Cpu.CycleCount
	for {
		a.Clock()

		// The CPU may be held off the bus by WSYNC; only stop once it has
		// actually run an instruction to completion.
		if a.Cpu.CycleCount != start && a.Cpu.Cycles == 0 {
			return
		}
	}
}

// Monitor starts the interactive TUI over the given machine.
func Monitor(machine *Atari800) error {
	m, err := tea.NewProgram(monitorModel{machine: machine}).Run()
	if err != nil {
		return err
	}

	if final := m.(monitorModel); final.err != nil {
		return final.err
	}
	return nil
}

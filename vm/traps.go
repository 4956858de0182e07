package vm

import "fmt"

const inPrompt = "Enter a character: "

// trap dispatches a TRAP instruction with the terminal in raw mode. The
// terminal is restored however the routine ends.
func (cpu *cpu) trap(instruction word) error {
	vector := instruction & 0xFF
	cpu.tracef("TRAP: 0x%02x", vector)

	code, err := TrapCodeFromWord(uint16(vector))
	if err != nil {
		return cpu.abort(f("%v at 0x%04x", err, uint16(cpu.reg[PC]-1)))
	}

	if cpu.terminal != nil {
		cpu.log.Debug("enabling raw mode")
		if err := cpu.terminal.EnterRawMode(); err != nil {
			cpu.log.WithError(err).Warn("enter raw mode")
		}
		defer func() {
			cpu.log.Debug("disabling raw mode")
			if err := cpu.terminal.RestoreMode(); err != nil {
				cpu.log.WithError(err).Warn("restore terminal mode")
			}
		}()
	}

	switch code {
	case TRAP_GETC:
		err = cpu.getc()
	case TRAP_OUT:
		err = cpu.out()
	case TRAP_PUTS:
		err = cpu.puts()
	case TRAP_IN:
		err = cpu.in()
	case TRAP_PUTSP:
		err = cpu.putsp()
	case TRAP_HALT:
		err = cpu.halt()
	}
	if err != nil {
		return fmt.Errorf("trap %v: %w", code, err)
	}
	return nil
}

func (cpu *cpu) getc() error {
	c, err := cpu.keyboard.ReadByte()
	if err != nil {
		return err
	}
	cpu.reg[R0] = word(c)
	cpu.updateFlags(word(R0))
	return nil
}

func (cpu *cpu) out() error {
	cpu.display.WriteByte(byte(cpu.reg[R0]))
	return cpu.display.Flush()
}

// puts writes one character per word until a zero word. Strings are read
// from ram directly so KBSR inside a string does not poll the keyboard.
func (cpu *cpu) puts() error {
	addr := cpu.reg[R0]
	for c := cpu.memory.ram[addr]; c != 0; c = cpu.memory.ram[addr] {
		cpu.display.WriteByte(byte(c))
		addr++
	}
	return cpu.display.Flush()
}

func (cpu *cpu) in() error {
	cpu.display.WriteString(inPrompt)
	if err := cpu.display.Flush(); err != nil {
		return err
	}

	c, err := cpu.keyboard.ReadByte()
	if err != nil {
		return err
	}
	cpu.display.WriteByte(c)

	cpu.reg[R0] = word(c)
	cpu.updateFlags(word(R0))
	return cpu.display.Flush()
}

// putsp writes two characters per word, low byte first, and stops at the
// first zero byte.
func (cpu *cpu) putsp() error {
	for addr := cpu.reg[R0]; ; addr++ {
		w := cpu.memory.ram[addr]
		lo, hi := byte(w), byte(w>>8)
		if lo == 0 {
			break
		}
		cpu.display.WriteByte(lo)
		if hi == 0 {
			break
		}
		cpu.display.WriteByte(hi)
	}
	return cpu.display.Flush()
}

func (cpu *cpu) halt() error {
	cpu.display.WriteString("HALT\n")
	cpu.stop()
	return cpu.display.Flush()
}

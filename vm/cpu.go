package vm

import (
	"bufio"
	goIO "io"

	"github.com/sirupsen/logrus"
)

type cpu struct {
	running      bool
	andSetsFlags bool
	memory       *memory
	reg          registerFile
	keyboard     goIO.ByteReader
	display      *bufio.Writer
	terminal     Terminal
	log          *logrus.Logger
}

func newCpu(mem *memory, dev Devices) *cpu {
	c := &cpu{
		running:  true,
		memory:   mem,
		keyboard: dev.Keyboard,
		display:  bufio.NewWriter(dev.Display),
		terminal: dev.Terminal,
		log:      logrus.New(),
	}
	c.log.SetOutput(goIO.Discard)
	c.reg[PC] = UserSpaceStart
	c.reg[COND] = word(FLAG_ZRO)
	return c
}

func (cpu *cpu) stop() {
	cpu.running = false
}

// step runs one fetch, increment, decode, execute cycle.
func (cpu *cpu) step() error {
	if !cpu.running {
		return ErrHalted
	}
	instruction := cpu.memory.read(cpu.reg[PC])
	cpu.reg[PC]++
	return cpu.execute(decode(instruction), instruction)
}

func (cpu *cpu) run() error {
	for cpu.running {
		if err := cpu.step(); err != nil {
			cpu.stop()
			return err
		}
	}
	return nil
}

func (cpu *cpu) execute(op OpCode, instruction word) error {
	switch op {
	case OP_ADD:
		cpu.add(instruction)
	case OP_AND:
		cpu.and(instruction)
	case OP_NOT:
		cpu.not(instruction)
	case OP_BR:
		cpu.br(instruction)
	case OP_JMP:
		cpu.jmp(instruction)
	case OP_JSR:
		cpu.jsr(instruction)
	case OP_LD:
		cpu.ld(instruction)
	case OP_LDI:
		cpu.ldi(instruction)
	case OP_LDR:
		cpu.ldr(instruction)
	case OP_LEA:
		cpu.lea(instruction)
	case OP_ST:
		cpu.st(instruction)
	case OP_STI:
		cpu.sti(instruction)
	case OP_STR:
		cpu.str(instruction)
	case OP_TRAP:
		return cpu.trap(instruction)
	default:
		// RTI and the reserved opcode
		return cpu.abort(f("illegal opcode %v (0x%04x) at 0x%04x", op, uint16(instruction), uint16(cpu.reg[PC]-1)))
	}
	return nil
}

func (cpu *cpu) tracef(format string, args ...any) {
	if cpu.log.IsLevelEnabled(logrus.TraceLevel) {
		cpu.log.WithField("pc", cpu.reg[PC]-1).Tracef(format, args...)
	}
}

func (cpu *cpu) add(instruction word) {
	dr := (instruction >> 9) & 0b111
	sr1 := (instruction >> 6) & 0b111
	imm_flag := (instruction >> 5) & 0b1

	if imm_flag == 1 {
		imm5 := instruction & 0x1F
		cpu.tracef("ADD: dr=%03b sr1=%03b imm5=0x%02x", dr, sr1, imm5)
		cpu.reg[dr] = cpu.reg[sr1] + sext(imm5, 5)
	} else {
		sr2 := instruction & 0b111
		cpu.tracef("ADD: dr=%03b sr1=%03b sr2=%03b", dr, sr1, sr2)
		cpu.reg[dr] = cpu.reg[sr1] + cpu.reg[sr2]
	}

	cpu.updateFlags(dr)
}

// and leaves COND alone unless andSetsFlags is set.
func (cpu *cpu) and(instruction word) {
	dr := (instruction >> 9) & 0b111
	sr1 := (instruction >> 6) & 0b111
	imm_flag := (instruction >> 5) & 0b1

	if imm_flag == 1 {
		imm5 := instruction & 0b11111
		cpu.tracef("AND: dr=%03b sr1=%03b imm5=0x%02x", dr, sr1, imm5)
		cpu.reg[dr] = cpu.reg[sr1] & sext(imm5, 5)
	} else {
		sr2 := instruction & 0b111
		cpu.tracef("AND: dr=%03b sr1=%03b sr2=%03b", dr, sr1, sr2)
		cpu.reg[dr] = cpu.reg[sr1] & cpu.reg[sr2]
	}

	if cpu.andSetsFlags {
		cpu.updateFlags(dr)
	}
}

func (cpu *cpu) not(instruction word) {
	dr := (instruction >> 9) & 0b111
	sr := (instruction >> 6) & 0b111

	cpu.tracef("NOT: dr=%03b sr=%03b", dr, sr)

	cpu.reg[dr] = ^cpu.reg[sr]
	cpu.updateFlags(dr)
}

func (cpu *cpu) br(instruction word) {
	nzp := (instruction >> 9) & 0b111
	pcoffset9 := instruction & 0x1FF

	cpu.tracef("BR: nzp=%03b pcoffset9=0x%03x", nzp, pcoffset9)

	if nzp&cpu.reg[COND] != 0 {
		cpu.reg[PC] += sext(pcoffset9, 9)
	}
}

func (cpu *cpu) jmp(instruction word) {
	br := (instruction >> 6) & 0b111

	cpu.tracef("JMP: br=%03b", br)

	cpu.reg[PC] = cpu.reg[br]
}

// jsr links R7 before the target is computed, so JSRR R7 returns to the
// instruction after itself.
func (cpu *cpu) jsr(instruction word) {
	cpu.reg[R7] = cpu.reg[PC]

	if (instruction>>11)&0b1 == 1 {
		pcoffset11 := instruction & 0x7FF
		cpu.tracef("JSR: pcoffset11=0x%03x", pcoffset11)
		cpu.reg[PC] += sext(pcoffset11, 11)
	} else {
		br := (instruction >> 6) & 0b111
		cpu.tracef("JSRR: br=%03b", br)
		cpu.reg[PC] = cpu.reg[br]
	}
}

func (cpu *cpu) ld(instruction word) {
	dr := (instruction >> 9) & 0b111
	pcoffset9 := instruction & 0x1FF

	cpu.tracef("LD: dr=%03b pcoffset9=0x%03x", dr, pcoffset9)

	cpu.reg[dr] = cpu.memory.read(cpu.reg[PC] + sext(pcoffset9, 9))
	cpu.updateFlags(dr)
}

func (cpu *cpu) ldi(instruction word) {
	dr := (instruction >> 9) & 0b111
	pcoffset9 := instruction & 0x1FF

	cpu.tracef("LDI: dr=%03b pcoffset9=0x%03x", dr, pcoffset9)

	cpu.reg[dr] = cpu.memory.read(cpu.memory.read(cpu.reg[PC] + sext(pcoffset9, 9)))
	cpu.updateFlags(dr)
}

func (cpu *cpu) ldr(instruction word) {
	dr := (instruction >> 9) & 0b111
	br := (instruction >> 6) & 0b111
	offset6 := instruction & 0x3F

	cpu.tracef("LDR: dr=%03b br=%03b offset6=0x%02x", dr, br, offset6)

	cpu.reg[dr] = cpu.memory.read(cpu.reg[br] + sext(offset6, 6))
	cpu.updateFlags(dr)
}

func (cpu *cpu) lea(instruction word) {
	dr := (instruction >> 9) & 0b111
	pcoffset9 := instruction & 0x1FF

	cpu.tracef("LEA: dr=%03b pcoffset9=0x%03x", dr, pcoffset9)

	cpu.reg[dr] = cpu.reg[PC] + sext(pcoffset9, 9)
	cpu.updateFlags(dr)
}

func (cpu *cpu) st(instruction word) {
	sr := (instruction >> 9) & 0b111
	pcoffset9 := instruction & 0x1FF

	cpu.tracef("ST: sr=%03b pcoffset9=0x%03x", sr, pcoffset9)

	cpu.memory.write(cpu.reg[PC]+sext(pcoffset9, 9), cpu.reg[sr])
}

func (cpu *cpu) sti(instruction word) {
	sr := (instruction >> 9) & 0b111
	pcoffset9 := instruction & 0x1FF

	cpu.tracef("STI: sr=%03b pcoffset9=0x%03x", sr, pcoffset9)

	cpu.memory.write(cpu.memory.read(cpu.reg[PC]+sext(pcoffset9, 9)), cpu.reg[sr])
}

func (cpu *cpu) str(instruction word) {
	sr := (instruction >> 9) & 0b111
	br := (instruction >> 6) & 0b111
	offset6 := instruction & 0x3F

	cpu.tracef("STR: sr=%03b br=%03b offset6=0x%02x", sr, br, offset6)

	cpu.memory.write(cpu.reg[br]+sext(offset6, 6), cpu.reg[sr])
}

// abort is the controlled halt for instructions the machine cannot run.
func (cpu *cpu) abort(reason string) error {
	cpu.log.Warn(reason)
	cpu.stop()
	cpu.display.WriteString(reason + "\n")
	return cpu.display.Flush()
}

func (cpu *cpu) updateFlags(r word) {
	cpu.reg[COND] = word(flagFor(cpu.reg[r]))
}

// sext widens a bitCount-bit two's complement field to 16 bits.
func sext(x word, bitCount uint) word {
	if bitCount == 0 || bitCount >= 16 {
		return x
	}
	if (x>>(bitCount-1))&0b1 != 0 {
		x |= 0xFFFF << bitCount
	}
	return x
}

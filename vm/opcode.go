package vm

import "fmt"

type OpCode word

// opcodes
const (
	OP_BR   OpCode = iota /* branch */
	OP_ADD                /* add */
	OP_LD                 /* load */
	OP_ST                 /* store */
	OP_JSR                /* jump register */
	OP_AND                /* bitwise and */
	OP_LDR                /* load register */
	OP_STR                /* store register */
	OP_RTI                /* unused */
	OP_NOT                /* bitwise not */
	OP_LDI                /* load indirect */
	OP_STI                /* store indirect */
	OP_JMP                /* jump */
	OP_RES                /* reserved */
	OP_LEA                /* load effective address */
	OP_TRAP               /* execute trap */
)

const opcodeCount = int(OP_TRAP) + 1

var opcodeNames = [opcodeCount]string{
	"BR", "ADD", "LD", "ST", "JSR", "AND", "LDR", "STR",
	"RTI", "NOT", "LDI", "STI", "JMP", "RES", "LEA", "TRAP",
}

func (op OpCode) String() string {
	if int(op) < opcodeCount {
		return opcodeNames[op]
	}
	return fmt.Sprintf("OpCode(%d)", uint16(op))
}

func OpCodeFromWord(w uint16) (OpCode, error) {
	if int(w) >= opcodeCount {
		return 0, ErrOpcode(w)
	}
	return OpCode(w), nil
}

// decode is total: every instruction word carries one of the sixteen opcodes.
func decode(instruction word) OpCode {
	return OpCode(instruction >> 12)
}

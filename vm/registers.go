package vm

import "fmt"

type word uint16

// Register names one slot of the register file.
type Register word

// general purpose registers, then the internal ones
const (
	R0 Register = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	PC    /* program counter */
	COND  /* condition flags */
	COUNT /* reserved */
)

const registerCount = int(COUNT) + 1

var registerNames = [registerCount]string{
	"R0", "R1", "R2", "R3", "R4", "R5", "R6", "R7", "PC", "COND", "COUNT",
}

func (r Register) String() string {
	if int(r) < registerCount {
		return registerNames[r]
	}
	return fmt.Sprintf("Register(%d)", uint16(r))
}

// RegisterFromWord maps an encoded register index back to a Register.
func RegisterFromWord(w uint16) (Register, error) {
	if w > uint16(COUNT) {
		return 0, ErrRegister(w)
	}
	return Register(w), nil
}

type registerFile [registerCount]word

// ConditionFlag is the sign of the last flag-setting result.
type ConditionFlag word

// flags
const (
	FLAG_POS ConditionFlag = 0b001
	FLAG_ZRO ConditionFlag = 0b010
	FLAG_NEG ConditionFlag = 0b100
)

func (c ConditionFlag) String() string {
	switch c {
	case FLAG_POS:
		return "P"
	case FLAG_ZRO:
		return "Z"
	case FLAG_NEG:
		return "N"
	}
	return fmt.Sprintf("ConditionFlag(%d)", uint16(c))
}

// ConditionFlagFromWord accepts exactly one of the three flag patterns.
func ConditionFlagFromWord(w uint16) (ConditionFlag, error) {
	switch c := ConditionFlag(w); c {
	case FLAG_POS, FLAG_ZRO, FLAG_NEG:
		return c, nil
	}
	return 0, ErrConditionFlag(w)
}

func flagFor(value word) ConditionFlag {
	if value == 0 {
		return FLAG_ZRO
	} else if value>>15 != 0 {
		return FLAG_NEG
	}
	return FLAG_POS
}

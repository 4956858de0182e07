package vm

import (
	"errors"

	"github.com/aryanA101a/lc3-vm-go/internal/translate"
)

var f = translate.From

var (
	// Image loading errors
	ErrImageTooShort = errors.New(f("image too short"))
	ErrImageOverflow = errors.New(f("image overflows memory"))

	// Execution errors
	ErrHalted = errors.New(f("machine halted"))
)

type ErrRegister word

func (er ErrRegister) Error() string {
	return f("invalid register %d", uint16(er))
}

type ErrOpcode word

func (eo ErrOpcode) Error() string {
	return f("invalid opcode 0x%x", uint16(eo))
}

type ErrConditionFlag word

func (ec ErrConditionFlag) Error() string {
	return f("invalid condition flag 0b%03b", uint16(ec))
}

type ErrTrapCode word

func (et ErrTrapCode) Error() string {
	return f("invalid trap vector 0x%02x", uint16(et))
}

package vm

import "fmt"

type TrapCode word

const (
	TRAP_GETC  TrapCode = 0x20 /* get character from keyboard, not echoed onto the terminal */
	TRAP_OUT   TrapCode = 0x21 /* output a character */
	TRAP_PUTS  TrapCode = 0x22 /* output a word string */
	TRAP_IN    TrapCode = 0x23 /* get character from keyboard, echoed onto the terminal */
	TRAP_PUTSP TrapCode = 0x24 /* output a byte string */
	TRAP_HALT  TrapCode = 0x25 /* halt the program */
)

var trapNames = map[TrapCode]string{
	TRAP_GETC:  "GETC",
	TRAP_OUT:   "OUT",
	TRAP_PUTS:  "PUTS",
	TRAP_IN:    "IN",
	TRAP_PUTSP: "PUTSP",
	TRAP_HALT:  "HALT",
}

func (t TrapCode) String() string {
	if name, ok := trapNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TrapCode(0x%02x)", uint16(t))
}

func TrapCodeFromWord(w uint16) (TrapCode, error) {
	if _, ok := trapNames[TrapCode(w)]; !ok {
		return 0, ErrTrapCode(w)
	}
	return TrapCode(w), nil
}

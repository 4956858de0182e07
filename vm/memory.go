package vm

import goIO "io"

const MemorySize = 1 << 16

const (
	TrapVectorTableStart       = 0x0000
	InterruptVectorTableStart  = 0x0100
	SystemSpaceStart           = 0x0200
	UserSpaceStart             = 0x3000
	MemoryMappedRegistersStart = 0xFE00
)

// memory mapped register addresses
const (
	KBSR word = MemoryMappedRegistersStart          /* keyboard status register */
	KBDR word = MemoryMappedRegistersStart + 0x0002 /* keyboard data register */
)

const kbsrReady word = 0x8000

type memory struct {
	ram      [MemorySize]word
	keyboard goIO.ByteReader
}

func (mem *memory) write(addr, value word) {
	mem.ram[addr] = value
}

// read returns the word at addr. Reading KBSR first polls the keyboard and
// refreshes both keyboard registers.
func (mem *memory) read(addr word) word {
	if addr == KBSR {
		mem.pollKeyboard()
	}
	return mem.ram[addr]
}

func (mem *memory) pollKeyboard() {
	b, err := mem.keyboard.ReadByte()
	if err != nil {
		mem.ram[KBSR] = 0
		return
	}
	mem.ram[KBSR] = kbsrReady
	mem.ram[KBDR] = word(b)
}

func newMemory(keyboard goIO.ByteReader) *memory {
	return &memory{keyboard: keyboard}
}

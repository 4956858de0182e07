package vm

import (
	"bytes"
	goIO "io"

	"github.com/sirupsen/logrus"
)

// VM is one LC-3 machine: 64K words of memory and a cpu that runs from
// UserSpaceStart until HALT or an illegal instruction.
type VM struct {
	memory *memory
	cpu    *cpu
}

// NewVM builds a machine in its reset state. Missing devices are replaced
// by an empty keyboard and a discarding display.
func NewVM(dev Devices) *VM {
	if dev.Keyboard == nil {
		dev.Keyboard = bytes.NewReader(nil)
	}
	if dev.Display == nil {
		dev.Display = goIO.Discard
	}

	mem := newMemory(dev.Keyboard)
	return &VM{
		memory: mem,
		cpu:    newCpu(mem, dev),
	}
}

func (vm *VM) SetLogger(log *logrus.Logger) {
	vm.cpu.log = log
}

// SetANDSetsFlags makes AND update COND like ADD does.
func (vm *VM) SetANDSetsFlags(enable bool) {
	vm.cpu.andSetsFlags = enable
}

// Run executes until the machine halts. It returns the first I/O error
// from a trap routine; the machine is halted in that case too.
func (vm *VM) Run() error {
	vm.cpu.log.WithField("pc", vm.cpu.reg[PC]).Debug("running")
	err := vm.cpu.run()
	if err != nil {
		vm.cpu.log.WithError(err).Debug("stopped")
	}
	return err
}

// Step executes a single instruction.
func (vm *VM) Step() error {
	return vm.cpu.step()
}

func (vm *VM) Running() bool {
	return vm.cpu.running
}

func (vm *VM) Register(r Register) uint16 {
	return uint16(vm.cpu.reg[r])
}

func (vm *VM) SetRegister(r Register, value uint16) {
	vm.cpu.reg[r] = word(value)
}

// Peek reads memory without triggering the keyboard registers.
func (vm *VM) Peek(addr uint16) uint16 {
	return uint16(vm.memory.ram[addr])
}

func (vm *VM) Poke(addr, value uint16) {
	vm.memory.write(word(addr), word(value))
}

// Condition reports the current condition flag.
func (vm *VM) Condition() (ConditionFlag, error) {
	return ConditionFlagFromWord(uint16(vm.cpu.reg[COND]))
}

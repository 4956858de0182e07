package vm

import (
	"bytes"
	"errors"
	"strings"
)

func newTestVM(input string) (*VM, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return NewVM(Devices{Keyboard: strings.NewReader(input), Display: out}), out
}

// loadProgram writes words into memory starting at origin.
func loadProgram(vm *VM, origin word, words ...word) {
	for i, w := range words {
		vm.memory.write(origin+word(i), w)
	}
}

// image encodes an origin and payload in the on-disk format.
func image(origin uint16, words ...uint16) []byte {
	b := []byte{byte(origin >> 8), byte(origin)}
	for _, w := range words {
		b = append(b, byte(w>>8), byte(w))
	}
	return b
}

type fakeTerminal struct {
	enters, restores int
	enterErr         error
}

func (t *fakeTerminal) EnterRawMode() error {
	t.enters++
	return t.enterErr
}

func (t *fakeTerminal) RestoreMode() error {
	t.restores++
	return nil
}

var errBrokenPipe = errors.New("broken pipe")

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errBrokenPipe
}

package vm

import (
	"encoding/binary"
	"errors"
	"fmt"
	goIO "io"
	"os"

	"github.com/sirupsen/logrus"
)

// LoadImage copies an image into memory. The first big-endian word is the
// origin, the rest are placed contiguously from there. A trailing odd byte
// is ignored.
func (vm *VM) LoadImage(r goIO.Reader) error {
	var header [2]byte
	if _, err := goIO.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, goIO.EOF) || errors.Is(err, goIO.ErrUnexpectedEOF) {
			return ErrImageTooShort
		}
		return err
	}
	origin := int(binary.BigEndian.Uint16(header[:]))

	payload, err := goIO.ReadAll(r)
	if err != nil {
		return err
	}

	count := len(payload) / 2
	if origin+count > MemorySize {
		return fmt.Errorf("%w: %d words at 0x%04x", ErrImageOverflow, count, origin)
	}

	for i := 0; i < count; i++ {
		vm.memory.write(word(origin+i), word(binary.BigEndian.Uint16(payload[2*i:])))
	}

	vm.cpu.log.WithFields(logrus.Fields{
		"origin": fmt.Sprintf("0x%04x", origin),
		"words":  count,
	}).Debug("image loaded")

	return nil
}

func (vm *VM) LoadImageFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := vm.LoadImage(file); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

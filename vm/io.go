package vm

import (
	"bufio"
	goIO "io"
	"os"
	"sync"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Terminal switches the line discipline around trap execution.
type Terminal interface {
	EnterRawMode() error
	RestoreMode() error
}

// Devices are the machine's external collaborators. Keyboard is the
// blocking single character source used by GETC, IN and the KBSR poll.
type Devices struct {
	Keyboard goIO.ByteReader
	Display  goIO.Writer
	Terminal Terminal // optional
}

// Console is the process terminal: stdin as keyboard, a writer as display.
type Console struct {
	mu                     sync.Mutex
	fd                     uintptr
	tty                    bool
	saved                  bool
	originalTerminalConfig unix.Termios
	stdin                  *bufio.Reader
	stdout                 goIO.Writer
}

func NewConsole(stdin *os.File, stdout goIO.Writer) *Console {
	return &Console{
		fd:     stdin.Fd(),
		tty:    term.IsTerminal(int(stdin.Fd())),
		stdin:  bufio.NewReader(stdin),
		stdout: stdout,
	}
}

// Devices wires the console into a machine. A nil terminal leaves the
// line discipline alone.
func (c *Console) Devices(raw bool) Devices {
	dev := Devices{
		Keyboard: c.stdin,
		Display:  c.stdout,
	}
	if raw {
		dev.Terminal = c
	}
	return dev
}

// EnterRawMode turns off canonical input and echo so single key presses
// are delivered immediately.
func (c *Console) EnterRawMode() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.tty {
		return nil
	}
	if err := termios.Tcgetattr(c.fd, &c.originalTerminalConfig); err != nil {
		return err
	}
	c.saved = true

	newTermios := c.originalTerminalConfig
	newTermios.Lflag &^= unix.ICANON | unix.ECHO
	return termios.Tcsetattr(c.fd, termios.TCSANOW, &newTermios)
}

func (c *Console) RestoreMode() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.tty || !c.saved {
		return nil
	}
	return termios.Tcsetattr(c.fd, termios.TCSANOW, &c.originalTerminalConfig)
}

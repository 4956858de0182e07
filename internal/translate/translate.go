// Package translate formats the machine's diagnostics and error strings
// (illegal opcodes, bad trap vectors, rejected images) for the host locale.
package translate

import (
	"sync"

	"github.com/jeandeaual/go-locale"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/message"
)

const fallback = "en-US"

var (
	once    sync.Once
	printer *message.Printer
)

// hostPrinter picks the printer on first use so importing the vm package
// does not query the host locale.
func hostPrinter() *message.Printer {
	once.Do(func() {
		tags, err := locale.GetLocales()
		if err != nil {
			logrus.WithError(err).Debug("host locale unavailable")
		}
		printer = message.NewPrinter(message.MatchLanguage(append(tags, fallback)...))
	})
	return printer
}

// From formats a diagnostic. Numbers follow the host locale's conventions.
func From(key message.Reference, args ...any) string {
	return hostPrinter().Sprintf(key, args...)
}

package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logger at the given level and a func that closes its
// output. An empty path logs to stderr, anything else is opened for append.
func New(path string, level string) (*logrus.Logger, func() error, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	l := logrus.New()
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})

	if len(path) == 0 {
		l.SetOutput(os.Stderr)
		return l, func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0666)
	if err != nil {
		return nil, nil, err
	}
	l.SetOutput(f)
	l.Debugf("logging to %s", path)

	return l, f.Close, nil
}

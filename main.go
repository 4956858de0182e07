package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/aryanA101a/lc3-vm-go/internal/config"
	"github.com/aryanA101a/lc3-vm-go/internal/logger"
	"github.com/aryanA101a/lc3-vm-go/vm"
)

const (
	exitOK          = 0
	exitLoadFailure = 1
	exitUsage       = 2
	exitRuntime     = 3
	exitInterrupted = 130
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin *os.File, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lc3", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "lc3 [flags] [image-file1] ...\n")
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "TOML configuration file")
	logLevel := fs.String("log-level", "", "log level (panic, fatal, error, warn, info, debug, trace)")
	logFile := fs.String("log-file", "", "append logs to this file instead of stderr")
	andFlags := fs.Bool("and-flags", false, "AND updates the condition flags")
	raw := fs.Bool("raw", true, "disable canonical mode and echo while traps run")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return exitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "lc3: %v\n", err)
		return exitUsage
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-file":
			cfg.LogFile = *logFile
		case "and-flags":
			cfg.ANDSetsFlags = *andFlags
		case "raw":
			cfg.RawTerminal = *raw
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "lc3: %v\n", err)
		return exitUsage
	}

	log, closeLog, err := logger.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "lc3: %v\n", err)
		return exitUsage
	}
	defer closeLog()
	// Failures are always printed to stderr. They go to the log only when
	// it is a separate file.
	logToFile := len(cfg.LogFile) != 0
	if !logToFile {
		log.SetOutput(stderr)
	}

	console := vm.NewConsole(stdin, stdout)
	machine := vm.NewVM(console.Devices(cfg.RawTerminal))
	machine.SetLogger(log)
	machine.SetANDSetsFlags(cfg.ANDSetsFlags)

	failed := false
	for _, path := range fs.Args() {
		if err := machine.LoadImageFile(path); err != nil {
			if logToFile {
				log.WithField("image", path).Error(err)
			}
			fmt.Fprintf(stderr, "failed to load image: %v\n", err)
			failed = true
		}
	}
	if failed {
		return exitLoadFailure
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	done := make(chan error, 1)
	go func() {
		done <- machine.Run()
	}()

	select {
	case err := <-done:
		if err != nil {
			if logToFile {
				log.WithError(err).Error("execution failed")
			}
			fmt.Fprintf(stderr, "lc3: %v\n", err)
			return exitRuntime
		}
		return exitOK
	case <-ctx.Done():
		if err := console.RestoreMode(); err != nil {
			log.WithError(err).Warn("restore terminal mode")
		}
		log.WithFields(logrus.Fields{"signal": "interrupt"}).Info("stopping")
		fmt.Fprintf(stderr, "\n\nThe LC3 VM received Ctrl-C interrupt signal.\n")
		return exitInterrupted
	}
}

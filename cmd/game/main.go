package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomz197/reflex/internal/client"
	"github.com/tomz197/reflex/internal/config"
	"github.com/tomz197/reflex/internal/logging"
	"golang.org/x/term"
)

func main() {
	// The terminal is the display, so logs go to a file.
	logPath := config.GetEnv("REFLEX_LOG_FILE", "reflex.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := logging.New(logFile, config.GetEnv("REFLEX_LOG_LEVEL", "info"), false)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := client.OptionsFromEnv()
	opts.Logger = logger
	c := client.New(bufio.NewReader(os.Stdin), os.Stdout, opts)
	if err := c.Run(ctx); err != nil {
		_ = term.Restore(fd, oldState)
		logger.Error().Err(err).Msg("game error")
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

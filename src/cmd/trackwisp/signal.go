// FILE: trackwisp/src/cmd/trackwisp/signal.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lixenwraith/log"
)

// SignalHandler turns termination signals into a single shutdown request
type SignalHandler struct {
	logger  *log.Logger
	sigChan chan os.Signal
}

func NewSignalHandler(logger *log.Logger) *SignalHandler {
	sh := &SignalHandler{
		logger:  logger,
		sigChan: make(chan os.Signal, 1),
	}
	signal.Notify(sh.sigChan, syscall.SIGINT, syscall.SIGTERM)
	return sh
}

// Wait blocks until a termination signal arrives or ctx is done
func (sh *SignalHandler) Wait(ctx context.Context) os.Signal {
	select {
	case sig := <-sh.sigChan:
		sh.logger.Info("msg", "Shutdown signal received",
			"component", "main",
			"signal", sig)
		return sig
	case <-ctx.Done():
		return nil
	}
}

// CancelOnSignal cancels the returned context on the first signal
func (sh *SignalHandler) CancelOnSignal(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		if sh.Wait(ctx) != nil {
			cancel()
		}
	}()
	return ctx, cancel
}

func (sh *SignalHandler) Stop() {
	signal.Stop(sh.sigChan)
}

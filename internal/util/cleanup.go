package util

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// Interrupt records whether the operator asked the run to stop. The first
// signal only raises the flag so the round in flight can finish and its
// writes stay intact; a second signal exits immediately.
type Interrupt struct {
	requested atomic.Bool
	stop      func()
}

func SetupInterruptHandler(onFirst func()) *Interrupt {
	in := &Interrupt{}

	sig := make(chan os.Signal, 2)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	in.stop = func() {
		signal.Stop(sig)
		close(done)
	}

	go func() {
		select {
		case <-sig:
		case <-done:
			return
		}
		in.requested.Store(true)
		fmt.Println("\nInterrupt received. Finishing the current round, press Ctrl+C again to exit now.")
		if onFirst != nil {
			onFirst()
		}

		select {
		case <-sig:
			fmt.Println("\nExiting due to interrupt.")
			os.Exit(1)
		case <-done:
		}
	}()

	return in
}

func (in *Interrupt) Requested() bool {
	return in != nil && in.requested.Load()
}

func (in *Interrupt) Stop() {
	if in != nil && in.stop != nil {
		in.stop()
	}
}

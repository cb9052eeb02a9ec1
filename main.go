/*
Testbed application exercising the engine package.
*/
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spectral-engine/spectral/engine"
	"github.com/spectral-engine/spectral/testbed"
)

func main() {
	tb := testbed.New()

	app, err := engine.New(tb.Game)
	if err != nil {
		panic(err)
	}

	if err := app.Initialize(); err != nil {
		panic(err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	go func() {
		<-sigCh
		_ = app.Shutdown()
	}()

	if err := app.Run(); err != nil {
		panic(err)
	}
}

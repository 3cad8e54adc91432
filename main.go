// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/mathieufitzgerald/matchain/config"
	"github.com/mathieufitzgerald/matchain/logger"
	"github.com/mathieufitzgerald/matchain/signal"
	"github.com/mathieufitzgerald/matchain/util/panics"
	"github.com/mathieufitzgerald/matchain/version"
)

func main() {
	if err := realMain(); err != nil {
		os.Exit(1)
	}
}

// realMain is the real main function for matchain. It parses the
// configuration, dispatches on the requested mode and, for the node modes,
// runs until an interrupt is received.
func realMain() error {
	// Load configuration and parse command line. Logging is initialized
	// below from the loaded configuration.
	err := config.LoadAndSetActiveConfig()
	if err != nil {
		return err
	}
	cfg := config.ActiveConfig()

	logger.InitLogs(cfg.LogFile(), cfg.ErrLogFile())
	defer logger.BackendLog.Close()
	if err := logger.SetLogLevels(cfg.DebugLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	defer panics.HandlePanic(log, nil)

	log.Infof("Version %s", version.Version())

	// The wallet UI ships as a separate program; this binary only runs
	// node modes.
	if cfg.Wallet {
		log.Infof("The graphical wallet is a separate application. " +
			"Point it at a running node instead.")
		return nil
	}

	// Get a channel that will be closed when a shutdown signal has been
	// triggered either from an OS signal such as SIGINT (Ctrl+C) or from
	// another subsystem.
	interrupt := signal.InterruptListener()

	node, err := newMatchain(cfg)
	if err != nil {
		log.Errorf("Unable to start matchain: %+v", err)
		return err
	}

	node.start()
	defer func() {
		log.Infof("Gracefully shutting down matchain...")
		node.stop()
		log.Infof("Matchain shutdown complete")
	}()

	// Wait until the interrupt signal is received from an OS signal or
	// shutdown is requested through one of the subsystems.
	<-interrupt
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

const version = "0.1.0"

var versionOption = flag.Bool("version", false, "tsgenc version")

func main() {
	flag.Parse()

	if *versionOption {
		fmt.Printf("tsgenc v%s\n", version)

		return
	}

	// Introspection may be waiting on a remote endpoint; let Ctrl-C cancel it.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

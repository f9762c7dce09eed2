// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

// Command recctl trains the recommendation engine once against the
// configured store and prints what it would serve.
//
//	recctl recommend --user 42 --limit 5
//	recctl popular --limit 10 --output yaml
//	recctl neighbors --user 42 --k 5
//	recctl tier --user 42
//	recctl train
//
// Configuration is read the same way as the server (config.yaml, then
// environment variables) unless --config names a file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1) //nolint:gocritic // stop already called
	}
}

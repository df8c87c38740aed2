// Package main inspects a worldline database: branches, point values,
// deltas, and tracked paths.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	worldlinecmd "github.com/louisbranch/worldline/internal/cmd/worldline"
	"github.com/louisbranch/worldline/internal/platform/config"
)

func main() {
	cfg, err := worldlinecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[WORLDLINE] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := worldlinecmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to inspect: %v", err)
	}
}

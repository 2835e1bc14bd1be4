package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	compliancecmd "github.com/recertify/recertify/internal/cmd/compliance"
)

func main() {
	cfg, err := compliancecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[COMPLIANCE] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := compliancecmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}

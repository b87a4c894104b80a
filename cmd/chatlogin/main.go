// Package main runs the terminal sign-in client.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	chatlogincmd "github.com/louisbranch/chat.space/internal/cmd/chatlogin"
	"github.com/louisbranch/chat.space/internal/platform/config"
)

func main() {
	log.SetPrefix("[CHATLOGIN] ")
	log.SetFlags(0)
	cfg, err := chatlogincmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		config.Exitf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := chatlogincmd.Run(ctx, cfg, chatlogincmd.IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}); err != nil {
		stop()
		config.Exitf("%s: %v", cfg.Command, err)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	. "cotree/internal/config"
	. "cotree/internal/logger"
	"cotree/internal/relay"

	"golang.org/x/sync/errgroup"
)

func main() {
	Log.Start()
	defer Log.Stop()
	config := GetConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	server := relay.NewServer(config.Relay)
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error { return server.ListenAndServe(ctx) })
	if config.Relay.AdminAddr != "" {
		group.Go(func() error { return server.ServeAdmin(ctx, config.Relay.AdminAddr) })
	}

	fmt.Printf("relay listening on %s\n", config.Relay.Addr)
	if err := group.Wait(); err != nil {
		Log.Error(err.Error())
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

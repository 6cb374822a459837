package main

import (
	"context"
	"fmt"
	"os"

	"cotree/internal/client"
	. "cotree/internal/config"
	. "cotree/internal/editor"
	. "cotree/internal/logger"
	"cotree/internal/ui"
)

// usage: cotree [init]
// With init the client creates the document before editing it.
func main() {
	Log.Start()
	config := GetConfig()

	err := run(config, len(os.Args) > 1 && os.Args[1] == "init")
	Log.Stop()
	if err != nil && err != context.Canceled {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(config Config, initialize bool) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session, err := client.Dial(ctx, config.Client.Addr, config.Relay.MaxFrame)
	if err != nil { return err }
	defer session.Close()

	replica := client.NewReplica(config.Client.Peer)
	Log.Infof("peer %s connected to %s", replica.Peer(), config.Client.Addr)

	editor := NewEditor(replica, session)
	if initialize {
		if err := editor.Initialize(config.Client.InitialValue); err != nil { return err }
	}

	screen, err := ui.NewScreen(config.Theme)
	if err != nil { return err }
	defer screen.Fini()

	draw := func() { screen.Draw(editor.Fragments(), editor.Status) }
	return editor.Run(ctx, screen.Events(ctx), draw)
}

// Command rustymedia serves one or more local directories as a DLNA
// media server: browsable over UPnP ContentDirectory, streamed or
// transcoded on demand over HTTP.
package main

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/anacrolix/log"

	"github.com/kevincox/rustymedia/dlna/dms"
	"github.com/kevincox/rustymedia/internal/cache"
	"github.com/kevincox/rustymedia/internal/content"
	"github.com/kevincox/rustymedia/internal/transcode"
)

var (
	locals         []string
	bind           string
	friendlyName   string
	serverUUID     string
	cacheSize      int
	notifyInterval time.Duration
)

func main() {
	root := &cobra.Command{
		Use:   "rustymedia",
		Short: "Serve local media over DLNA/UPnP.",
		RunE:  run,
	}
	flags := root.Flags()
	flags.StringArrayVar(&locals, "local", nil, "name=path root to serve, repeatable")
	flags.StringVar(&bind, "bind", "[::]:4950", "address to listen on")
	flags.StringVar(&friendlyName, "friendly-name", "", "UPnP friendly name (default: derived from user@host)")
	flags.StringVar(&serverUUID, "uuid", "", "fixed device UUID (default: derived deterministically from friendly name)")
	flags.IntVar(&cacheSize, "cache-size", 32, "number of source objects to keep transcode cache entries for")
	flags.DurationVar(&notifyInterval, "notify-interval", 60*time.Second, "interval between SSDP ssdp:alive announcements")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if len(locals) == 0 {
		return fmt.Errorf("at least one --local name=path is required")
	}

	tree := content.NewTree()
	for _, l := range locals {
		name, path, ok := strings.Cut(l, "=")
		if !ok {
			return fmt.Errorf("malformed --local %q, want name=path", l)
		}
		if err := tree.AddRoot(name, path); err != nil {
			return err
		}
	}

	logger := log.Default.WithNames("rustymedia")

	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("binding %q: %w", bind, err)
	}

	engine := &transcode.Engine{Logger: logger.WithNames("transcode")}
	transcodeCache, err := cache.New(engine, cacheSize)
	if err != nil {
		return err
	}

	srv := &dms.Server{
		Tree:           tree,
		Cache:          transcodeCache,
		FriendlyName:   friendlyName,
		UUID:           serverUUID,
		NotifyInterval: notifyInterval,
		Logger:         logger,
		HTTPConn:       listener,
	}
	if err := srv.Init(); err != nil {
		return fmt.Errorf("initializing server: %w", err)
	}
	logger.Levelf(log.Info, "serving on %s", listener.Addr())
	return srv.Run()
}

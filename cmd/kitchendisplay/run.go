package kitchendisplay

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"tableside/internal/actions"
	"tableside/internal/app/kitchendisplay"
	"tableside/internal/broker"
	"tableside/internal/cli"
	"tableside/internal/feed"
	"tableside/internal/shared/config"
	"tableside/internal/shared/logger"
)

// Run wires the kitchen console and blocks until ctx is cancelled or stdin
// closes.
func Run(ctx context.Context, station string) error {
	log := logger.NewLogger("kitchen-display")

	cfg, err := config.LoadFromFile("config/config.yaml")
	if err != nil {
		log.Error(ctx, "config_load_failed", "Failed to load configuration", err)
		return err
	}

	acts, cleanup, err := actions.ForConfig(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "actions_setup_failed", "Failed to set up the order actions capability", err)
		return err
	}
	defer cleanup()

	f := feed.New(func(subs []string, handler broker.Handler) (broker.Bus, error) {
		return broker.Dial(ctx, cfg, log, subs, handler)
	}, log)

	display := kitchendisplay.New(station, f, acts, log, os.Stdout)
	if err := display.Start(ctx); err != nil {
		log.Error(ctx, "subscribe_failed", "Failed to open the event subscription", err)
		return err
	}

	log.Info(ctx, "service_started", "Kitchen display started", map[string]any{"station": station, "broker_mode": cfg.Broker.Mode})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		display.Run(ctx)
	}()

	commandLoop(ctx, display)

	wg.Wait()
	log.Info(ctx, "graceful_shutdown", "Kitchen display stopped", nil)
	return nil
}

// commandLoop reads ready commands from stdin until EOF, quit, or ctx
// cancellation. Stdin is drained on a separate goroutine so a shutdown
// signal does not wait for the next keystroke.
func commandLoop(ctx context.Context, display *kitchendisplay.Display) {
	fmt.Println("Commands: ready <order-id> | quit")

	lines := cli.ReadLines(os.Stdin)
	for {
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return
		case line, ok = <-lines:
			if !ok {
				return
			}
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "ready":
			if len(fields) != 2 {
				fmt.Println("usage: ready <order-id>")
				continue
			}
			if err := display.Ready(ctx, fields[1]); err != nil {
				fmt.Println("ready failed:", err)
			}
		case "quit", "exit":
			return
		default:
			fmt.Println("unknown command:", fields[0])
		}
	}
}

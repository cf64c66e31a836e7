package notificationwatcher

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"tableside/internal/actions"
	"tableside/internal/app/notificationwatcher"
	"tableside/internal/broker"
	"tableside/internal/cli"
	"tableside/internal/feed"
	"tableside/internal/shared/config"
	"tableside/internal/shared/logger"
)

// Run tails one customer's notification topics until ctx is cancelled or
// stdin closes.
func Run(ctx context.Context, customerID string) error {
	log := logger.NewLogger("notification-watcher")

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

	watcher := notificationwatcher.New(customerID, f, acts, log, os.Stdout)
	if err := watcher.Start(ctx); err != nil {
		log.Error(ctx, "subscribe_failed", "Failed to open the event subscription", err)
		return err
	}

	log.Info(ctx, "service_started", "Notification watcher started", map[string]any{"customer_id": customerID, "broker_mode": cfg.Broker.Mode})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		watcher.Run(ctx)
	}()

	commandLoop(ctx, watcher)

	wg.Wait()
	log.Info(ctx, "graceful_shutdown", "Notification watcher stopped", nil)
	return nil
}

// commandLoop reads read-marking commands from stdin until EOF, quit, or
// ctx cancellation. Stdin is drained on a separate goroutine so a shutdown
// signal does not wait for the next keystroke.
func commandLoop(ctx context.Context, watcher *notificationwatcher.Watcher) {
	fmt.Println("Commands: read | quit")

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

		switch strings.TrimSpace(line) {
		case "":
		case "read":
			if err := watcher.MarkAllRead(ctx); err != nil {
				fmt.Println("read failed:", err)
			}
		case "quit", "exit":
			return
		default:
			fmt.Println("unknown command")
		}
	}
}

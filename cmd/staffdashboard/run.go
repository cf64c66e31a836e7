package staffdashboard

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"tableside/internal/actions"
	"tableside/internal/app/staffdashboard"
	"tableside/internal/broker"
	"tableside/internal/cli"
	"tableside/internal/feed"
	"tableside/internal/shared/config"
	"tableside/internal/shared/logger"
)

// Run wires the staff console and blocks until ctx is cancelled or stdin
// closes.
func Run(ctx context.Context, staffID string) error {
	log := logger.NewLogger("staff-dashboard")

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

	board := staffdashboard.New(staffID, f, acts, log, os.Stdout)
	if err := board.Start(ctx); err != nil {
		log.Error(ctx, "subscribe_failed", "Failed to open the event subscription", err)
		return err
	}

	log.Info(ctx, "service_started", "Staff dashboard started", map[string]any{"staff_id": staffID, "broker_mode": cfg.Broker.Mode})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		board.Run(ctx)
	}()

	commandLoop(ctx, board)

	wg.Wait()
	log.Info(ctx, "graceful_shutdown", "Staff dashboard stopped", nil)
	return nil
}

// commandLoop reads accept/complete commands from stdin until EOF, quit,
// or ctx cancellation. Stdin is drained on a separate goroutine so a
// shutdown signal does not wait for the next keystroke.
func commandLoop(ctx context.Context, board *staffdashboard.Dashboard) {
	fmt.Println("Commands: accept <order-id> | complete <order-id> | quit")

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
		case "accept":
			if len(fields) != 2 {
				fmt.Println("usage: accept <order-id>")
				continue
			}
			if err := board.Accept(ctx, fields[1]); err != nil {
				fmt.Println("accept failed:", err)
			}
		case "complete":
			if len(fields) != 2 {
				fmt.Println("usage: complete <order-id>")
				continue
			}
			if err := board.Complete(ctx, fields[1]); err != nil {
				fmt.Println("complete failed:", err)
			}
		case "quit", "exit":
			return
		default:
			fmt.Println("unknown command:", fields[0])
		}
	}
}

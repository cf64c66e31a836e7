package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tableside/cmd/kitchendisplay"
	"tableside/cmd/notificationwatcher"
	"tableside/cmd/orderservice"
	"tableside/cmd/staffdashboard"
	"tableside/internal/cli"
)

func main() {
	// check for help flag first
	if len(os.Args) == 2 && (os.Args[1] == "--help" || os.Args[1] == "-h") {
		cli.PrintUsage(os.Stdout)
		os.Exit(0)
	}

	// parse all command-line arguments
	mode, svcArgs, err := cli.ParseMode(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		cli.PrintUsage(os.Stderr)
		os.Exit(2)
	}

	// ensure that mode is not empty
	if mode == "" {
		cli.PrintUsage(os.Stderr)
		os.Exit(2)
	}

	// create context cancelled on SIGINT/SIGTERM signals ensuring graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// run the service specified by the mode flag
	switch mode {
	case cli.ModeOrder:
		fs := flag.NewFlagSet(cli.ModeOrder, flag.ContinueOnError)
		port := fs.Int("port", 0, "HTTP port for the API (overrides config)")
		cli.AttachUsage(fs, cli.ModeOrder)

		if err := fs.Parse(svcArgs); err != nil {
			if err == flag.ErrHelp {
				os.Exit(0)
			}
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(2)
		}

		if *port < 0 || *port > 65535 {
			fmt.Fprintln(os.Stderr, "Error: --port must be between 1 and 65535")
			fs.Usage()
			os.Exit(2)
		}

		if err := orderservice.Run(ctx, *port); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}

	case cli.ModeStaff:
		fs := flag.NewFlagSet(cli.ModeStaff, flag.ContinueOnError)
		staffID := fs.String("staff-id", "", "Unique id of the staff member (required)")
		cli.AttachUsage(fs, cli.ModeStaff)

		if err := fs.Parse(svcArgs); err != nil {
			if err == flag.ErrHelp {
				os.Exit(0)
			}
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(2)
		}

		if *staffID == "" {
			fmt.Fprintln(os.Stderr, "Error: --staff-id is required")
			fs.Usage()
			os.Exit(2)
		}

		if err := staffdashboard.Run(ctx, *staffID); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}

	case cli.ModeKitchen:
		fs := flag.NewFlagSet(cli.ModeKitchen, flag.ContinueOnError)
		station := fs.String("station-name", "", "Name of the kitchen station (required)")
		cli.AttachUsage(fs, cli.ModeKitchen)

		if err := fs.Parse(svcArgs); err != nil {
			if err == flag.ErrHelp {
				os.Exit(0)
			}
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(2)
		}

		if *station == "" {
			fmt.Fprintln(os.Stderr, "Error: --station-name is required")
			fs.Usage()
			os.Exit(2)
		}

		if err := kitchendisplay.Run(ctx, *station); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}

	case cli.ModeNotify:
		fs := flag.NewFlagSet(cli.ModeNotify, flag.ContinueOnError)
		customerID := fs.String("customer-id", "", "Id of the customer whose notifications to tail (required)")
		cli.AttachUsage(fs, cli.ModeNotify)

		if err := fs.Parse(svcArgs); err != nil {
			if err == flag.ErrHelp {
				os.Exit(0)
			}
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(2)
		}

		if *customerID == "" {
			fmt.Fprintln(os.Stderr, "Error: --customer-id is required")
			fs.Usage()
			os.Exit(2)
		}

		if err := notificationwatcher.Run(ctx, *customerID); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	}
}

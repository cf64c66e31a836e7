package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

const (
	ModeOrder   = "order-service"
	ModeStaff   = "staff-dashboard"
	ModeKitchen = "kitchen-display"
	ModeNotify  = "notification-watcher"
)

// isKnownMode checks if the provided mode name is known.
func isKnownMode(s string) (string, bool) {
	switch s {
	case ModeOrder, "order":
		return ModeOrder, true
	case ModeStaff, "staff", "dashboard":
		return ModeStaff, true
	case ModeKitchen, "kitchen":
		return ModeKitchen, true
	case ModeNotify, "notify", "watch":
		return ModeNotify, true
	default:
		return "", false
	}
}

// ParseMode supports:
//
//	--mode=<value>
//	<value> (subcommand shorthand), e.g., `staff-dashboard --staff-id=anna`
func ParseMode(args []string) (string, []string, error) {
	var mode string
	var out []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "--mode=") {
			mode = strings.TrimPrefix(arg, "--mode=")
			continue
		}

		if mode == "" {
			if m, ok := isKnownMode(arg); ok {
				mode = m
				continue
			}
		}
		out = append(out, arg)
	}

	if mode == "" {
		return "", out, nil
	}

	if m, ok := isKnownMode(mode); ok {
		mode = m
	}

	return mode, out, nil
}

// PrintUsage prints the usage information with examples.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, "\033[36m") // switch the color to cyan

	fmt.Fprintln(w, `Usage:
  ./tableside --mode=<service> [flags]

Services (modes):
  order-service           HTTP API for placing orders and publishing order events
  staff-dashboard         Live pending-orders console with accept/complete actions
  kitchen-display         Kitchen queue console with the mark-ready action
  notification-watcher    Per-customer console that tails acceptance/completion events

Examples:
  ./tableside --mode=order-service --port=3000
  ./tableside --mode=staff-dashboard --staff-id=anna
  ./tableside --mode=kitchen-display --station-name=grill-1
  ./tableside --mode=notification-watcher --customer-id=cust-42`)

	fmt.Fprint(w, "\033[0m") // switch back to normal
}

func AttachUsage(fs *flag.FlagSet, mode string) {
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: ./tableside --mode=%s [flags]\n", mode)
		fs.PrintDefaults()
	}
}

package cli

import (
	"bufio"
	"io"
)

// ReadLines pumps lines from r into the returned channel and closes it on
// EOF or read error. Scanning happens on its own goroutine, so a console
// loop can select between incoming lines and context cancellation instead
// of blocking in Scan after a shutdown signal.
func ReadLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

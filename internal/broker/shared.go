package broker

import (
	"context"
	"sync"

	"tableside/internal/shared/config"
	"tableside/internal/shared/logger"
)

// The server-side publishing connection is process-wide: every in-flight
// request that mutates an order reuses it. Publishes carry no response
// correlation, so concurrent use needs no locking beyond the guarded
// initializer; the transport serializes writes on the wire.
var (
	sharedMu  sync.Mutex
	sharedBus Bus
	sharedPub *Publisher
)

// SharedPublisher returns the lazily-created process-wide publisher,
// dialing a publish-only connection on first use. A missing broker URL
// surfaces here as a configuration error before any publish is attempted.
func SharedPublisher(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Publisher, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedPub != nil {
		return sharedPub, nil
	}

	bus, err := Dial(ctx, cfg, log, nil, nil)
	if err != nil {
		return nil, err
	}

	sharedBus = bus
	sharedPub = NewPublisher(bus, log)
	return sharedPub, nil
}

// ShutdownShared closes the process-wide publishing connection. No-op when
// it was never created.
func ShutdownShared() {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedBus != nil {
		sharedBus.Close()
	}
	sharedBus = nil
	sharedPub = nil
}

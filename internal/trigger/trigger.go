package trigger

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/stanleyz/autorefresh/internal/hub"
)

// Bridge connects one OS signal to a [hub.Hub]'s broadcast.
//
// Create a Bridge with [New] and start it with [Bridge.Start]. The bridge
// runs until its context is cancelled.
type Bridge struct {
	hub    *hub.Hub
	sig    os.Signal
	logger *slog.Logger
}

// New creates a [Bridge] that broadcasts on h whenever sig is received.
//
// The bridge is not active until [Bridge.Start] is called.
func New(h *hub.Hub, sig os.Signal, logger *slog.Logger) *Bridge {
	return &Bridge{
		hub:    h,
		sig:    sig,
		logger: logger,
	}
}

// Start installs the signal handler and begins draining deliveries in a
// background goroutine.
//
// Start is non-blocking. Each received signal triggers one broadcast on
// the drain goroutine; signals arriving while a broadcast is in flight
// coalesce into a single pending delivery. Receiving a signal with no
// subscribers registered is harmless.
//
// The handler is removed and the goroutine exits when ctx is cancelled.
func (b *Bridge) Start(ctx context.Context) {
	// buffer of one: holds a pending delivery while a broadcast runs,
	// coalescing bursts instead of dropping them entirely
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, b.sig)

	go func() {
		defer signal.Stop(sigCh)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sigCh:
				b.hub.Broadcast()
				b.logger.Debug("refresh broadcast",
					"signal", b.sig.String(),
					"subscribers", b.hub.Len(),
					"seq", b.hub.Seq(),
				)
			}
		}
	}()
}

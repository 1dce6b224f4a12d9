// Package relay runs the pull-and-fan-out loop at the heart of the process.
package relay

import (
	"log/slog"

	"github.com/tkntkn/netpipe/internal/broker"
	"github.com/tkntkn/netpipe/internal/receiver"
)

// Run pulls messages from the stream and hands each one to every
// broker, in order, until the stream ends. It returns the number of
// messages relayed.
//
// The pull is the only place the loop blocks; brokers bound their own
// sends. One message is fully delivered before the next is pulled, so
// per-broker delivery order always equals pull order.
func Run(stream receiver.Stream, brokers []broker.Broker, logger *slog.Logger) int64 {
	if logger == nil {
		logger = slog.Default()
	}

	var relayed int64
	for {
		msg, ok := stream.Next()
		if !ok {
			logger.Debug("stream ended", "relayed", relayed)
			return relayed
		}
		for _, b := range brokers {
			b.Send(msg)
		}
		relayed++
	}
}

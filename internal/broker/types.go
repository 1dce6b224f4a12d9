package broker

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Errors
var (
	ErrNoBroker = errors.New("no broker matches output descriptor")
)

// Broker delivers relayed messages to the destinations attached to it.
type Broker interface {
	// Matches reports whether this broker handles the descriptor.
	Matches(desc string) bool

	// AddDestination sets up one output. Called once per descriptor
	// before relaying starts; setup failures (parse, resolve, bind)
	// are returned, never deferred to Send.
	AddDestination(desc string) error

	// Send delivers one message to every attached destination. With no
	// destinations it is a no-op. Called from the relay goroutine only.
	Send(message string)
}

// Config configures the built-in brokers.
type Config struct {
	WriteTimeout time.Duration // per-connection fan-out write deadline
	ReadBuffer   int           // websocket upgrader read buffer size
	WriteBuffer  int           // websocket upgrader write buffer size
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		WriteTimeout: 5 * time.Second,
		ReadBuffer:   1024,
		WriteBuffer:  1024,
	}
}

// Attach hands the descriptor to the first broker whose Matches accepts it.
// The slice order is the priority order; the catch-all sits last.
func Attach(brokers []Broker, desc string) error {
	for _, b := range brokers {
		if b.Matches(desc) {
			if err := b.AddDestination(desc); err != nil {
				return fmt.Errorf("add destination %q: %w", desc, err)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrNoBroker, desc)
}

// hostPortFromURI extracts the listen address from a scheme descriptor
// like "ws://127.0.0.1:9001/ignored".
func hostPortFromURI(uri string) (string, error) {
	_, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return "", fmt.Errorf("descriptor %q has no scheme", uri)
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return "", fmt.Errorf("descriptor %q has no host:port", uri)
	}
	return rest, nil
}

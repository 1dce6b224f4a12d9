package receiver

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

// Errors
var (
	ErrNoReceiver  = errors.New("no receiver matches input descriptor")
	ErrInvalidUTF8 = errors.New("message is not valid UTF-8")
)

// Stream is a pull-based source of text messages.
type Stream interface {
	// Next blocks until a message is available. It returns false when
	// the stream has ended; the relay treats that as normal termination.
	Next() (string, bool)
}

// Receiver opens input descriptors it recognizes into message streams.
type Receiver interface {
	// Matches reports whether this receiver handles the descriptor.
	Matches(desc string) bool

	// Open sets up the input and returns its stream. Setup failures
	// (dial, bind) are returned, never deferred to Next.
	Open(desc string) (Stream, error)
}

// Config configures the built-in receivers.
type Config struct {
	QueueCapacity    int           // initial capacity of the message queue
	DatagramBuffer   int           // max accepted datagram size in bytes
	MaxLineBytes     int           // max line length for the stdin receiver
	HandshakeTimeout time.Duration // websocket dial handshake timeout
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		QueueCapacity:    1024,
		DatagramBuffer:   8192,
		MaxLineBytes:     1 << 20,
		HandshakeTimeout: 10 * time.Second,
	}
}

// Select returns the first receiver whose Matches accepts the descriptor.
// The slice order is the priority order; the catch-all sits last.
func Select(receivers []Receiver, desc string) (Receiver, error) {
	for _, r := range receivers {
		if r.Matches(desc) {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoReceiver, desc)
}

// decodeText converts raw payload bytes to a message string. Every
// network ingress path goes through this gate, so relayed messages are
// always valid UTF-8.
func decodeText(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

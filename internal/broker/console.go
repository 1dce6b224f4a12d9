package broker

import (
	"fmt"
	"io"
	"os"
)

// Console writes messages to standard output, one line per message.
// Attaching "stdout" more than once still produces a single copy.
//
// Not safe for concurrent use: destinations are attached before
// relaying starts and Send runs on the relay goroutine.
type Console struct {
	out     io.Writer
	enabled bool
}

// NewConsole creates the console broker for the exact descriptor "stdout".
// A nil writer means os.Stdout.
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out}
}

func (b *Console) Matches(desc string) bool {
	return desc == "stdout"
}

func (b *Console) AddDestination(desc string) error {
	b.enabled = true
	return nil
}

func (b *Console) Send(message string) {
	if !b.enabled {
		return
	}
	if _, err := fmt.Fprintln(b.out, message); err != nil {
		panic(fmt.Sprintf("console broker: write: %v", err))
	}
}

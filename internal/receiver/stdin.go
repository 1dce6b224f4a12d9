package receiver

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// stdinReceiver is the line source: it reads newline-delimited messages
// synchronously on the relay goroutine itself, the only receiver
// without a background reader.
type stdinReceiver struct {
	in  io.Reader
	cfg Config
}

// NewStdin creates the line-source receiver for the exact descriptor
// "stdin". A nil reader means os.Stdin.
func NewStdin(in io.Reader, cfg Config) Receiver {
	if in == nil {
		in = os.Stdin
	}
	return &stdinReceiver{in: in, cfg: cfg}
}

func (r *stdinReceiver) Matches(desc string) bool {
	return desc == "stdin"
}

func (r *stdinReceiver) Open(desc string) (Stream, error) {
	sc := bufio.NewScanner(r.in)
	sc.Buffer(make([]byte, 0, 64*1024), r.cfg.MaxLineBytes)
	return &lineStream{scanner: sc}, nil
}

// lineStream yields one message per line, without the line ending.
// End of input ends the stream; that is the relay's one normal exit.
type lineStream struct {
	scanner *bufio.Scanner
}

func (s *lineStream) Next() (string, bool) {
	if s.scanner.Scan() {
		return s.scanner.Text(), true
	}
	if err := s.scanner.Err(); err != nil {
		panic(fmt.Sprintf("read stdin: %v", err))
	}
	return "", false
}

// wstap dials a WebSocket URL and prints every text message it receives,
// one per line. Handy for watching a netpipe fan-out output:
//
//	wstap ws://localhost:9000
//
// Stop with Ctrl+C.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tkntkn/netpipe/internal/receiver"
)

func main() {
	handshakeTimeout := flag.Duration("handshake-timeout", receiver.DefaultConfig().HandshakeTimeout, "WebSocket handshake timeout")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: wstap [flags] ws://host:port/path\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	url := flag.Arg(0)

	// Keep stdout clean for message payloads.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := receiver.DefaultConfig()
	cfg.HandshakeTimeout = *handshakeTimeout

	ws := receiver.NewWebSocket(cfg, logger)
	if !ws.Matches(url) {
		logger.Error("not a websocket url", "url", url)
		os.Exit(2)
	}
	stream, err := ws.Open(url)
	if err != nil {
		logger.Error("failed to connect", "url", url, "error", err)
		os.Exit(1)
	}

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		if c, ok := stream.(io.Closer); ok {
			c.Close()
		}
	}()

	logger.Info("connected", "url", url)

	count := 0
	for {
		msg, ok := stream.Next()
		if !ok {
			break
		}
		fmt.Println(msg)
		count++
	}
	logger.Info("stream ended", "messages", count)
}

// netpipe relays newline-delimited text from one input to any number of
// outputs. The input and outputs are named by descriptors on the command
// line: "stdin"/"stdout", a ws:// URL, or a UDP host:port.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/tkntkn/netpipe/internal/broker"
	"github.com/tkntkn/netpipe/internal/config"
	"github.com/tkntkn/netpipe/internal/receiver"
	"github.com/tkntkn/netpipe/internal/relay"
	"github.com/tkntkn/netpipe/internal/version"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to configuration file (optional)")
		logLevel   = flag.String("log-level", "", "Override log level: debug, info, warn, error")
	)
	flag.Usage = usage
	flag.Parse()

	// Stdout is reserved for relayed messages, so diagnostics go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(2)
	}
	input, outputs := args[0], args[1:]

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadAndValidate(*configPath)
		if err != nil {
			logger.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Error("invalid log level", "error", err)
		os.Exit(1)
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting netpipe",
		"version", version.Version,
		"commit", version.Commit,
		"built", version.BuildTime,
		"input", input,
		"outputs", len(outputs),
	)

	rcfg := receiver.Config{
		QueueCapacity:    cfg.Receiver.QueueCapacity,
		DatagramBuffer:   cfg.Receiver.DatagramBuffer,
		MaxLineBytes:     cfg.Receiver.MaxLineBytes,
		HandshakeTimeout: cfg.Receiver.HandshakeTimeout,
	}
	receivers := []receiver.Receiver{
		receiver.NewStdin(nil, rcfg),
		receiver.NewWebSocket(rcfg, logger),
		receiver.NewDatagram(rcfg, logger),
	}

	in, err := receiver.Select(receivers, input)
	if err != nil {
		logger.Error("cannot handle input", "descriptor", input, "error", err)
		os.Exit(1)
	}
	stream, err := in.Open(input)
	if err != nil {
		logger.Error("failed to open input", "descriptor", input, "error", err)
		os.Exit(1)
	}

	bcfg := broker.Config{
		WriteTimeout: cfg.Broker.WriteTimeout,
		ReadBuffer:   cfg.Broker.ReadBuffer,
		WriteBuffer:  cfg.Broker.WriteBuffer,
	}
	datagram, err := broker.NewDatagram(logger)
	if err != nil {
		logger.Error("failed to open datagram sockets", "error", err)
		os.Exit(1)
	}
	brokers := []broker.Broker{
		broker.NewConsole(nil),
		broker.NewWebSocket(bcfg, logger),
		datagram,
	}

	for _, desc := range outputs {
		if err := broker.Attach(brokers, desc); err != nil {
			logger.Error("failed to attach output", "descriptor", desc, "error", err)
			os.Exit(1)
		}
	}

	logger.Info("relay started")
	relayed := relay.Run(stream, brokers, logger)
	logger.Info("relay finished", "messages", relayed)
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "usage: netpipe [flags] <input> [output...]\n\n")
	fmt.Fprintf(out, "Inputs:  stdin | ws://host:port/path | host:port (UDP listen)\n")
	fmt.Fprintf(out, "Outputs: stdout | ws://host:port (fan-out server) | host:port (UDP send)\n\n")
	fmt.Fprintf(out, "Flags:\n")
	flag.PrintDefaults()
}

// Package broker implements the output side of the relay.
//
// A Broker:
//   - Decides whether it handles an output descriptor (first match wins)
//   - Accepts any number of destinations before relaying starts
//   - Delivers every relayed message to all of its destinations
//
// Built-in brokers, in priority order:
//   - console: the exact descriptor "stdout", newline-terminated writes
//   - websocket: "ws://" descriptors, one fan-out listener per destination
//   - datagram: anything else, one datagram per message per destination
//
// Send is called on every broker for every message, whether or not any
// destination was attached. Delivery failures on a single fan-out
// connection evict that connection; everything else is fatal to the
// process.
package broker

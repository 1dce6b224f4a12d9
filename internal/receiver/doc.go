// Package receiver implements the input side of the relay.
//
// A Receiver:
//   - Decides whether it handles an input descriptor (first match wins)
//   - Opens the descriptor into a pull-based Stream of text messages
//
// Built-in receivers, in priority order:
//   - stdin: the exact descriptor "stdin", reads lines synchronously
//   - websocket: "ws://" descriptors, dials out and reads in the background
//   - datagram: anything else, binds a local UDP address
//
// Background readers hand messages to the relay loop through an unbounded
// FIFO queue, so delivery order always matches arrival order.
package receiver

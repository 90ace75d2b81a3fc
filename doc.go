// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package fbm implements the client side of Fixed Buffer Messaging: a
// stateful, asynchronous request/response core that multiplexes many
// logical message exchanges over a single WebSocket connection.
//
// Semantics and design:
//   - Wire format: each logical message is a sequence of header records
//     (command byte, value bytes, 2-byte terminator) followed by an
//     end-of-headers terminator and then opaque body bytes. The first
//     header record of every message carries its message-id.
//   - Fixed buffers: each in-flight request owns exactly one
//     fixed-capacity buffer, rented from a Pool, written once while
//     building the request and reinterpreted afterward as scratch space
//     for decoding the response's headers.
//   - Correlation: a message-id (positive int32) ties a request to its
//     response. A single pending map, concurrent-safe under many callers
//     and one receive loop, routes inbound bytes back to the waiter that
//     is blocked on them.
//   - Single-writer transport: all outbound frames pass through one
//     send-lock so that a WebSocket connection never interleaves
//     fragments of two logical messages.
//
// The underlying WebSocket transport, the buffer allocator, logging and
// configuration loading are external collaborators specified only at
// their contract boundary (Transport, MemoryManager, Logger, Config).
package fbm

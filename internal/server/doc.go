// Package server implements the WebSocket chat relay: the handshake, the
// connection registry, room and DM routing, and the HTTP endpoints around
// them.
//
// The implementation is organized into specialized files for configuration,
// hub management, clients, the handshake, routing, attachments and HTTP
// handlers. A Server built by New owns one Hub for its whole lifetime; there
// is no package-level state.
package server

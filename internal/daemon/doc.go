// Package daemon wires the card registry, the WebSocket hub, the artwork
// cache, and the catalog search client together behind a single HTTP
// listener, and enforces single-instance execution with a file lock.
package daemon

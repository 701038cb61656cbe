// Package broadcast fans registry change events out to every connected
// WebSocket viewer. Delivery is best-effort: a connection that cannot be
// written to is dropped, nothing is queued or replayed, and reconnecting
// viewers are expected to re-fetch the full snapshot.
package broadcast

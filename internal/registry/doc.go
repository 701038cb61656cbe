// Package registry owns the authoritative in-memory card collection and its
// two on-disk representations. Every mutation, the resulting store write,
// and the broadcast that announces it happen under one lock, so persistence
// order always matches broadcast order.
package registry

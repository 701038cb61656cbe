// Package api defines the wire types shared by the daemon's HTTP surface
// and the cardbox CLI, plus a small client for talking to a running
// daemon.
package api

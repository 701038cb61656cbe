// Command cardbox is the operator CLI for a running cardbox daemon. It
// lists and registers cards, runs catalog searches, and inspects daemon
// status over the HTTP API.
package main

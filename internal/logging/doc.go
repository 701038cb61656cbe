// Package logging builds the slog loggers used across cardbox. It provides
// a console handler for interactive use, a JSON handler for machine
// consumption, and helpers shared by every component that logs.
package logging

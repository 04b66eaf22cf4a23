// Package logging builds slog loggers with console and JSON handlers plus
// typed attribute helpers shared across the repository.
package logging

// Package log defines the structured logging abstraction used by kinship.
//
// Library packages take a [Logger] and default to the no-op implementation,
// so embedding kinship produces no output unless the caller wires one in.
// The CLI wires [ZerologAdapter] over a console zerolog logger.
package log

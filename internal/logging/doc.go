// Package logging assembles the structured slog loggers used by ucdump.
//
// Loggers are built once by the command layer and handed to every
// constructor that needs one; no package keeps a global logger. The console
// format is meant for people watching a terminal, JSON for log collectors.
// With the "auto" format the choice is made by whether the output is a
// terminal.
package logging

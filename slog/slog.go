// Package slog provides logging decorators for newscrawl collaborators.
package slog

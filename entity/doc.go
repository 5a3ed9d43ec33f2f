// Package entity provides the base embedded by every persisted record type:
// system-assigned creation and modification timestamps and the clock that
// produces them.
package entity

// Package models holds the client-side domain types: locally stored
// recipes with their sync status, the login state machine values and the
// closed set of network failures.
package models

import "fmt"

// SyncStatus tells whether the latest local mutation of a recipe reached
// the server.
type SyncStatus string

const (
	NotSynced SyncStatus = "NOT_SYNCED"
	Syncing   SyncStatus = "SYNCING"
	Synced    SyncStatus = "SYNCED"
	SyncError SyncStatus = "SYNC_ERROR"
)

// ParseSyncStatus converts a stored value back to a SyncStatus.
func ParseSyncStatus(s string) (SyncStatus, error) {
	switch st := SyncStatus(s); st {
	case NotSynced, Syncing, Synced, SyncError:
		return st, nil
	}
	return "", fmt.Errorf("unknown sync status %q", s)
}

// Retryable reports whether a record in this status may be mirrored again.
func (s SyncStatus) Retryable() bool {
	switch s {
	case NotSynced, SyncError:
		return true
	case Syncing, Synced:
		return false
	}
	panic(fmt.Sprintf("unhandled sync status %q", string(s)))
}

package models

// Recipe is the local copy of a record plus its sync bookkeeping. Only the
// sync service changes SyncStatus, LastSyncTimestamp and SyncErrorMessage.
type Recipe struct {
	ID        int64
	Title     string
	Body      string
	Timestamp int64
	Owner     string

	SyncStatus        SyncStatus
	LastSyncTimestamp *int64
	SyncErrorMessage  *string
}

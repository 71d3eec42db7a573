package recipes

// Recipe is an owned record. ID is unique across the whole store, Owner is
// the creator's username and never changes. Timestamp is milliseconds since
// the Unix epoch.
type Recipe struct {
	ID        int64  `yaml:"id" json:"id"`
	Title     string `yaml:"title" json:"title"`
	Body      string `yaml:"body" json:"body"`
	Timestamp int64  `yaml:"timestamp" json:"timestamp"`
	Owner     string `yaml:"owner" json:"owner"`
}

// PutRequest is the caller-controlled part of a new recipe. A nil ID asks
// the store to allocate one; a nil Timestamp means "now".
type PutRequest struct {
	ID        *int64 `json:"id,omitempty"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Timestamp *int64 `json:"timestamp,omitempty"`
}

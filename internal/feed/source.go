package feed

import "context"

// UpdateDescription describes the fields touched by an update operation.
type UpdateDescription struct {
	UpdatedFields map[string]interface{} `json:"updatedFields"`
}

// ChangeEvent is one entry of a collection's change feed: the operation
// type, the full post-change document, and for updates the changed fields.
type ChangeEvent struct {
	OperationType     string                 `json:"operationType"`
	FullDocument      map[string]interface{} `json:"fullDocument"`
	UpdateDescription *UpdateDescription     `json:"updateDescription,omitempty"`
}

// String reads a string-valued field from the full document. Returns the
// empty string when the field is absent or not a string.
func (e *ChangeEvent) String(field string) string {
	if e.FullDocument == nil {
		return ""
	}
	s, _ := e.FullDocument[field].(string)
	return s
}

// Float reads a numeric field from the full document.
func (e *ChangeEvent) Float(field string) (float64, bool) {
	if e.FullDocument == nil {
		return 0, false
	}
	f, ok := e.FullDocument[field].(float64)
	return f, ok
}

// Source is a blocking iterator over an effectively-infinite change feed.
// Next suspends until the next event arrives or ctx is cancelled; a returned
// error means the feed connection is lost and the consumer should stop.
type Source interface {
	Next(ctx context.Context) (*ChangeEvent, error)
	Close() error
}

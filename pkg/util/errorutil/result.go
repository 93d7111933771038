package errorutil

// Result reports the outcome of an optimistic write. Applied means the local
// state was changed; Synced means the backend accepted the write. A write
// that is Applied but not Synced will be reconciled by the next poll.
type Result struct {
	Applied bool
	Synced  bool
	Err     error
}

// SyncedResult is the result of a write both applied locally and accepted remotely.
func SyncedResult() Result {
	return Result{Applied: true, Synced: true}
}

// Failed is the result of a write the backend refused before anything
// changed locally.
func Failed(err error) Result {
	return Result{Err: err}
}

// Unsynced is the result of a write applied locally that the backend did not
// accept.
func Unsynced(err error) Result {
	return Result{Applied: true, Err: err}
}

// OK reports whether the write reached the backend.
func (r Result) OK() bool {
	return r.Err == nil && r.Synced
}

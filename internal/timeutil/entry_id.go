package timeutil

// NextEntryID returns a ledger entry ID derived from the creation time:
// the current IST instant in milliseconds, bumped past lastID when two
// entries land in the same millisecond. IDs are unique and increasing
// within one mart's ledger, nothing more.
func NextEntryID(lastID int64) int64 {
	id := Now().UnixMilli()
	if id <= lastID {
		id = lastID + 1
	}
	return id
}

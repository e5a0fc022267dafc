package timeutil

import "testing"

func TestNextEntryID_Increasing(t *testing.T) {
	var last int64
	for i := 0; i < 1000; i++ {
		id := NextEntryID(last)
		if id <= last {
			t.Fatalf("id %d not greater than previous %d", id, last)
		}
		last = id
	}
}

func TestNextEntryID_BumpsPastFutureLast(t *testing.T) {
	// a last ID recorded "in the future" (clock skew) must still yield a
	// strictly greater ID
	last := Now().UnixMilli() + 10_000
	id := NextEntryID(last)
	if id != last+1 {
		t.Errorf("expected %d, got %d", last+1, id)
	}
}

package mfs

import "time"

// MFS timestamps count seconds from midnight, 1 January 1904, UTC.
// The on-disk epoch sits 2,082,844,800 seconds before the Unix epoch.
const macEpochDelta = 2082844800

// macTime converts an on-disk timestamp to wall-clock time.
// A stored zero means "no date" and maps to the zero time.Time.
func macTime(stamp uint32) time.Time {
	if stamp == 0 {
		return time.Time{}
	}
	return time.Unix(int64(stamp)-macEpochDelta, 0).UTC()
}

// macStamp converts a wall-clock time to an on-disk timestamp.
func macStamp(t time.Time) uint32 {
	if t.IsZero() {
		return 0
	}
	return uint32(t.Unix() + macEpochDelta)
}

package repository

import "time"

// sampleTime is a fixed timestamp for rows returned by sqlmock.
func sampleTime() time.Time {
	return time.Date(2025, 6, 1, 19, 30, 0, 0, time.UTC)
}

package util

import "time"

// TimeMicroseconds runs op and reports how long it took.
func TimeMicroseconds(op func() error) (int64, error) {
	start := time.Now()
	err := op()
	return time.Since(start).Microseconds(), err
}

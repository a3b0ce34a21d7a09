package repository

import "errors"

// ErrNotFound is returned by Get* methods when no entity matches the id.
// Callers distinguish it from programming errors with errors.Is.
var ErrNotFound = errors.New("not found")

// clampPage normalizes page/size and returns the [start, end) window over
// total items.
func clampPage(total, page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return start, end
}

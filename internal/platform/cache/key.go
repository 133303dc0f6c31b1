package cache

import "strings"

// keySeparator is the ASCII unit separator. Argument values never contain it,
// so joined keys cannot collide the way delimiter characters inside an
// argument (e.g. a tournament id with a colon) would.
const keySeparator = "\x1f"

// Key builds a deterministic cache key from an operation name and its
// ordered arguments.
func Key(op string, args ...string) string {
	if len(args) == 0 {
		return op
	}
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, op)
	parts = append(parts, args...)
	return strings.Join(parts, keySeparator)
}

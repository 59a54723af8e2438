package compose

import "strings"

// reservedChars are characters rejected by at least one supported
// filesystem (Windows in particular).
const reservedChars = `<>:"/\|?*`

// Sanitize replaces characters not allowed in filenames on all
// supported systems with underscores.
func Sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(reservedChars, r) {
			return '_'
		}
		return r
	}, name)
}

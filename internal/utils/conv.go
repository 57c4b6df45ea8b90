package utils

import "strconv"

// StringToInt parses s as a decimal number; anything malformed maps
// to 0, which callers treat as absent.
func StringToInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

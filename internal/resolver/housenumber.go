package resolver

import "strconv"

// parseHouseNumber extracts the numeric part of a house-number field by
// dropping every non-digit rune ("12a", "№ 12" -> 12). Returns 0 when
// nothing usable remains; callers treat 0 as "no house number".
func parseHouseNumber(s string) int {
	digits := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) == 0 {
		return 0
	}
	n, err := strconv.Atoi(string(digits))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

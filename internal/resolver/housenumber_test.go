package resolver

import "testing"

func TestParseHouseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"12", 12},
		{"12a", 12},
		{"№ 12", 12},
		{" 5/1 ", 51},
		{"500", 500},
		{"", 0},
		{"abc", 0},
		{"0", 0},
		{"00", 0},
		{"-7", 7},
	}

	for _, tt := range tests {
		if got := parseHouseNumber(tt.input); got != tt.want {
			t.Errorf("parseHouseNumber(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

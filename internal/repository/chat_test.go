package repository

import "testing"

func TestNormalizePair(t *testing.T) {
	tests := []struct {
		a, b       string
		wantFirst  string
		wantSecond string
	}{
		{"aaa", "bbb", "aaa", "bbb"},
		{"bbb", "aaa", "aaa", "bbb"},
		{"same", "same", "same", "same"},
	}

	for _, tt := range tests {
		first, second := normalizePair(tt.a, tt.b)
		if first != tt.wantFirst || second != tt.wantSecond {
			t.Errorf("normalizePair(%q, %q) = (%q, %q), want (%q, %q)",
				tt.a, tt.b, first, second, tt.wantFirst, tt.wantSecond)
		}
	}
}

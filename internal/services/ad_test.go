package services

import "testing"

func TestClampPrice(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		want  float64
	}{
		{"positive stays", 49.99, 49.99},
		{"zero means free", 0, 0},
		{"negative clamps to free", -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampPrice(tt.price); got != tt.want {
				t.Errorf("clampPrice(%v) = %v, want %v", tt.price, got, tt.want)
			}
		})
	}
}

package common

import "testing"

func TestCoalesce(t *testing.T) {
	tests := []struct {
		name   string
		values []uint32
		want   uint32
	}{
		{"empty", nil, 0},
		{"all zero", []uint32{0, 0}, 0},
		{"first non-zero", []uint32{0, 7, 9}, 7},
		{"leading value", []uint32{3, 0}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Coalesce(tt.values...); got != tt.want {
				t.Errorf("Coalesce(%v) = %d, want %d", tt.values, got, tt.want)
			}
		})
	}
}

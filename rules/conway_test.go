package rules

import "testing"

func TestConway(t *testing.T) {
	tests := []struct {
		name      string
		neighbors int
		alive     bool
		want      bool
	}{
		{"live underpopulated 0", 0, true, false},
		{"live underpopulated 1", 1, true, false},
		{"live survives 2", 2, true, true},
		{"live survives 3", 3, true, true},
		{"live overpopulated 4", 4, true, false},
		{"live overpopulated 8", 8, true, false},
		{"dead stays dead 2", 2, false, false},
		{"dead born 3", 3, false, true},
		{"dead stays dead 4", 4, false, false},
		{"dead stays dead 0", 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Conway(tt.neighbors, tt.alive); got != tt.want {
				t.Errorf("Conway(%d, %v) = %v, want %v", tt.neighbors, tt.alive, got, tt.want)
			}
		})
	}
}

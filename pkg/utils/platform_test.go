//go:build !mobile

package utils

import "testing"

func TestIsMobileEmulation(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"0", false},
		{"yes", false},
		{"1", true},
		{"true", true},
		{"TRUE", true},
	}
	for _, tt := range tests {
		t.Run("value="+tt.value, func(t *testing.T) {
			t.Setenv(MobileEmulateEnv, tt.value)
			if got := IsMobile(); got != tt.want {
				t.Errorf("IsMobile() with %s=%q = %v, want %v", MobileEmulateEnv, tt.value, got, tt.want)
			}
		})
	}
}

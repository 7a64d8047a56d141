package orchestrator

import "testing"

func TestIsValidName(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"ok_123", true},
		{"abc", true},
		{"abcdefghij", true},
		{"ab", false},
		{"toolongname1", false},
		{"has space", false},
		{"dash-name", false},
		{"", false},
		{"   ", false},
		{"Päivi", false},
	}

	for _, tc := range cases {
		if got := IsValidName(tc.name); got != tc.want {
			t.Fatalf("IsValidName(%q) = %v; want %v", tc.name, got, tc.want)
		}
	}
}

package utils

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Cozy Family House", "cozy-family-house"},
		{"  Downtown Loft!  ", "downtown-loft"},
		{"3BR / 2BA Condo", "3br-2ba-condo"},
		{"---", ""},
		{"", ""},
		{"Ocean View #12", "ocean-view-12"},
		{"Multiple   Spaces", "multiple-spaces"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

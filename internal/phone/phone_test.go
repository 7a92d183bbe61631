package phone

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "ten digit national number gets country code",
			in:   "555-123-4567",
			want: "15551234567",
		},
		{
			name: "already prefixed number passes through",
			in:   "1 555 123 4567",
			want: "15551234567",
		},
		{
			name: "international number is only stripped",
			in:   "52 1 55 1234 5678",
			want: "5215512345678",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "no digits at all",
			in:   "n/a",
			want: "",
		},
		{
			name: "punctuation and parentheses",
			in:   "(555) 123-4567",
			want: "15551234567",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

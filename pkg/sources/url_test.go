package sources

import "testing"

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://sibnet.ru/v/1", true},
		{"http://vudeo.net/embed-1.html", true},
		{"ftp://files.example.com/x", true},
		{"sibnet.ru/v/1", false},
		{"https://", false},
		{"mailto:someone@example.com", false},
		{"https://a b.com/x", false},
		{"", false},
		{"not a url", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := IsValidURL(tt.in); got != tt.want {
				t.Errorf("IsValidURL(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

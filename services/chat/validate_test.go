package chat

import "testing"

func TestValidEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"a@b.com", true},
		{"user.name+tag@example.co.in", true},
		{"jane@x.com", true},
		{"ab.com", false},
		{"a@bcom", false},
		{"a@b.", false},
		{"@b.com", false},
		{"a@@b.com", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ValidEmail(c.email); got != c.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", c.email, got, c.want)
		}
	}
}

func TestValidPhoneExact(t *testing.T) {
	cases := []struct {
		phone string
		want  bool
	}{
		{"9876543210", true},
		{"98765-43210", true},
		{"(987) 654-3210", true},
		{"+91 98765 43210", false}, // 12 digits, exact mode
		{"987654321", false},
		{"", false},
		{"no digits here", false},
	}
	for _, c := range cases {
		if got := ValidPhone(c.phone, 10, true); got != c.want {
			t.Errorf("ValidPhone(%q, 10, exact) = %v, want %v", c.phone, got, c.want)
		}
	}
}

func TestValidPhoneMinimum(t *testing.T) {
	cases := []struct {
		phone string
		want  bool
	}{
		{"9876543210", true},
		{"+91 98765 43210", true}, // 12 digits pass in minimum mode
		{"98-76-54-32-10-99", true},
		{"987654321", false},
	}
	for _, c := range cases {
		if got := ValidPhone(c.phone, 10, false); got != c.want {
			t.Errorf("ValidPhone(%q, 10, min) = %v, want %v", c.phone, got, c.want)
		}
	}
}

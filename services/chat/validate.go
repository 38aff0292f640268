package chat

import "regexp"

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether s has a local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidPhone strips all non-digit characters and checks the digit count
// against minDigits. With exact set, the count must match minDigits;
// otherwise minDigits is a lower bound.
func ValidPhone(s string, minDigits int, exact bool) bool {
	n := len(digitsOf(s))
	if exact {
		return n == minDigits
	}
	return n >= minDigits
}

func digitsOf(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

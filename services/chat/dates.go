package chat

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var monthNumbers = map[string]int{
	"january": 1, "jan": 1,
	"february": 2, "feb": 2,
	"march": 3, "mar": 3,
	"april": 4, "apr": 4,
	"may": 5,
	"june": 6, "jun": 6,
	"july": 7, "jul": 7,
	"august": 8, "aug": 8,
	"september": 9, "sep": 9, "sept": 9,
	"october": 10, "oct": 10,
	"november": 11, "nov": 11,
	"december": 12, "dec": 12,
}

// Leading filler phrases stripped before parsing, longest first.
var dateFillers = []string{
	"planning to visit on the ",
	"planning to visit on ",
	"visit on the ",
	"visit on ",
	"come on ",
	"on the ",
	"on ",
}

var (
	dayMonthPattern = regexp.MustCompile(`^(\d{1,2})(?:st|nd|rd|th)?\s+([a-z]+)\.?(?:,?\s+(\d{2,4}))?$`)
	monthDayPattern = regexp.MustCompile(`^([a-z]+)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{2,4}))?$`)
	numericPattern  = regexp.MustCompile(`^(\d{1,2})[-/.](\d{1,2})(?:[-/.](\d{2,4}))?$`)
)

// NormalizeDate converts a loosely formatted date expression into
// DD/MM/YYYY. A missing year defaults to the year of now; two-digit years
// are expanded with a "20" prefix. If no known pattern matches, the input
// is returned unchanged so downstream steps can carry it as-is.
func NormalizeDate(s string, now time.Time) string {
	text := strings.ToLower(strings.TrimSpace(s))
	for _, filler := range dateFillers {
		if strings.HasPrefix(text, filler) {
			text = strings.TrimSpace(strings.TrimPrefix(text, filler))
			break
		}
	}

	if m := dayMonthPattern.FindStringSubmatch(text); m != nil {
		if month, ok := monthNumbers[m[2]]; ok {
			if out, ok := formatDate(m[1], month, m[3], now); ok {
				return out
			}
		}
	}
	if m := monthDayPattern.FindStringSubmatch(text); m != nil {
		if month, ok := monthNumbers[m[1]]; ok {
			if out, ok := formatDate(m[2], month, m[3], now); ok {
				return out
			}
		}
	}
	if m := numericPattern.FindStringSubmatch(text); m != nil {
		if month, err := strconv.Atoi(m[2]); err == nil && month >= 1 && month <= 12 {
			if out, ok := formatDate(m[1], month, m[3], now); ok {
				return out
			}
		}
	}

	return s
}

func formatDate(dayStr string, month int, yearStr string, now time.Time) (string, bool) {
	day, _ := strconv.Atoi(dayStr)
	if day < 1 || day > 31 {
		return "", false
	}
	year := now.Year()
	if yearStr != "" {
		if len(yearStr) == 2 {
			yearStr = "20" + yearStr
		}
		year, _ = strconv.Atoi(yearStr)
	}
	return fmt.Sprintf("%02d/%02d/%04d", day, month, year), true
}

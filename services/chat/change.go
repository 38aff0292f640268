package chat

import (
	"regexp"
	"strings"
	"time"
)

// Fields a change request may target.
const (
	FieldName      = "name"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldVisitDate = "visit_date"
)

// ChangeRequest is a recognized mid-flow correction of a previously
// submitted field.
type ChangeRequest struct {
	Field string
	Value string
}

// changeRule maps one canonical phrasing onto a target field. Rules are
// tried in order and the first match wins, so new phrasings are additive.
type changeRule struct {
	pattern *regexp.Regexp
	// field overrides the captured field word when non-empty (used by the
	// visit-date-only phrasings that carry no field word).
	field string
}

var changeRules = []changeRule{
	{pattern: regexp.MustCompile(`(?i)^change\s+(?:my\s+|the\s+)?(name|email|phone(?:\s+number)?|visit\s+date|date)\s+(?:to|from)\s+(.+)$`)},
	{pattern: regexp.MustCompile(`(?i)^(?:update|correct)\s+(?:my\s+|the\s+)?(name|email|phone(?:\s+number)?|visit\s+date|date)\s+to\s+(.+)$`)},
	{pattern: regexp.MustCompile(`(?i)^my\s+(name|email|phone(?:\s+number)?|visit\s+date)\s+is\s+(?:actually|not)\s+(.+)$`)},
	{pattern: regexp.MustCompile(`(?i)^(?:i\s+am\s+|i'm\s+)?planning\s+to\s+visit\s+on\s+(?:the\s+)?(.+)$`), field: FieldVisitDate},
	{pattern: regexp.MustCompile(`(?i)^visit\s+on\s+(?:the\s+)?(.+)$`), field: FieldVisitDate},
}

// DetectChange checks the message against the change-request rule table.
// Visit-date values come back already normalized.
func DetectChange(message string, now time.Time) (ChangeRequest, bool) {
	text := strings.TrimSpace(message)
	for _, rule := range changeRules {
		m := rule.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		req := ChangeRequest{Field: rule.field}
		if req.Field == "" {
			req.Field = canonicalField(m[1])
			req.Value = strings.TrimSpace(m[2])
		} else {
			req.Value = strings.TrimSpace(m[1])
		}
		if req.Field == FieldVisitDate {
			req.Value = NormalizeDate(req.Value, now)
		}
		return req, true
	}
	return ChangeRequest{}, false
}

func canonicalField(word string) string {
	switch strings.ToLower(strings.Join(strings.Fields(word), " ")) {
	case "name":
		return FieldName
	case "email":
		return FieldEmail
	case "phone", "phone number":
		return FieldPhone
	default:
		return FieldVisitDate
	}
}

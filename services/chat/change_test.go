package chat

import (
	"testing"
	"time"
)

func TestDetectChange(t *testing.T) {
	now := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		message string
		field   string
		value   string
	}{
		{"change my name to Bob", FieldName, "Bob"},
		{"Change the email to bob@example.com", FieldEmail, "bob@example.com"},
		{"change my phone number to 9876543210", FieldPhone, "9876543210"},
		{"update my email to new@example.com", FieldEmail, "new@example.com"},
		{"correct the name to Alice Smith", FieldName, "Alice Smith"},
		{"my phone is actually 9123456780", FieldPhone, "9123456780"},
		{"my name is not Jane", FieldName, "Jane"},
		{"change my visit date to 22nd may", FieldVisitDate, "22/05/2024"},
		{"change the date to 05/06/2023", FieldVisitDate, "05/06/2023"},
		{"planning to visit on 22 may", FieldVisitDate, "22/05/2024"},
		{"I'm planning to visit on the 3rd june", FieldVisitDate, "03/06/2024"},
		{"visit on the 15th august", FieldVisitDate, "15/08/2024"},
	}
	for _, c := range cases {
		req, ok := DetectChange(c.message, now)
		if !ok {
			t.Errorf("DetectChange(%q): no match", c.message)
			continue
		}
		if req.Field != c.field || req.Value != c.value {
			t.Errorf("DetectChange(%q) = {%s %q}, want {%s %q}",
				c.message, req.Field, req.Value, c.field, c.value)
		}
	}
}

func TestDetectChangeNoMatch(t *testing.T) {
	now := time.Now()
	for _, message := range []string{
		"hello there",
		"book tickets",
		"Jane Doe",
		"my name is Jane", // a statement, not a correction
		"2 adult tickets",
		"payment_completed",
	} {
		if req, ok := DetectChange(message, now); ok {
			t.Errorf("DetectChange(%q) matched unexpectedly: %+v", message, req)
		}
	}
}

// Package format renders dataset values for display in the workspace views.
package format

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Placeholder is rendered for missing or blank cells.
const Placeholder = "—"

const ellipsis = "…"

// Stringify converts a decoded JSON value into its plain string form.
// Arrays are joined with commas, nil becomes the empty string.
func Stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case []interface{}:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = Stringify(item)
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(v, ",")
	default:
		return fmt.Sprint(v)
	}
}

// IsBlank reports whether a value is nil or whitespace only.
func IsBlank(value interface{}) bool {
	if value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v) == ""
	case []interface{}:
		return len(v) == 0
	}
	return false
}

// CellValue renders a record field for a table cell.
func CellValue(key string, value interface{}) string {
	if value == nil {
		return Placeholder
	}
	if s, ok := value.(string); ok && s == "" {
		return Placeholder
	}

	switch v := value.(type) {
	case []interface{}:
		if len(v) == 0 {
			return Placeholder
		}
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = Stringify(item)
		}
		return strings.Join(parts, ", ")
	case []string:
		if len(v) == 0 {
			return Placeholder
		}
		return strings.Join(v, ", ")
	}

	switch key {
	case "maxHoursPerDay":
		return Stringify(value) + " hrs/day"
	case "email":
		return Email(Stringify(value))
	}
	return Stringify(value)
}

// Email lower-cases and trims an address.
func Email(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return Placeholder
	}
	return normalized
}

// EmailPreview shortens the local part so the address fits in maxLength runes
// while keeping the domain readable.
func EmailPreview(email string, maxLength int) string {
	normalized := Email(email)
	if normalized == Placeholder || utf8.RuneCountInString(normalized) <= maxLength {
		return normalized
	}

	local, domain, found := strings.Cut(normalized, "@")
	if !found || domain == "" {
		return MiddleTruncate(normalized, 6, 6)
	}

	available := maxLength - utf8.RuneCountInString(domain) - 2
	if available < 3 {
		available = 3
	}
	return prefix(local, available) + ellipsis + "@" + domain
}

// MiddleTruncate keeps lead and tail runes around an ellipsis.
func MiddleTruncate(text string, lead, tail int) string {
	runes := []rune(text)
	if len(runes) <= lead+tail+1 {
		return text
	}
	return string(runes[:lead]) + ellipsis + string(runes[len(runes)-tail:])
}

// Truncate cuts text to maxLength runes and appends an ellipsis.
func Truncate(text string, maxLength int) string {
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}
	return prefix(text, maxLength) + ellipsis
}

// DateTime renders t as "Jan 2, 2006, 15:04".
func DateTime(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return t.Format("Jan 2, 2006, 15:04")
}

// Count pluralizes a noun; an empty plural appends "s".
func Count(count int, singular, plural string) string {
	if plural == "" {
		plural = singular + "s"
	}
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

func prefix(text string, n int) string {
	runes := []rune(text)
	if n >= len(runes) {
		return text
	}
	return string(runes[:n])
}

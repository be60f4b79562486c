// Package phone normalizes phone numbers to E.164 for contact records.
package phone

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Normalize parses raw into E.164 using defaultRegion (ISO 3166-1 alpha-2,
// e.g. "SN", "CI") when raw carries no country prefix. Returns an error for
// numbers libphonenumber considers invalid.
func Normalize(raw, defaultRegion string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty phone number")
	}

	num, err := phonenumbers.Parse(raw, defaultRegion)
	if err != nil {
		return "", fmt.Errorf("parse phone %q: %w", raw, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("invalid phone number %q for region %s", raw, defaultRegion)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// NormalizeOrKeep normalizes raw and falls back to the trimmed input when it
// cannot be parsed. Used on wizard patches where a half-typed number must not
// block the update path.
func NormalizeOrKeep(raw, defaultRegion string) string {
	if normalized, err := Normalize(raw, defaultRegion); err == nil {
		return normalized
	}
	return strings.TrimSpace(raw)
}

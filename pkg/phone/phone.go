package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NationalFormat renders an international calling format number in its
// national dialing convention, e.g. "+233248000000" becomes "024 800 0000".
// The second return value is false when the input cannot be parsed; callers
// that only need best-effort derivation should treat that as an empty result
// rather than an error.
func NationalFormat(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	parsed, err := phonenumbers.Parse(raw, "")
	if err != nil {
		return "", false
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", false
	}

	return phonenumbers.Format(parsed, phonenumbers.NATIONAL), true
}

// InternationalFormat renders a number in E.164 form when parseable.
func InternationalFormat(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	parsed, err := phonenumbers.Parse(raw, "")
	if err != nil {
		return "", false
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", false
	}

	return phonenumbers.Format(parsed, phonenumbers.E164), true
}

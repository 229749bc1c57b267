package sanitizer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reSlugInvalid     = regexp.MustCompile(`[^0-9a-z\-]+`)
	reMultiUnderscore = regexp.MustCompile(`_+`)
	reLooksLikePhone  = regexp.MustCompile(`^\+?[0-9 ().\-]{6,24}$`)
)

func trimAndLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func collapseUnderscores(s string) string {
	s = reMultiUnderscore.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// TrimAndNormalize trims the input and collapses every whitespace run into a
// single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
			continue
		}
		result.WriteRune(r)
		lastWasSpace = false
	}
	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeEmail(email string) string {
	return trimAndLower(email)
}

// NormalizeSlug turns a display label such as "Sony A7 III" into an item id
// like "sony_a7_iii". Hyphens are kept.
func NormalizeSlug(input string) string {
	p := Pipeline{
		trimAndLower,
		func(s string) string { return reSlugInvalid.ReplaceAllString(s, "_") },
		collapseUnderscores,
	}
	return p.Apply(input)
}

// NormalizeContact formats phone numbers as E.164 using defaultRegion for
// numbers without a country code. Anything that does not look like a phone
// number (a handle, an email) is only trimmed.
func NormalizeContact(contact, defaultRegion string) string {
	contact = TrimAndNormalize(contact)
	if contact == "" || !reLooksLikePhone.MatchString(contact) {
		return contact
	}
	if phone := NormalizePhone(contact, defaultRegion); phone != "" {
		return phone
	}
	return contact
}

// NormalizePhone returns the E.164 form of phone or "" when it cannot be
// parsed as a valid number.
func NormalizePhone(phone, defaultRegion string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	parsed, err := phonenumbers.Parse(phone, strings.ToUpper(defaultRegion))
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return ""
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}

// NormalizeOptional applies strategy to *s and returns nil when the result is
// empty.
func NormalizeOptional(s *string, strategy Strategy) *string {
	if s == nil {
		return nil
	}
	v := strategy(*s)
	if v == "" {
		return nil
	}
	return &v
}

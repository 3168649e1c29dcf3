package models

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Field length limits
const (
	MaxNameLength  = 50
	MaxEmailLength = 254
	MaxPhoneLength = 15
)

// WriteMode selects which required-field rules apply to a candidate
type WriteMode int

const (
	// ModeCreate requires every string field
	ModeCreate WriteMode = iota
	// ModeReplace is a full update and requires every string field
	ModeReplace
	// ModePartial only validates fields that are present
	ModePartial
)

// CustomerInput is a candidate record submitted for create or update.
// A nil field is absent from the request.
type CustomerInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	IsActive  *bool   `json:"is_active"`
}

var (
	dangerousPattern = regexp.MustCompile(
		`(?i)<script|<iframe|<object|<embed|javascript:|data:|on\w+=` +
			`|<\s*/?\s*(script|iframe|object|embed|svg|img)`,
	)
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s\-'.]+$`)
	phonePattern = regexp.MustCompile(`^\d{3}-\d{4}$|^\d{10}$|^\+?1?\d{9,15}$`)

	validate = validator.New()
)

type fieldRule struct {
	name     string
	label    string
	maxLen   int
	value    func(in *CustomerInput) **string
	shape    func(v string) (ErrorKind, string, bool)
	canonize func(v string) string
}

var customerRules = []fieldRule{
	{
		name:     FieldFirstName,
		label:    "First name",
		maxLen:   MaxNameLength,
		value:    func(in *CustomerInput) **string { return &in.FirstName },
		shape:    nameShape("First name"),
		canonize: titleCase,
	},
	{
		name:     FieldLastName,
		label:    "Last name",
		maxLen:   MaxNameLength,
		value:    func(in *CustomerInput) **string { return &in.LastName },
		shape:    nameShape("Last name"),
		canonize: titleCase,
	},
	{
		name:   FieldEmail,
		label:  "Email",
		maxLen: MaxEmailLength,
		value:  func(in *CustomerInput) **string { return &in.Email },
		shape: func(v string) (ErrorKind, string, bool) {
			if err := validate.Var(v, "email"); err != nil {
				return KindInvalidFormat, "Enter a valid email address.", false
			}
			return "", "", true
		},
		canonize: strings.ToLower,
	},
	{
		name:   FieldPhone,
		label:  "Phone number",
		maxLen: MaxPhoneLength,
		value:  func(in *CustomerInput) **string { return &in.Phone },
		shape: func(v string) (ErrorKind, string, bool) {
			if !phonePattern.MatchString(v) {
				return KindInvalidFormat, "Phone number must be in format: 'XXX-XXXX' or '1234567890'", false
			}
			return "", "", true
		},
		canonize: func(v string) string { return v },
	},
}

func nameShape(label string) func(string) (ErrorKind, string, bool) {
	return func(v string) (ErrorKind, string, bool) {
		if !namePattern.MatchString(v) {
			return KindInvalidCharacters, label + " contains invalid characters.", false
		}
		return "", "", true
	}
}

// Normalize runs the validation pipeline over every field of the candidate and
// returns a copy holding trimmed, canonical values for the fields that passed.
// Every field is checked even when another one fails; within one field the
// first failing step wins. The error is nil when all fields passed.
// Email uniqueness needs the store and is left to the caller.
func (in *CustomerInput) Normalize(mode WriteMode) (*CustomerInput, *ValidationError) {
	out := &CustomerInput{IsActive: in.IsActive}
	verr := NewValidationError()

	for _, rule := range customerRules {
		raw := *rule.value(in)
		if raw == nil {
			if mode != ModePartial {
				verr.Add(rule.name, KindRequired, "This field is required.")
			}
			continue
		}

		v, kind, msg, ok := rule.check(*raw)
		if !ok {
			verr.Add(rule.name, kind, msg)
			continue
		}
		*rule.value(out) = &v
	}

	if verr.Empty() {
		return out, nil
	}
	return out, verr
}

func (r fieldRule) check(raw string) (string, ErrorKind, string, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", KindRequired, "This field may not be blank.", false
	}
	if dangerousPattern.MatchString(v) {
		return "", KindUnsafeContent, r.label + " contains invalid characters.", false
	}
	if utf8.RuneCountInString(v) > r.maxLen {
		return "", KindTooLong, r.label + " is too long.", false
	}
	if kind, msg, ok := r.shape(v); !ok {
		return "", kind, msg, false
	}
	return r.canonize(v), "", "", true
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest, so "o'BRIEN-smith" becomes "O'Brien-Smith".
func titleCase(s string) string {
	caser := cases.Title(language.Und)

	var b strings.Builder
	b.Grow(len(s))
	start := -1
	for i, r := range s {
		if unicode.IsLetter(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			b.WriteString(caser.String(s[start:i]))
			start = -1
		}
		b.WriteRune(r)
	}
	if start >= 0 {
		b.WriteString(caser.String(s[start:]))
	}
	return b.String()
}

// Package validate checks alarm form input. Every check is pure and reports
// problems as values; nothing here performs I/O.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"alarm-clock-backend/internal/parse"
)

// MaxTitleLength is the longest accepted title, in characters.
const MaxTitleLength = 50

// Reason identifies why a field failed validation.
type Reason string

const (
	ReasonEmptyField    Reason = "empty_field"
	ReasonTooLong       Reason = "too_long"
	ReasonInvalidChars  Reason = "invalid_chars"
	ReasonMalformedTime Reason = "malformed_time"
	ReasonOutOfRange    Reason = "out_of_range"
)

// Field names a validated form field.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldTime        Field = "time"
)

// lettersRe accepts ASCII letters and any whitespace, including vertical tab,
// no-break and other Unicode space separators, line/paragraph separators and
// the byte order mark.
var lettersRe = regexp.MustCompile(`^[a-zA-Z\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}]*$`)

func isBlank(s string) bool {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	}) == ""
}

// FieldError describes a single failed field.
type FieldError struct {
	Field   Field  `json:"field"`
	Reason  Reason `json:"reason"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Result holds the outcome of validating a whole alarm form. A nil field
// error means that field is valid.
type Result struct {
	Title       *FieldError `json:"title,omitempty"`
	Description *FieldError `json:"description,omitempty"`
	Time        *FieldError `json:"time,omitempty"`
}

// Valid reports whether every field passed.
func (r Result) Valid() bool {
	return r.Title == nil && r.Description == nil && r.Time == nil
}

// Errors returns the failing fields in form order.
func (r Result) Errors() []*FieldError {
	var errs []*FieldError
	for _, e := range []*FieldError{r.Title, r.Description, r.Time} {
		if e != nil {
			errs = append(errs, e)
		}
	}
	return errs
}

// Alarm validates all three fields of an alarm form.
func Alarm(title, description, time string) Result {
	return Result{
		Title:       Title(title),
		Description: Description(description),
		Time:        Time(time),
	}
}

// Title checks a title: non-blank, at most MaxTitleLength characters, letters
// and whitespace only. The first failing rule is reported.
func Title(s string) *FieldError {
	switch {
	case isBlank(s):
		return fieldError(FieldTitle, ReasonEmptyField, "Title cannot be empty")
	case utf8.RuneCountInString(s) > MaxTitleLength:
		return fieldError(FieldTitle, ReasonTooLong, fmt.Sprintf("Title cannot be longer than %d characters", MaxTitleLength))
	case !lettersRe.MatchString(s):
		return fieldError(FieldTitle, ReasonInvalidChars, "Title should only contain letters and spaces")
	}
	return nil
}

// Description checks a description: non-blank, letters and whitespace only.
func Description(s string) *FieldError {
	switch {
	case isBlank(s):
		return fieldError(FieldDescription, ReasonEmptyField, "Description cannot be empty")
	case !lettersRe.MatchString(s):
		return fieldError(FieldDescription, ReasonInvalidChars, "Description should only contain letters and spaces")
	}
	return nil
}

// Time checks an HH:MM value.
func Time(s string) *FieldError {
	_, err := parse.ParseClock(s)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, parse.ErrClockOutOfRange):
		return fieldError(FieldTime, ReasonOutOfRange, "Hours must be between 0-23 and minutes between 0-59")
	default:
		return fieldError(FieldTime, ReasonMalformedTime, "Invalid time format")
	}
}

// ErrUnknownField is returned by Check for a field name it does not know.
var ErrUnknownField = errors.New("unknown field")

// Check validates a single named field, as a form does on change or blur.
func Check(field Field, value string) (*FieldError, error) {
	switch field {
	case FieldTitle:
		return Title(value), nil
	case FieldDescription:
		return Description(value), nil
	case FieldTime:
		return Time(value), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
}

func fieldError(field Field, reason Reason, msg string) *FieldError {
	return &FieldError{Field: field, Reason: reason, Message: msg}
}

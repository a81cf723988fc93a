package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reasonOf(e *FieldError) Reason {
	if e == nil {
		return ""
	}
	return e.Reason
}

func TestTitle(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  Reason
	}{
		{name: "Plain words", input: "Wake Up", want: ""},
		{name: "Exactly fifty letters", input: strings.Repeat("a", 50), want: ""},
		{name: "Fifty one letters", input: strings.Repeat("a", 51), want: ReasonTooLong},
		{name: "Empty", input: "", want: ReasonEmptyField},
		{name: "Only whitespace", input: "  \t ", want: ReasonEmptyField},
		{name: "Digit", input: "Wake 2", want: ReasonInvalidChars},
		{name: "Symbol", input: "Wake!", want: ReasonInvalidChars},
		{name: "Accented letter", input: "Café", want: ReasonInvalidChars},
		{name: "No-break space", input: "Wake\u00a0Up", want: ""},
		{name: "Vertical tab", input: "Wake\vUp", want: ""},
		{name: "Ideographic space", input: "Wake\u3000Up", want: ""},
		{name: "Byte order mark", input: "\ufeffWake Up", want: ""},
		{name: "Only no-break spaces", input: "\u00a0\u00a0", want: ReasonEmptyField},
		{name: "Only byte order mark", input: "\ufeff", want: ReasonEmptyField},
		{name: "Too long wins over invalid chars", input: strings.Repeat("1", 51), want: ReasonTooLong},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, reasonOf(Title(tc.input)))
		})
	}
}

func TestDescription(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  Reason
	}{
		{name: "Plain words", input: "Morning run", want: ""},
		{name: "No length cap", input: strings.Repeat("ab ", 200), want: ""},
		{name: "Empty", input: "", want: ReasonEmptyField},
		{name: "Blank", input: "   ", want: ReasonEmptyField},
		{name: "Digit", input: "run 5k", want: ReasonInvalidChars},
		{name: "Punctuation", input: "run, then eat", want: ReasonInvalidChars},
		{name: "Unicode spaces", input: "run\u2009then\u202feat", want: ""},
		{name: "Line separator", input: "run\u2028eat", want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, reasonOf(Description(tc.input)))
		})
	}
}

func TestDigitsAndSymbolsAreRejected(t *testing.T) {
	for _, s := range []string{"0", "abc1", "a-b", "x_y", "hello?", "tab\t9", "€"} {
		assert.Equal(t, ReasonInvalidChars, reasonOf(Title(s)), "title %q", s)
		assert.Equal(t, ReasonInvalidChars, reasonOf(Description(s)), "description %q", s)
	}
}

func TestTime(t *testing.T) {
	testCases := []struct {
		input string
		want  Reason
	}{
		{input: "23:59", want: ""},
		{input: "00:00", want: ""},
		{input: "7:05", want: ""},
		{input: "24:00", want: ReasonOutOfRange},
		{input: "12:60", want: ReasonOutOfRange},
		{input: "1230", want: ReasonMalformedTime},
		{input: "", want: ReasonMalformedTime},
		{input: "ab:cd", want: ReasonMalformedTime},
		{input: "1:2:3", want: ReasonMalformedTime},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, reasonOf(Time(tc.input)))
		})
	}
}

func TestAlarm(t *testing.T) {
	r := Alarm("Wake Up", "Morning run", "07:00")
	assert.True(t, r.Valid())
	assert.Empty(t, r.Errors())

	r = Alarm("", "Morning run", "25:00")
	assert.False(t, r.Valid())
	require.Len(t, r.Errors(), 2)
	assert.Equal(t, FieldTitle, r.Errors()[0].Field)
	assert.Equal(t, "Title cannot be empty", r.Errors()[0].Message)
	assert.Equal(t, FieldTime, r.Errors()[1].Field)
	assert.Nil(t, r.Description)
}

func TestCheck(t *testing.T) {
	fe, err := Check(FieldTime, "12:60")
	require.NoError(t, err)
	assert.Equal(t, ReasonOutOfRange, fe.Reason)
	assert.Equal(t, "time: Hours must be between 0-23 and minutes between 0-59", fe.Error())

	fe, err = Check(FieldDescription, "fine")
	require.NoError(t, err)
	assert.Nil(t, fe)

	_, err = Check("colour", "red")
	assert.ErrorIs(t, err, ErrUnknownField)
}

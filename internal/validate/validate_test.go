package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentifier(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"123456", ""},
		{"1234567", ""},
		{"12345678", ""},
		{"123456789", ""},
		{"12345", MsgIdentifier},
		{"1234567890", MsgIdentifier},
		{"", MsgIdentifier},
		{"12345a", MsgIdentifier},
		{" 123456", MsgIdentifier},
		{"123456\n", MsgIdentifier},
		{"١٢٣٤٥٦", MsgIdentifier},
	}
	for _, tc := range cases {
		if got := Identifier(tc.in); got != tc.want {
			t.Errorf("Identifier(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIdentifierAllDigitLengths(t *testing.T) {
	for n := 0; n <= 12; n++ {
		id := strings.Repeat("7", n)
		got := Identifier(id)
		if n >= 6 && n <= 9 {
			require.Empty(t, got, "length %d", n)
		} else {
			require.Equal(t, MsgIdentifier, got, "length %d", n)
		}
	}
}

func TestPasswordShortAlwaysFailsLength(t *testing.T) {
	for _, pw := range []string{"", "a", "Ab1!", "Abcdef1!", "ABCDEFGH", "!!!!!!!!"} {
		require.Equal(t, MsgPasswordLength, Password(pw), pw)
	}
}

func TestPasswordFirstFailureWins(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"abcdefghi", MsgPasswordUpper},
		{"ABCDEFGHI", MsgPasswordLower},
		{"Abcdefghi", MsgPasswordDigit},
		{"Abcdefgh1", MsgPasswordSymbol},
		{"Abcdefg1!", ""},
		{"Abcdefg1(", MsgPasswordSymbol},
		{"Zz9^zzzzz", ""},
		{"Ab1!a😀😀", ""},
		{"Ab1!aé", MsgPasswordLength},
		{"Ab1!aéééé", ""},
	}
	for _, tc := range cases {
		if got := Password(tc.in); got != tc.want {
			t.Errorf("Password(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRegistration(t *testing.T) {
	v := Registration(map[string]string{"id": "12", "password": "short"})
	require.False(t, v.OK())
	require.Equal(t, MsgIdentifier, v["id"])
	require.Equal(t, MsgPasswordLength, v["password"])

	v = Registration(map[string]string{"id": "1234567", "password": "Abcdefg1!", "username": "bob"})
	require.True(t, v.OK())
}

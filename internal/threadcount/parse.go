package threadcount

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jmylchreest/sett/internal/palette"
)

// UnknownColourError reports a token that does not start or end with a
// colour code from the palette.
type UnknownColourError struct {
	Token string
}

func (e *UnknownColourError) Error() string {
	return fmt.Sprintf("unknown colour code in token %q", e.Token)
}

// InvalidCountError reports a token whose colour code is known but whose
// thread count cannot be used.
type InvalidCountError struct {
	Token  string
	Reason string
}

func (e *InvalidCountError) Error() string {
	return fmt.Sprintf("invalid thread count in token %q: %s", e.Token, e.Reason)
}

var separators = regexp.MustCompile(`[\s,]+`)

// Tokenize uppercases text and splits it on runs of commas and whitespace.
func Tokenize(text string) []string {
	text = strings.TrimSpace(strings.ToUpper(text))
	if text == "" {
		return nil
	}
	return separators.Split(text, -1)
}

// Parse turns a threadcount string into runs. Tokens may put the count
// before or after the colour code ("R18", "18R"); a missing count means a
// single thread and "a/b" counts are fractional ("R3/2" is 1.5 threads).
// Parsing stops at the first bad token. Empty input yields an empty
// Threadcount and no error.
func Parse(text string, pal *palette.Palette) (Threadcount, error) {
	tokens := Tokenize(text)
	tc := make(Threadcount, 0, len(tokens))
	codes := pal.Codes()

	for _, token := range tokens {
		if token == "" {
			continue
		}
		run, err := parseToken(token, codes)
		if err != nil {
			return nil, err
		}
		tc = append(tc, run)
	}

	return tc, nil
}

// MustParse is like Parse but panics on error. It is meant for fixed
// threadcounts in tests and tables.
func MustParse(text string, pal *palette.Palette) Threadcount {
	tc, err := Parse(text, pal)
	if err != nil {
		panic(err)
	}
	return tc
}

// parseToken splits one token into code and count. codes must be ordered
// longest first.
func parseToken(token string, codes []palette.Code) (Run, error) {
	code, rest, ok := matchCode(token, codes)
	if !ok {
		return Run{}, &UnknownColourError{Token: token}
	}
	if strings.ContainsFunc(rest, isLetter) {
		return Run{}, &UnknownColourError{Token: token}
	}

	count, err := parseCount(rest)
	if err != nil {
		return Run{}, &InvalidCountError{Token: token, Reason: err.Error()}
	}

	return Run{Code: code, Count: count}, nil
}

// matchCode finds the longest code that prefixes the token, falling back to
// the longest code that suffixes it.
func matchCode(token string, codes []palette.Code) (palette.Code, string, bool) {
	for _, c := range codes {
		if rest, ok := strings.CutPrefix(token, string(c)); ok {
			return c, rest, true
		}
	}
	for _, c := range codes {
		if rest, ok := strings.CutSuffix(token, string(c)); ok {
			return c, rest, true
		}
	}
	return "", "", false
}

func parseCount(s string) (float64, error) {
	if s == "" {
		return 1, nil
	}

	var count float64
	if num, den, ok := strings.Cut(s, "/"); ok {
		a, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, fmt.Errorf("bad numerator %q", num)
		}
		b, err := strconv.ParseFloat(den, 64)
		if err != nil {
			return 0, fmt.Errorf("bad denominator %q", den)
		}
		if b == 0 {
			return 0, fmt.Errorf("zero denominator")
		}
		count = a / b
	} else {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", s)
		}
		count = v
	}

	if math.IsNaN(count) || math.IsInf(count, 0) {
		return 0, fmt.Errorf("count must be finite")
	}
	if count <= 0 {
		return 0, fmt.Errorf("count must be positive")
	}
	return count, nil
}

func isLetter(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

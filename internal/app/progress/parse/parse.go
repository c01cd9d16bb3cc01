// Package parse turns free-text model replies into typed partial records.
//
// Every parser is a pure function that never fails: anything it cannot make
// sense of is skipped, and an unexpected internal failure is logged and
// replaced by the empty result.
package parse

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/PabloGalante/farum-progress/internal/observability"
)

var (
	blankLineRe = regexp.MustCompile(`\n[ \t]*\n`)
	bulletRe    = regexp.MustCompile(`(?:^|\s)-+\s*`)
	percentRe   = regexp.MustCompile(`(\d+)\s*%`)
	leadIntRe   = regexp.MustCompile(`^\s*(-?\d+)`)
)

// safely runs fn and falls back to empty() if fn panics.
func safely[T any](parser string, empty func() T, fn func() T) (out T) {
	defer func() {
		if r := recover(); r != nil {
			observability.Logger().Warn("parser failed, using empty result",
				"parser", parser,
				"panic", r,
			)
			out = empty()
		}
	}()
	return fn()
}

func normalize(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

// sections splits text into trimmed, non-empty blank-line-delimited blocks.
func sections(text string) []string {
	var out []string
	for _, s := range blankLineRe.Split(normalize(text), -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func lines(text string) []string {
	return strings.Split(normalize(text), "\n")
}

// afterColon returns the trimmed text after the first colon, or "" if none.
func afterColon(s string) string {
	i := strings.Index(s, ":")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(s[i+1:])
}

// splitDashList splits on "-" bullet markers, dropping empty fragments.
// Hyphens inside words ("self-care") are not treated as markers.
func splitDashList(s string) []string {
	out := []string{}
	for _, part := range bulletRe.Split(s, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// lastPercent returns the last "NN%" value in s, or 0 if none.
func lastPercent(s string) int {
	m := percentRe.FindAllStringSubmatch(s, -1)
	if len(m) == 0 {
		return 0
	}
	return atoiOr(m[len(m)-1][1], 0)
}

// atoiOr parses a run of digits. Values too large for int saturate at 100,
// the ceiling of every score the model is asked for.
func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	switch {
	case err == nil:
		return n
	case errors.Is(err, strconv.ErrRange):
		return 100
	default:
		return def
	}
}

// leadingInt parses the integer that s starts with ("7/10" gives 7), or def
// when s does not start with one.
func leadingInt(s string, def int) int {
	m := leadIntRe.FindStringSubmatch(s)
	if m == nil {
		return def
	}
	return atoiOr(m[1], def)
}

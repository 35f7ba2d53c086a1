package services

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

var fenceRE = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")

// extractJSON pulls the JSON value delimited by open/close out of model text.
// A fenced block wins over the raw text. Slightly broken JSON (trailing
// commas, single quotes, missing brackets) is repaired. ok is false when no
// candidate was found.
func extractJSON(raw string, open, close byte) (string, bool) {
	s := strings.TrimSpace(raw)
	if m := fenceRE.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}
	i := strings.IndexByte(s, open)
	if i < 0 {
		return "", false
	}
	s = s[i:]
	if j := strings.LastIndexByte(s, close); j >= 0 {
		s = s[:j+1]
	}
	if json.Valid([]byte(s)) {
		return s, true
	}
	fixed, err := jsonrepair.JSONRepair(s)
	if err != nil || !json.Valid([]byte(fixed)) {
		return "", false
	}
	return fixed, true
}

// Number accepts JSON numbers and numeric strings such as "2" or "95 kcal".
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		*n = 0
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*n = Number(f)
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	f, ok := leadingNumber(str)
	if !ok {
		return &strconv.NumError{Func: "ParseFloat", Num: str, Err: strconv.ErrSyntax}
	}
	*n = Number(f)
	return nil
}

var leadingNumRE = regexp.MustCompile(`-?\d+(?:[.,]\d+)?`)

func leadingNumber(s string) (float64, bool) {
	m := leadingNumRE.FindString(s)
	if m == "" {
		return 0, false
	}
	// "1,200" is a thousands separator, "1,5" a decimal comma.
	if i := strings.IndexByte(m, ','); i >= 0 {
		if len(m)-i-1 == 3 {
			m = m[:i] + m[i+1:]
		} else {
			m = m[:i] + "." + m[i+1:]
		}
	}
	f, err := strconv.ParseFloat(m, 64)
	return f, err == nil
}

// formatNum renders a quantity without trailing zeros.
func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

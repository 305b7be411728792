// Package natsort orders alphanumeric identifiers the way a person reads
// them: digit runs compare as numbers, everything else compares
// case-insensitively. Under plain lexicographic ordering "Plot 10" sorts
// before "Plot 2"; under natural ordering it does not.
package natsort

import (
	"sort"
	"strconv"
	"strings"
)

// Token is one fragment of a sort key: either a number or a lowercased
// text run.
type Token struct {
	Text   string
	Number int64
	IsNum  bool
}

// Key splits text on maximal digit runs, preserving order. Digit runs
// become numeric tokens; the fragments between them become lowercased text
// tokens. A digit run too long for int64 stays textual.
func Key(text string) []Token {
	var tokens []Token
	var buf strings.Builder
	digits := false

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		frag := buf.String()
		buf.Reset()
		if digits {
			if n, err := strconv.ParseInt(frag, 10, 64); err == nil {
				tokens = append(tokens, Token{Number: n, IsNum: true})
				return
			}
		}
		tokens = append(tokens, Token{Text: strings.ToLower(frag)})
	}

	for _, r := range text {
		isDigit := r >= '0' && r <= '9'
		if buf.Len() > 0 && isDigit != digits {
			flush()
		}
		digits = isDigit
		buf.WriteRune(r)
	}
	flush()
	return tokens
}

// Compare orders two strings by their keys, element-wise. It returns -1, 0
// or +1 and is a total order: Compare(a, b) == 0 exactly when a and b are
// identical after normalization (numeric digit runs, lowercased text).
// When a number meets a text fragment, the number sorts first.
func Compare(a, b string) int {
	ka, kb := Key(a), Key(b)
	for i := 0; i < len(ka) && i < len(kb); i++ {
		ta, tb := ka[i], kb[i]
		switch {
		case ta.IsNum && tb.IsNum:
			if ta.Number != tb.Number {
				if ta.Number < tb.Number {
					return -1
				}
				return 1
			}
		case !ta.IsNum && !tb.IsNum:
			if c := strings.Compare(ta.Text, tb.Text); c != 0 {
				return c
			}
		case ta.IsNum:
			return -1
		default:
			return 1
		}
	}
	switch {
	case len(ka) < len(kb):
		return -1
	case len(ka) > len(kb):
		return 1
	default:
		return 0
	}
}

// Less reports whether a sorts before b in natural order.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// Sort orders values in place in natural order.
func Sort(values []string) {
	sort.Slice(values, func(i, j int) bool {
		return Less(values[i], values[j])
	})
}

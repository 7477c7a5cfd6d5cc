package cliutil

import (
	"strings"
)

// Wrap wraps the string `s` to a maximum width `w`.  Pass `w` == 0 to do no
// wrapping.
//
// In order to have some room for slop to avoid things like a short word being
// on a line by itself, most lines are actually wrapped to `w - 5`.
func Wrap(w int, s string) string {
	return wrap(0, w, s)
}

// WrapIndent wraps the string `s` to a maximum width `w` with leading indent
// `i`.  The first line is not indented (this is assumed to be done by the
// caller).  Pass `w` == 0 to do no wrapping.
//
// In order to have some room for slop to avoid things like a short word being
// on a line by itself, most lines are actually wrapped to `w - 5`.
func WrapIndent(i, w int, s string) string {
	return wrap(i, w, s)
}

func wrap(indent, width int, str string) string {
	if width == 0 {
		return str
	}
	limit := width - 5
	if limit <= indent {
		return str
	}
	pad := strings.Repeat(" ", indent)

	var out []string
	for _, in := range strings.Split(str, "\n") {
		line := ""
		col := indent
		rest := in
		for len(rest) > 0 {
			// One chunk is a word together with the spacing that
			// precedes it, so that things like double-spaces after
			// sentences survive wrapping.
			i := 0
			for i < len(rest) && rest[i] == ' ' {
				i++
			}
			j := i
			for j < len(rest) && rest[j] != ' ' {
				j++
			}
			chunk, word := rest[:j], rest[i:j]
			rest = rest[j:]

			switch {
			case line == "":
				line = chunk
				col = indent + len(chunk)
			case col+len(chunk) >= limit:
				out = append(out, line)
				line = pad + word
				col = indent + len(word)
			default:
				line += chunk
				col += len(chunk)
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

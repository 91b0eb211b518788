package translator

import "unicode"

// CountWords counts maximal runs of non-whitespace runes in s.
func CountWords(s string) int {
	n := 0
	inWord := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			n++
			inWord = true
		}
	}
	return n
}

// LimitWords truncates s so it contains at most maxWords words, cutting at
// the byte where the first word past the limit starts. Whitespace between
// kept words, including newlines, is preserved as typed.
func LimitWords(s string, maxWords int) (string, bool) {
	if maxWords <= 0 {
		return s, false
	}
	count := 0
	inWord := false
	for i, r := range s {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			count++
			inWord = true
			if count > maxWords {
				return s[:i], true
			}
		}
	}
	return s, false
}

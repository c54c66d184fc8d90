// Package textmetric provides low-level counting primitives for Chinese
// text analysis.
package textmetric

import "strings"

// sentence terminators recognised in Chinese prose.
var sentenceTerminators = []rune{'。', '！', '？', '；'}

// CountHanCharacters returns the number of CJK unified ideographs
// (U+4E00..U+9FFF) in text. Punctuation, whitespace, Latin letters and
// digits are not counted.
func CountHanCharacters(text string) int {
	count := 0
	for _, r := range text {
		if r >= 0x4E00 && r <= 0x9FFF {
			count++
		}
	}
	return count
}

// CountSentences returns the number of sentences in text, where a sentence
// is a non-blank run ended by one of 。！？；. Text that contains no
// terminator yields zero.
func CountSentences(text string) int {
	segments := strings.FieldsFunc(text, isTerminator)
	if !strings.ContainsFunc(text, isTerminator) {
		return 0
	}
	count := 0
	for _, s := range segments {
		if strings.TrimSpace(s) != "" {
			count++
		}
	}
	return count
}

func isTerminator(r rune) bool {
	for _, t := range sentenceTerminators {
		if r == t {
			return true
		}
	}
	return false
}

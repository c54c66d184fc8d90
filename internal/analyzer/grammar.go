package analyzer

import "regexp"

// grammarPatterns are structural features that indicate grammatical
// complexity. Each non-overlapping occurrence adds half a point.
var grammarPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[，、；]`),          // punctuation variety
	regexp.MustCompile(`虽然.*但是`),         // concessive
	regexp.MustCompile(`不仅.*而且`),         // progressive
	regexp.MustCompile(`如果.*那么`),         // conditional
	regexp.MustCompile(`由于.*因此`),         // causal
	regexp.MustCompile(`.*的.*的.*的`),      // stacked attributives
	regexp.MustCompile(`被.*了`),           // passive
	regexp.MustCompile(`.*使得.*`),         // causative
	regexp.MustCompile(`通过.*实现`),         // instrumental
	regexp.MustCompile(`随着.*的.*发展`),      // accompaniment
}

const (
	grammarBaseScore = 1.0
	grammarPerMatch  = 0.5
	grammarMaxScore  = 10.0
)

// scoreGrammar returns a grammar complexity score in [1, 10].
func scoreGrammar(content string) float64 {
	score := grammarBaseScore
	for _, pattern := range grammarPatterns {
		matches := pattern.FindAllStringIndex(content, -1)
		score += float64(len(matches)) * grammarPerMatch
	}
	if score > grammarMaxScore {
		return grammarMaxScore
	}
	return score
}

// Package analyzer computes linguistic metrics for Chinese article text:
// vocabulary complexity, grammar complexity, sentence statistics and topic
// tags. Scores feed the difficulty classifier.
package analyzer

import (
	"math"
	"strings"

	"github.com/levelreader/levelreader/internal/domain"
	"github.com/levelreader/levelreader/internal/logger"
	"github.com/levelreader/levelreader/internal/textmetric"
)

const (
	// maxContentLength bounds stored article content, in runes.
	maxContentLength = 1500
	// readingSpeed is the assumed reading speed in characters per minute.
	readingSpeed = 250
)

// Analyzer computes content analysis metrics. It is safe for concurrent
// use once constructed.
type Analyzer struct {
	vocab  *vocabularyScorer
	logger logger.Logger
}

// New creates an Analyzer with the built-in vocabulary tables, grammar
// patterns and tag rules.
func New(log logger.Logger) *Analyzer {
	return &Analyzer{
		vocab:  newVocabularyScorer(),
		logger: log,
	}
}

// Analyze computes the full set of metrics for content. Content is
// expected to be normalized already.
func (a *Analyzer) Analyze(content string) domain.ContentAnalysis {
	charCount := textmetric.CountHanCharacters(content)
	sentenceCount := textmetric.CountSentences(content)

	denominator := sentenceCount
	if denominator < 1 {
		denominator = 1
	}
	avgSentenceLength := float64(charCount) / float64(denominator)

	analysis := domain.ContentAnalysis{
		VocabularyScore:   a.vocab.score(content),
		GrammarScore:      scoreGrammar(content),
		AvgSentenceLength: avgSentenceLength,
		CharacterCount:    charCount,
		SentenceCount:     sentenceCount,
	}

	a.logger.Debug("Content analyzed",
		logger.Int("character_count", charCount),
		logger.Int("sentence_count", sentenceCount),
		logger.Float64("vocab_score", analysis.VocabularyScore),
		logger.Float64("grammar_score", analysis.GrammarScore),
	)

	return analysis
}

// NormalizeContent collapses runs of whitespace into single spaces, trims
// the result and caps it at the stored content length.
func NormalizeContent(raw string) string {
	normalized := strings.Join(strings.Fields(raw), " ")
	runes := []rune(normalized)
	if len(runes) > maxContentLength {
		runes = runes[:maxContentLength]
	}
	return string(runes)
}

// ReadingTime estimates reading time in minutes for the given character
// count. The result is always at least one minute.
func ReadingTime(characterCount int) int {
	minutes := int(math.Round(float64(characterCount) / readingSpeed))
	if minutes < 1 {
		return 1
	}
	return minutes
}

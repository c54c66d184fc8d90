// Package classifier assigns reading difficulty levels to analyzed
// articles.
package classifier

import "github.com/levelreader/levelreader/internal/domain"

// Normalization divisors and decision thresholds for the composite score.
const (
	sentenceLengthDivisor = 5.0
	characterCountDivisor = 200.0
	componentCeiling      = 10.0
	easyThreshold         = 3.5
	mediumThreshold       = 6.5
)

// Classify maps content metrics to a difficulty level. Each input is
// normalized to a 0-10 scale, the four components are averaged, and the
// mean is bucketed: <=3.5 easy, <=6.5 medium, above that hard.
func Classify(analysis domain.ContentAnalysis) domain.Difficulty {
	vocabScore := capAt(analysis.VocabularyScore, componentCeiling)
	lengthScore := capAt(analysis.AvgSentenceLength/sentenceLengthDivisor, componentCeiling)
	grammarScore := capAt(analysis.GrammarScore, componentCeiling)
	sizeScore := capAt(float64(analysis.CharacterCount)/characterCountDivisor, componentCeiling)

	total := (vocabScore + lengthScore + grammarScore + sizeScore) / 4

	switch {
	case total <= easyThreshold:
		return domain.DifficultyEasy
	case total <= mediumThreshold:
		return domain.DifficultyMedium
	default:
		return domain.DifficultyHard
	}
}

func capAt(v, ceiling float64) float64 {
	if v > ceiling {
		return ceiling
	}
	return v
}

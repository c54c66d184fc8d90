// Package domain defines the core types shared across the reader service.
package domain

import (
	"errors"
	"time"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Difficulty is the reading difficulty level assigned to an article.
type Difficulty string

// Difficulty levels.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty level.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Article is a bilingual reading article with its analysis results.
type Article struct {
	ID                string     `db:"id"                 json:"id"`
	Title             string     `db:"title"              json:"title"`
	OriginalContent   string     `db:"original_content"   json:"originalContent"`
	TranslatedContent string     `db:"translated_content" json:"translatedContent"`
	Source            string     `db:"source"             json:"source"`
	SourceURL         string     `db:"source_url"         json:"sourceUrl"`
	Difficulty        Difficulty `db:"difficulty"         json:"difficulty"`
	Tags              []string   `db:"tags"               json:"tags"`
	ReadingTime       int        `db:"reading_time"       json:"readingTime"`
	WordCount         int        `db:"word_count"         json:"wordCount"`
	HotScore          int        `db:"hot_score"          json:"hotScore"`
	PublishDate       time.Time  `db:"publish_date"       json:"publishDate"`
	IsPublished       bool       `db:"is_published"       json:"isPublished"`
	CreatedAt         time.Time  `db:"created_at"         json:"createdAt"`
	UpdatedAt         time.Time  `db:"updated_at"         json:"updatedAt"`
}

// FeedItem is a single entry fetched from an RSS feed, cleaned and ready
// for analysis.
type FeedItem struct {
	Title       string
	Content     string
	Link        string
	PublishDate time.Time
}

// ContentAnalysis holds the linguistic metrics computed for a piece of
// Chinese text.
type ContentAnalysis struct {
	VocabularyScore   float64 `json:"vocabularyScore"`
	GrammarScore      float64 `json:"grammarScore"`
	AvgSentenceLength float64 `json:"avgSentenceLength"`
	CharacterCount    int     `json:"characterCount"`
	SentenceCount     int     `json:"sentenceCount"`
}

// Stats summarises the stored article corpus.
type Stats struct {
	TotalArticles  int            `json:"totalArticles"`
	ByDifficulty   map[string]int `json:"byDifficulty"`
	AvgReadingTime float64        `json:"avgReadingTime"`
	TopTags        []TagCount     `json:"topTags"`
}

// TagCount is a tag with its number of occurrences.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Setting is a simple key/value configuration record.
type Setting struct {
	Key       string    `db:"key"        json:"key"`
	Value     string    `db:"value"      json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

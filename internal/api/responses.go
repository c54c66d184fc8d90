package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/levelreader/levelreader/internal/domain"
)

// Response is the envelope used by every API endpoint.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Pagination describes the window returned by a list endpoint.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ArticleListResponse is the payload of the article list endpoint.
type ArticleListResponse struct {
	Articles   []domain.Article `json:"articles"`
	Pagination Pagination       `json:"pagination"`
}

// CreateArticleRequest creates an article directly through the API.
// Analysis-derived fields left empty are computed from the content.
type CreateArticleRequest struct {
	Title             string     `json:"title"             binding:"required"`
	OriginalContent   string     `json:"originalContent"   binding:"required"`
	TranslatedContent string     `json:"translatedContent"`
	Source            string     `json:"source"`
	SourceURL         string     `json:"sourceUrl"`
	Difficulty        string     `json:"difficulty"        binding:"omitempty,oneof=easy medium hard"`
	Tags              []string   `json:"tags"`
	HotScore          int        `json:"hotScore"`
	PublishDate       *time.Time `json:"publishDate"`
	IsPublished       *bool      `json:"isPublished"`
}

// UpdateArticleRequest is a field-level patch; nil fields are unchanged.
type UpdateArticleRequest struct {
	Title             *string    `json:"title"`
	OriginalContent   *string    `json:"originalContent"`
	TranslatedContent *string    `json:"translatedContent"`
	Source            *string    `json:"source"`
	SourceURL         *string    `json:"sourceUrl"`
	Difficulty        *string    `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	Tags              *[]string  `json:"tags"`
	HotScore          *int       `json:"hotScore"`
	PublishDate       *time.Time `json:"publishDate"`
	IsPublished       *bool      `json:"isPublished"`
}

// TranslateRequest asks for a one-off translation.
type TranslateRequest struct {
	Text string `json:"text" binding:"required"`
	From string `json:"from"`
	To   string `json:"to"`
}

// TranslateResponse carries the translation result.
type TranslateResponse struct {
	TranslatedText string `json:"translatedText"`
	Fallback       bool   `json:"fallback"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Error: message})
}

func newPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// Package translator provides Chinese/English translation through the
// Moonshot chat completion API, with a deterministic placeholder fallback
// for offline operation.
package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/levelreader/levelreader/internal/config"
	"github.com/levelreader/levelreader/internal/logger"
)

// ErrNoAPIKey indicates the client has no API key configured and cannot
// call the translation service.
var ErrNoAPIKey = errors.New("translator: no API key configured")

const maxCompletionTokens = 2000

const systemPrompt = "你是一个专业的中英文翻译助手，专门为中文学习者提供准确、自然的翻译服务。请保持原文的语调和风格。"

// Translator translates text between languages.
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// MoonshotClient calls the Moonshot chat completion endpoint.
type MoonshotClient struct {
	httpClient  *http.Client
	url         string
	apiKey      string
	model       string
	temperature float64
	logger      logger.Logger
}

// NewMoonshotClient creates a translation client from configuration.
func NewMoonshotClient(cfg config.TranslatorConfig, log logger.Logger) *MoonshotClient {
	return &MoonshotClient{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		url:         cfg.URL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Translate sends text to the chat completion API and returns the cleaned
// translation.
func (c *MoonshotClient) Translate(ctx context.Context, text, from, to string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(text, from, to)},
		},
		Temperature: c.temperature,
		MaxTokens:   maxCompletionTokens,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal translation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create translation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call translation API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("translation API returned %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode translation response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", errors.New("translation API returned no choices")
	}

	translated := cleanTranslated(chatResp.Choices[0].Message.Content)

	c.logger.Debug("Text translated",
		logger.String("from", from),
		logger.String("to", to),
		logger.Int("input_len", len(text)),
		logger.Int("output_len", len(translated)),
	)

	return translated, nil
}

func buildPrompt(text, from, to string) string {
	switch {
	case from == "zh" && to == "en":
		return "请将以下中文文本翻译成英文，保持原文的意思和语调：\n\n" + text
	case from == "en" && to == "zh":
		return "请将以下英文文本翻译成中文，保持原文的意思和语调：\n\n" + text
	default:
		return fmt.Sprintf("请将以下文本从%s翻译成%s：\n\n%s", from, to, text)
	}
}

var translationPrefixRe = regexp.MustCompile(`(?m)^\s*(翻译|Translation)[：:]`)

// cleanTranslated strips boilerplate prefixes the model sometimes emits.
func cleanTranslated(text string) string {
	return strings.TrimSpace(translationPrefixRe.ReplaceAllString(text, ""))
}

// Placeholder returns the deterministic fallback translation used when the
// translation service is unavailable.
func Placeholder(title string) string {
	return "English translation of: " + title
}

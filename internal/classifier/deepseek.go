package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tongxing977-max/project50k-backend/internal/core"
)

const systemPrompt = `You are a financial audit agent for a user working through a savings-and-debt-payoff plan.
Convert the transaction description into JSON with these fields:
- "category": for expenses one of [food, coffee, traffic, shopping, entertainment, love, family, health, AI_productivity, other]; for income one of [salary, bonus, sidejob, AI_productivity, other]
- "is_latte": true for mood-driven, non-essential purchases (coffee, bubble tea, gacha, game top-ups), false for essentials (meals, transit, rent)
- "comment": a short remark under 20 words; scale the tone with the amount (over 300 deserves a warning)
- "confidence": 0..1
Return only the JSON object, no markdown fences.`

// DeepSeekClient calls an OpenAI-compatible chat completions endpoint. The
// API is a plain JSON POST, so no SDK is involved.
type DeepSeekClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	cache      *resultCache
}

func NewDeepSeekClient(apiKey, baseURL, model string, timeout time.Duration) *DeepSeekClient {
	return &DeepSeekClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		cache:      newResultCache(500, 24*time.Hour),
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Classify asks the model for a category. Identical notes hit a local
// cache first; repeated daily purchases ("coffee", "metro") are common.
func (c *DeepSeekClient) Classify(ctx context.Context, name string, amount core.Money, kind core.Kind) (Result, error) {
	cacheKey := fmt.Sprintf("%s|%s", kind, strings.ToLower(strings.TrimSpace(name)))
	if res, ok := c.cache.Get(cacheKey); ok {
		return res, nil
	}

	userMsg := fmt.Sprintf("type=%s amount=%.2f description=%s", kind, amount.Yuan(), name)
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMsg},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return Result{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("call classifier: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("classifier returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return Result{}, fmt.Errorf("decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return Result{}, fmt.Errorf("classifier returned no choices")
	}

	result, err := ParseResult(chat.Choices[0].Message.Content)
	if err != nil {
		return Result{}, err
	}
	if !ValidCategory(result.Category, kind) {
		slog.WarnContext(ctx, "Classifier returned unknown category, falling back to other",
			"category", result.Category, "kind", kind)
		result.Category = "other"
	}

	c.cache.Set(cacheKey, result)
	return result, nil
}

// ParseResult decodes the model's JSON answer, tolerating markdown fences
// the prompt forbids but models still emit.
func ParseResult(content string) (Result, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var res Result
	if err := json.Unmarshal([]byte(content), &res); err != nil {
		return Result{}, fmt.Errorf("parse classification: %w", err)
	}
	if res.Category == "" {
		return Result{}, fmt.Errorf("classification missing category")
	}
	return res, nil
}

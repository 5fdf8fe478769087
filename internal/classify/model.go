// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/bookdex/pkg/types"
)

// ModelClient asks an OpenAI-compatible chat-completions endpoint for a
// classification code. Every failure mode (network, HTTP status, parse,
// empty answer) is reported as "no result" so the classifier chain can fall
// through to the rule stage; absent credentials mean "not configured".
type ModelClient struct {
	Endpoint string
	Model    string
	APIKey   string
	Client   *http.Client
}

// NewModelClient builds the optional model stage from configuration. It
// returns nil when the stage is disabled or not fully configured, which the
// classifier treats as a normal state.
func NewModelClient(cfg types.ClassifierConfig) *ModelClient {
	if !cfg.EnableModel || cfg.Endpoint == "" || cfg.Model == "" || cfg.APIKey == "" {
		return nil
	}
	return &ModelClient{
		Endpoint: cfg.Endpoint,
		Model:    cfg.Model,
		APIKey:   cfg.APIKey,
		Client:   &http.Client{Timeout: cfg.Timeout},
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
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Classify sends the book fields plus the fixed category vocabulary and
// parses a single code token from the model's answer.
func (m *ModelClient) Classify(ctx context.Context, title string, authors []string, summary string) (string, bool) {
	body, err := json.Marshal(chatRequest{
		Model:       m.Model,
		Messages:    []chatMessage{{Role: "user", Content: buildPrompt(title, authors, summary)}},
		Temperature: 0.2,
	})
	if err != nil {
		return "", false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.APIKey)

	resp, err := m.Client.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", false
	}
	if len(cr.Choices) == 0 {
		return "", false
	}

	answer := strings.ToUpper(strings.TrimSpace(cr.Choices[0].Message.Content))
	code := catalogNumberPattern.FindString(answer)
	if code == "" {
		return "", false
	}
	return code, true
}

// buildPrompt lays out the cataloguing instruction with the candidate
// vocabulary, asking for a bare code token.
func buildPrompt(title string, authors []string, summary string) string {
	var vocab []string
	for _, c := range categories {
		vocab = append(vocab, fmt.Sprintf("%s:%s", c.Code, c.Label))
	}

	var b strings.Builder
	b.WriteString("你是图书馆编目员，请根据《中图法》给出图书门类代码（仅给出代码，不要解释）。\n")
	b.WriteString("候选门类：" + strings.Join(vocab, ", ") + "\n\n")
	b.WriteString("标题: " + title + "\n")
	b.WriteString("作者: " + strings.Join(authors, ", ") + "\n")
	b.WriteString("摘要: " + summary + "\n\n")
	b.WriteString("仅输出一个代码，例如：T 或 TP 或 TP3；若无法判断请输出 Z。")
	return b.String()
}

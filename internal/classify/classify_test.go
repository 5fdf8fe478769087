// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bookdex/pkg/types"
)

func TestCatalogNumberTakesPriority(t *testing.T) {
	var c Classifier
	got := c.Classify(context.Background(), "X", nil, "", "TP391.1")

	assert.Equal(t, "TP391.1", got.Code)
	assert.Equal(t, "工业技术", got.Label)
	assert.Equal(t, 0.95, got.Confidence)
	assert.Equal(t, types.ClassifiedByCatalog, got.Source)
}

func TestParseCatalogNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"TP391.1", "TP391.1"},
		{"tp391.1", "TP391.1"},
		{"H315.4", "H315.4"},
		{"I", "I"},
		{"K825", "K825"},
		{"123", ""},
	}
	for _, tt := range tests {
		if got := ParseCatalogNumber(tt.in); got != tt.want {
			t.Errorf("ParseCatalogNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKeywordFallbackTechCategory(t *testing.T) {
	var c Classifier
	got := c.Classify(context.Background(), "深度学习与人工智能导论", nil, "", "")

	// Two T hits at the 1.2 technology weight put the score at 2.4.
	assert.Equal(t, "T", got.Code)
	assert.Equal(t, types.ClassifiedByRule, got.Source)
	assert.GreaterOrEqual(t, got.Confidence, 0.8)
}

func TestAllEmptyInputsDefault(t *testing.T) {
	var c Classifier
	got := c.Classify(context.Background(), "", nil, "", "")

	assert.Equal(t, "Z", got.Code)
	assert.Equal(t, "综合性图书", got.Label)
	assert.Equal(t, 0.5, got.Confidence)
	assert.Equal(t, types.ClassifiedByRule, got.Source)
}

func TestNoKeywordHitsDefault(t *testing.T) {
	var c Classifier
	got := c.Classify(context.Background(), "qwerty", nil, "asdf", "")

	assert.Equal(t, "Z", got.Code)
	assert.Equal(t, 0.5, got.Confidence)
}

func TestScoreConfidenceMapping(t *testing.T) {
	tests := []struct {
		code  string
		score float64
		want  float64
	}{
		{"Z", 0, 0.5},
		{"K", 0, 0.55},
		{"K", 1.0, 0.65},
		{"T", 2.4, 0.8},
		{"T", 4.8, 0.92},
	}
	for _, tt := range tests {
		if got := scoreConfidence(tt.code, tt.score); got != tt.want {
			t.Errorf("scoreConfidence(%q, %v) = %v, want %v", tt.code, tt.score, got, tt.want)
		}
	}
}

func TestKeywordTieBreaksByTableOrder(t *testing.T) {
	// "历史" hits K only; adding a same-weight hit for a later class must
	// not displace the earlier one on equal score.
	var c Classifier
	history := c.Classify(context.Background(), "世界历史", nil, "", "")
	assert.Equal(t, "K", history.Code)
}

func TestModelStageUsedWhenConfigured(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "cataloger-1", req.Model)

		resp := chatResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		}{})
		resp.Choices[0].Message.Content = "TP3"
		json.NewEncoder(w).Encode(resp)
	}))
	defer ts.Close()

	c := Classifier{Model: &ModelClient{
		Endpoint: ts.URL,
		Model:    "cataloger-1",
		APIKey:   "sk-test",
		Client:   ts.Client(),
	}}

	got := c.Classify(context.Background(), "某本书", nil, "", "")
	assert.Equal(t, "TP3", got.Code)
	assert.Equal(t, 0.85, got.Confidence)
	assert.Equal(t, types.ClassifiedByModel, got.Source)
}

func TestModelFailureFallsThroughToRules(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c := Classifier{Model: &ModelClient{
		Endpoint: ts.URL,
		Model:    "cataloger-1",
		APIKey:   "sk-test",
		Client:   ts.Client(),
	}}

	got := c.Classify(context.Background(), "深度学习实践", nil, "", "")
	assert.Equal(t, "T", got.Code)
	assert.Equal(t, types.ClassifiedByRule, got.Source)
}

func TestNewModelClientDisabled(t *testing.T) {
	assert.Nil(t, NewModelClient(types.ClassifierConfig{}))
	assert.Nil(t, NewModelClient(types.ClassifierConfig{EnableModel: true}))
	assert.NotNil(t, NewModelClient(types.ClassifierConfig{
		EnableModel: true,
		Endpoint:    "http://localhost:1234/v1/chat/completions",
		Model:       "m",
		APIKey:      "k",
	}))
}

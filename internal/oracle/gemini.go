package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"grade_desk/internal/prompts"
)

const defaultGeminiModel = "gemini-2.0-flash"
const defaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// Gemini calls the generateContent REST endpoint.
type Gemini struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		Output string `json:"output"`
	} `json:"candidates"`
}

func NewGemini(apiKey, model string) *Gemini {
	if model == "" {
		model = defaultGeminiModel
	}
	return &Gemini{
		apiKey:   apiKey,
		model:    model,
		endpoint: defaultGeminiEndpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
		limiter:  rate.NewLimiter(rate.Every(4*time.Second), 1), // ~15 RPM free-tier budget
	}
}

// Available returns true if the API key is configured.
func (g *Gemini) Available() bool {
	return g.apiKey != ""
}

func (g *Gemini) Grade(ctx context.Context, p Payload) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	prompt := prompts.Grading(p.Description, p.SupplementaryContext, p.CombinedText)
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.endpoint, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini call: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode, truncate(string(raw), 256))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(parsed.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	cand := parsed.Candidates[0]
	if len(cand.Content.Parts) > 0 {
		return cand.Content.Parts[0].Text, nil
	}
	if cand.Output != "" {
		return cand.Output, nil
	}
	return "", fmt.Errorf("gemini candidate has no text")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

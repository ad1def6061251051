package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mathsolve/internal/model"
)

// OllamaBackend sends a single generate request to a local model server. The
// model is asked for JSON but small local models often reply with prose, so a
// non-JSON response is synthesized into a structured solution instead of being
// passed through unchanged.
type OllamaBackend struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func NewOllamaBackend(baseURL, model string) *OllamaBackend {
	return &OllamaBackend{
		httpClient: &http.Client{Timeout: 90 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
	}
}

func (b *OllamaBackend) Name() string {
	return "ollama:" + b.model
}

func (b *OllamaBackend) Attempt(ctx context.Context, question string, category model.Category) (*StructuredSolution, error) {
	prompt := solutionSchemaPrompt + "\n\n" + buildUserPrompt(question, string(category))

	bodyBytes, err := json.Marshal(ollamaGenerateRequest{
		Model:  b.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal ollama request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/api/generate", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("build ollama request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read ollama response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ollama response status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed ollamaGenerateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse ollama json failed: %w", err)
	}
	if strings.TrimSpace(parsed.Response) == "" {
		return nil, fmt.Errorf("empty ollama response")
	}

	if payload, ok := extractJSONObject(parsed.Response); ok {
		if solution, parseErr := ParsePayload(payload); parseErr == nil {
			return solution, nil
		}
	}

	// Raw prose. Synthesize deterministically; this path cannot fail.
	return Synthesize(question, parsed.Response), nil
}

// extractJSONObject pulls the outermost {...} span out of model output that may
// wrap the JSON in prose or markdown fences.
func extractJSONObject(text string) ([]byte, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	return []byte(text[start : end+1]), true
}

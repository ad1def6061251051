package solver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mathsolve/internal/model"
)

func newOllamaStub(t *testing.T, modelResponse string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)

		var req ollamaGenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)

		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: modelResponse, Done: true})
	}))
}

func TestOllamaBackendStructuredResponse(t *testing.T) {
	body := `{"steps": [{"step_number": 1, "description": "subtract", "expression": "3x = 12", "reasoning": "inverse"}], "final_answer": "4", "explanation": "done", "confidence": 0.8}`
	server := newOllamaStub(t, body, http.StatusOK)
	defer server.Close()

	backend := NewOllamaBackend(server.URL, "llama3")
	solution, err := backend.Attempt(context.Background(), "3x + 2 = 14", model.CategoryAlgebra)

	require.NoError(t, err)
	require.Len(t, solution.Steps, 1)
	assert.Equal(t, "4", solution.FinalAnswer)
}

func TestOllamaBackendProseResponse(t *testing.T) {
	server := newOllamaStub(t, "To solve this, subtract two from both sides and divide by three.", http.StatusOK)
	defer server.Close()

	backend := NewOllamaBackend(server.URL, "llama3")
	solution, err := backend.Attempt(context.Background(), "3x + 2 = 14", model.CategoryAlgebra)

	require.NoError(t, err)
	require.Len(t, solution.Steps, 3)
	assert.Equal(t, "4", solution.FinalAnswer)
	assert.Contains(t, solution.Explanation, "subtract two")
}

func TestOllamaBackendServerError(t *testing.T) {
	server := newOllamaStub(t, "", http.StatusInternalServerError)
	defer server.Close()

	backend := NewOllamaBackend(server.URL, "llama3")
	_, err := backend.Attempt(context.Background(), "3x + 2 = 14", model.CategoryAlgebra)

	assert.Error(t, err)
}

func TestOllamaBackendUnreachable(t *testing.T) {
	backend := NewOllamaBackend("http://127.0.0.1:1", "llama3")
	_, err := backend.Attempt(context.Background(), "question", model.CategoryOther)
	assert.Error(t, err)
}

func TestOllamaBackendName(t *testing.T) {
	backend := NewOllamaBackend("http://localhost:11434/", "llama3")
	assert.Equal(t, "ollama:llama3", backend.Name())
}

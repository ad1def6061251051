package solver

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"mathsolve/internal/model"
)

// OpenAIBackend asks a cloud chat-completion API for a JSON-object response
// matching the solution schema.
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

func NewOpenAIBackend(apiKey, model string) *OpenAIBackend {
	return &OpenAIBackend{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (b *OpenAIBackend) Name() string {
	return "openai:" + b.model
}

func (b *OpenAIBackend) Attempt(ctx context.Context, question string, category model.Category) (*StructuredSolution, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: solutionSchemaPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(question, string(category))},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	solution, err := ParsePayload([]byte(resp.Choices[0].Message.Content))
	if err != nil {
		return nil, fmt.Errorf("openai payload rejected: %w", err)
	}
	return solution, nil
}

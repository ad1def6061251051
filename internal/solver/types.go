package solver

import (
	"encoding/json"
	"errors"
	"fmt"

	"mathsolve/internal/model"
)

// StructuredSolution is the one shape every solving backend must produce.
type StructuredSolution struct {
	Steps       []model.Step `json:"steps"`
	FinalAnswer string       `json:"final_answer"`
	Explanation string       `json:"explanation"`
	Confidence  float64      `json:"confidence"`
	SolvedBy    string       `json:"solved_by"`
}

var (
	ErrEmptySteps    = errors.New("solution has no steps")
	ErrInvalidSchema = errors.New("solution payload does not match schema")
)

// rawSolution mirrors StructuredSolution with loose typing, so that a payload
// missing required fields is caught explicitly instead of silently zeroed.
type rawSolution struct {
	Steps []struct {
		Number      *float64 `json:"step_number"`
		Description string   `json:"description"`
		Expression  string   `json:"expression"`
		Reasoning   string   `json:"reasoning"`
	} `json:"steps"`
	FinalAnswer *string  `json:"final_answer"`
	Explanation *string  `json:"explanation"`
	Confidence  *float64 `json:"confidence"`
}

// ParsePayload validates a backend's JSON payload against the solution schema.
// Any missing or malformed field is treated as a backend failure by the caller.
// Step numbers are renumbered 1..n so downstream consumers always see a
// contiguous 1-based sequence.
func ParsePayload(raw []byte) (*StructuredSolution, error) {
	var parsed rawSolution
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode solution payload failed: %w", err)
	}

	if len(parsed.Steps) == 0 {
		return nil, ErrEmptySteps
	}
	if parsed.FinalAnswer == nil || parsed.Explanation == nil || parsed.Confidence == nil {
		return nil, ErrInvalidSchema
	}

	steps := make([]model.Step, 0, len(parsed.Steps))
	for i, step := range parsed.Steps {
		if step.Number == nil || step.Description == "" || step.Reasoning == "" {
			return nil, fmt.Errorf("step %d: %w", i+1, ErrInvalidSchema)
		}
		steps = append(steps, model.Step{
			Number:      i + 1,
			Description: step.Description,
			Expression:  step.Expression,
			Reasoning:   step.Reasoning,
		})
	}

	return &StructuredSolution{
		Steps:       steps,
		FinalAnswer: *parsed.FinalAnswer,
		Explanation: *parsed.Explanation,
		Confidence:  clampConfidence(*parsed.Confidence),
	}, nil
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

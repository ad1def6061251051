package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeLinearEquation(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     string
	}{
		{name: "addition form", question: "3x + 2 = 14", want: "4"},
		{name: "different variable", question: "2y + 8 = 20", want: "6"},
		{name: "subtraction form", question: "5x - 10 = 15", want: "5"},
		{name: "implicit coefficient", question: "x + 3 = 10", want: "7"},
		{name: "embedded in prose", question: "Please solve for x: 3x + 2 = 14", want: "4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			solution := Synthesize(tt.question, "some model prose")
			require.NotNil(t, solution)
			require.Len(t, solution.Steps, 3)
			assert.Equal(t, tt.want, solution.FinalAnswer)
		})
	}
}

func TestSynthesizeLinearEquationSteps(t *testing.T) {
	solution := Synthesize("3x + 2 = 14", "")

	require.Len(t, solution.Steps, 3)
	assert.Equal(t, "3x = 14 - 2", solution.Steps[0].Expression)
	assert.Equal(t, "3x = 12", solution.Steps[1].Expression)
	assert.Equal(t, "x = 4", solution.Steps[2].Expression)
}

func TestSynthesizeDerivative(t *testing.T) {
	solution := Synthesize("Find the derivative of f(x) = x^2 + 3x", "prose output")

	require.Len(t, solution.Steps, 5)
	assert.Equal(t, "See solution steps", solution.FinalAnswer)
	assert.Contains(t, solution.Steps[1].Expression, "n*x^(n-1)")
}

func TestSynthesizeGeneric(t *testing.T) {
	solution := Synthesize("How many apples does Ann have", "the model rambled here")

	require.Len(t, solution.Steps, 2)
	assert.Contains(t, solution.Steps[0].Reasoning, "How many apples does Ann have")
	assert.Equal(t, "See solution steps", solution.FinalAnswer)
}

func TestSynthesizeStepNumbering(t *testing.T) {
	questions := []string{
		"3x + 2 = 14",
		"differentiate x^3",
		"what is the meaning of this",
	}
	for _, question := range questions {
		solution := Synthesize(question, "")
		require.NotEmpty(t, solution.Steps, question)
		for i, step := range solution.Steps {
			assert.Equal(t, i+1, step.Number, "question %q step %d", question, i)
		}
	}
}

func TestSynthesizeExplanationFromProse(t *testing.T) {
	prose := "{ \"steps\": [1, 2], final_answer: the answer is\nfour }"
	solution := Synthesize("how many sides does a square have", prose)

	assert.NotContains(t, solution.Explanation, "{")
	assert.NotContains(t, solution.Explanation, "\"")
	assert.NotContains(t, solution.Explanation, "\n")
	assert.NotContains(t, solution.Explanation, "final_answer")
	assert.Contains(t, solution.Explanation, "four")
}

func TestExtractFinalAnswerOverrides(t *testing.T) {
	answer := extractFinalAnswer(nil, "What is 2 + 2?")
	assert.Equal(t, "4", answer)

	answer = extractFinalAnswer(nil, "  what IS the square root of 16 ")
	assert.Equal(t, "4", answer)

	answer = extractFinalAnswer(nil, "something unknowable")
	assert.Equal(t, "See solution steps", answer)
}

func TestCleanProse(t *testing.T) {
	cleaned := cleanProse("steps: [ {description: \"move\", reasoning: 'because'} ]\nfinal_answer: 4")
	assert.Equal(t, "move because 4", cleaned)
}

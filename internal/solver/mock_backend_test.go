package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mathsolve/internal/model"
)

func TestMockSolutionAlgebraBranch(t *testing.T) {
	solution := MockSolution("solve for x: 3x + 2 = 14", model.CategoryAlgebra)

	require.Len(t, solution.Steps, 3)
	assert.Equal(t, 0.85, solution.Confidence)
	assert.Equal(t, "mock", solution.SolvedBy)
}

func TestMockSolutionGenericBranch(t *testing.T) {
	solution := MockSolution("a train travels 120 km in 2 hours, find its speed", model.CategoryArithmetic)

	require.Len(t, solution.Steps, 3)
	assert.Equal(t, 0.75, solution.Confidence)
	assert.Equal(t, "mock", solution.SolvedBy)
}

func TestMockSolutionDeterminism(t *testing.T) {
	first := MockSolution("3x + 2 = 14", model.CategoryAlgebra)
	second := MockSolution("3x + 2 = 14", model.CategoryAlgebra)
	assert.Equal(t, first, second)

	first = MockSolution("what is 7 times 8", model.CategoryArithmetic)
	second = MockSolution("what is 7 times 8", model.CategoryArithmetic)
	assert.Equal(t, first, second)
}

func TestMockSolutionStepNumbering(t *testing.T) {
	for _, question := range []string{"3x + 2 = 14", "plain arithmetic"} {
		solution := MockSolution(question, model.CategoryOther)
		for i, step := range solution.Steps {
			assert.Equal(t, i+1, step.Number)
		}
	}
}

func TestMockBackendNeverFails(t *testing.T) {
	backend := NewMockBackend()
	solution, err := backend.Attempt(context.Background(), "", model.CategoryOther)
	require.NoError(t, err)
	require.NotEmpty(t, solution.Steps)
}

package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mathsolve/internal/logger"
	"mathsolve/internal/model"
)

func newBulkFixture() (*BulkService, *serviceFixture) {
	f := newFixture()
	bulk := NewBulkService(f.questions, f.answers, f.users, f.solver, logger.NewNop())
	return bulk, f
}

func TestBulkSubmitSizeValidation(t *testing.T) {
	bulk, _ := newBulkFixture()

	_, err := bulk.BulkSubmit(context.Background(), nil)
	require.ErrorIs(t, err, ErrBulkSizeInvalid)

	oversized := make([]BulkItem, MaxBulkItems+1)
	for i := range oversized {
		oversized[i] = BulkItem{UserID: testUserID, Text: "2 + 2", Category: model.CategoryArithmetic}
	}
	_, err = bulk.BulkSubmit(context.Background(), oversized)
	require.ErrorIs(t, err, ErrBulkSizeInvalid)
}

func TestBulkSubmitMixedBatch(t *testing.T) {
	bulk, f := newBulkFixture()

	items := []BulkItem{
		{UserID: testUserID, Text: "3x + 2 = 14", Category: model.CategoryAlgebra},
		{UserID: "99999999-9999-9999-9999-999999999999", Text: "5y = 25", Category: model.CategoryAlgebra},
		{UserID: testUserID, Text: "what is 2 + 2", Category: model.CategoryArithmetic},
	}

	result, err := bulk.BulkSubmit(context.Background(), items)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Successful)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Items, 3)

	// Results keep the submission order even though items run concurrently.
	assert.Equal(t, "3x + 2 = 14", result.Items[0].Question)
	assert.True(t, result.Items[0].Success)
	assert.NotEmpty(t, result.Items[0].QuestionID)

	assert.False(t, result.Items[1].Success)
	assert.Empty(t, result.Items[1].QuestionID, "a failed item must not report a question id")
	assert.Equal(t, ErrUserNotFound.Error(), result.Items[1].Error)

	assert.True(t, result.Items[2].Success)

	// The unknown-user item never reached question creation.
	assert.Len(t, f.questions.created, 2)
	assert.Len(t, f.answers.created, 2)
}

func TestBulkSubmitDoesNotTouchCache(t *testing.T) {
	bulk, f := newBulkFixture()

	// Seed the cache as if a single submission already solved this text.
	f.cache.Set(context.Background(), QuestionCacheKey("3x + 2 = 14"), cachedSolution{
		StructuredSolution: *testSolution(),
	}, 0)
	setsBefore := len(f.cache.sets)

	result, err := bulk.BulkSubmit(context.Background(), []BulkItem{
		{UserID: testUserID, Text: "3x + 2 = 14", Category: model.CategoryAlgebra},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Successful)

	assert.Equal(t, 1, f.solver.calls, "bulk items must solve even when the cache holds the text")
	assert.Len(t, f.cache.sets, setsBefore, "bulk items must not write the cache")
}

func TestBulkSubmitSolverBreakdown(t *testing.T) {
	bulk, f := newBulkFixture()
	f.solver.solution = nil

	result, err := bulk.BulkSubmit(context.Background(), []BulkItem{
		{UserID: testUserID, Text: "unsolvable", Category: model.CategoryOther},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	item := result.Items[0]
	assert.False(t, item.Success)
	assert.Empty(t, item.QuestionID)

	// The question row exists and was marked failed.
	require.Len(t, f.questions.created, 1)
	changes := f.questions.statusChanges[f.questions.created[0].ID]
	assert.Equal(t, model.StatusFailed, changes[len(changes)-1])
}

func TestBulkSubmitInvalidItem(t *testing.T) {
	bulk, _ := newBulkFixture()

	result, err := bulk.BulkSubmit(context.Background(), []BulkItem{
		{UserID: testUserID, Text: "   ", Category: model.CategoryAlgebra},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, ErrInvalidInput.Error(), result.Items[0].Error)
}

package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestionCacheKeyNormalizes(t *testing.T) {
	base := QuestionCacheKey("3x + 2 = 14")

	assert.Equal(t, base, QuestionCacheKey("  3x + 2 = 14  "))
	assert.Equal(t, base, QuestionCacheKey("3X + 2 = 14"))
	assert.Equal(t, base, QuestionCacheKey("\t3x + 2 = 14\n"))
	assert.NotEqual(t, base, QuestionCacheKey("3x + 2 = 15"))
}

func TestQuestionCacheKeyShape(t *testing.T) {
	key := QuestionCacheKey("what is 2 + 2")
	assert.Regexp(t, `^question:[0-9a-f]{64}$`, key)
}

func TestHistoryCacheKeyDistinct(t *testing.T) {
	a := historyCacheKey("u1", 1, 10)
	b := historyCacheKey("u1", 1, 25)
	c := historyCacheKey("u1", 2, 10)
	d := historyCacheKey("u2", 1, 10)

	keys := map[string]struct{}{a: {}, b: {}, c: {}, d: {}}
	assert.Len(t, keys, 4, "user, page and page size must all partition the key space")
}

package app

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// QuestionCacheKey derives the dedup key for a question text: lowercased,
// trimmed, hashed. Category is deliberately excluded, so the same text under
// two categories shares one cached solution.
func QuestionCacheKey(text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	sum := sha256.Sum256([]byte(normalized))
	return "question:" + hex.EncodeToString(sum[:])
}

// historyCacheKey includes the page size so pages cached under one limit are
// never served for another.
func historyCacheKey(userID string, page, pageSize int) string {
	return fmt.Sprintf("history:%s:%d:%d", userID, page, pageSize)
}

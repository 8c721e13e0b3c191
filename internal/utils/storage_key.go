package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateStorageKey returns a random object key for a document attached to
// an entry, in the format entries/<entry id>/XXXX-XXXX-XXXX
func GenerateStorageKey(entryID uint64) (string, error) {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	hex := hex.EncodeToString(bytes)
	return fmt.Sprintf("entries/%d/%s-%s-%s",
		entryID,
		hex[0:4],
		hex[4:8],
		hex[8:12],
	), nil
}

package store

import (
	"crypto/sha256"
	"fmt"
)

// ContentHash computes the hash stored on a File row. Only content
// changes affect it, so a moved-but-identical file keeps its hash.
func ContentHash(source []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(source))
}

package util

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/minio/highwayhash"
)

// lineKey seeds the per-line digest. The value only needs to be stable
// across both sides of a diff, not secret.
var lineKey = [32]byte{'v', 'i', 'e', 'w', '0', 'x', '-', 'l', 'i', 'n', 'e', '-', 'd', 'i', 'g', 'e', 's', 't', '-', 'k', 'e', 'y', '-', '0', '1', '2', '3', '4', '5', '6', '7', '8'}

// Fingerprint computes the content-addressed identity of a unit. Identical
// content always yields the same digest; any edit yields a new one.
func Fingerprint(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// LineDigest is the cheap per-line hash used only for diff comparison,
// never as a cache key.
func LineDigest(line string) uint64 {
	return highwayhash.Sum64([]byte(line), lineKey[:])
}

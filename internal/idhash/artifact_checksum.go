package idhash

import (
	"crypto/sha256"

	"github.com/mr-tron/base58"
)

// ArtifactChecksum computes the checksum of a serialized pipeline blob:
// base58-encoded SHA256. Used to detect artifact corruption on load and to
// tell two artifacts with the same name apart in logs.
func ArtifactChecksum(blob []byte) string {
	hash := sha256.Sum256(blob)
	return base58.Encode(hash[:])
}

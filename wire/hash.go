package wire

import (
	"crypto/sha256"
	"encoding/hex"
)

// StreamHash returns the hex-encoded SHA-256 digest of s's canonical CBOR
// encoding. Two sessions over equivalent source (including the "idempotent
// classification" guarantee that re-lexing the same input twice produces
// the same token sequence) hash identically, which is cheaper to compare
// than a full token-slice diff for large files.
//
// sha256 is the standard library here deliberately: the teacher's own
// canonical-hash path (core/planfmt.CanonicalPlan.Hash) also reaches for
// crypto/sha256 rather than a third-party hash for this exact purpose.
func StreamHash(s WireStream) (string, error) {
	data, err := Marshal(s)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

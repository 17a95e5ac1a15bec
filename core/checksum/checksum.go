// Package checksum computes and verifies content checksums for the
// migration ledger. Checksums are serialized as "<algorithm>.<hex-digest>"
// so the algorithm travels with the digest and can be rotated later without
// invalidating existing ledger entries.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Algorithm is the digest algorithm used for newly calculated checksums.
const Algorithm = "sha256"

// Checksum is a parsed checksum value.
type Checksum struct {
	Algorithm string `json:"algorithm"`
	Hash      string `json:"hash"`
}

// String returns the serialized "<algorithm>.<hex-digest>" form.
func (c Checksum) String() string {
	return c.Algorithm + "." + c.Hash
}

// Calculate returns the checksum of content in serialized form. The result
// is deterministic: identical content always produces an identical checksum.
func Calculate(content string) string {
	sum := sha256.Sum256([]byte(content))
	return Algorithm + "." + hex.EncodeToString(sum[:])
}

// Verify reports whether content produces the given serialized checksum.
// An unparseable checksum never verifies.
func Verify(content, checksum string) bool {
	parsed, err := Parse(checksum)
	if err != nil {
		return false
	}
	if parsed.Algorithm != Algorithm {
		return false
	}
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:]) == parsed.Hash
}

// Parse splits a serialized checksum into its algorithm and hex digest.
func Parse(checksum string) (Checksum, error) {
	algorithm, hash, ok := strings.Cut(checksum, ".")
	if !ok || algorithm == "" || hash == "" {
		return Checksum{}, fmt.Errorf("malformed checksum %q: want <algorithm>.<hex-digest>", checksum)
	}
	if _, err := hex.DecodeString(hash); err != nil {
		return Checksum{}, fmt.Errorf("malformed checksum %q: digest is not hex: %w", checksum, err)
	}
	return Checksum{Algorithm: algorithm, Hash: hash}, nil
}

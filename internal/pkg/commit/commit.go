package commit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Winner indexes returned by Outcome.
const (
	WinnerA = 0
	WinnerB = 1
)

type LengthMismatchError struct {
	LenA int
	LenB int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("xor input length mismatch: %d != %d", e.LenA, e.LenB)
}

// Hash returns the hex encoded sha256 digest of input. It is both the
// commitment function and the per-reveal digest used in Outcome.
func Hash(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// XORHex combines two equal-length hex strings byte-wise. Unequal inputs
// fail with LengthMismatchError, never a truncated result.
func XORHex(hexA string, hexB string) (string, error) {
	if len(hexA) != len(hexB) {
		return "", &LengthMismatchError{LenA: len(hexA), LenB: len(hexB)}
	}

	a, err := hex.DecodeString(hexA)
	if err != nil {
		return "", err
	}
	b, err := hex.DecodeString(hexB)
	if err != nil {
		return "", err
	}

	combined := make([]byte, len(a))
	for i := range a {
		combined[i] = a[i] ^ b[i]
	}
	return hex.EncodeToString(combined), nil
}

// Outcome derives the flip result from the two reveal pre-images. Each
// reveal is re-hashed before the XOR so neither pre-image maps directly onto
// the combined bytes; the first byte of the combination mod 2 picks the
// winner (0 selects player A).
func Outcome(revealA string, revealB string) (int, error) {
	combined, err := XORHex(Hash(revealA), Hash(revealB))
	if err != nil {
		return 0, err
	}

	first, err := hex.DecodeString(combined[:2])
	if err != nil {
		return 0, err
	}
	return int(first[0]) % 2, nil
}

// ValidDigest reports whether s is a well-formed hex encoded 256-bit digest.
func ValidDigest(s string) bool {
	if len(s) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

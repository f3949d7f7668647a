package internal

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

const tokenRawSize = 16

// privateIDVersion tags every derived key form so the hash function can be
// swapped later without colliding with keys derived under the old scheme.
const privateIDVersion = "2"

// NewToken returns a new opaque session identifier: 128 bits from
// crypto/rand, base64url without padding. No uniqueness check is made
// against the store; uniqueness is enforced at write time by the
// set-if-absent guard.
func NewToken() string {
	var raw [tokenRawSize]byte
	rand.Read(raw[:]) // never returns an error; crashes the process on entropy failure
	return base64.RawURLEncoding.EncodeToString(raw[:])
}

// PrivateID derives the hardened storage form of an identifier:
// "2::" + hex(sha256(raw identifier)). Deterministic, and one-way — the
// identifier cannot be recovered from a stored key.
func PrivateID(id string) string {
	sum := sha256.Sum256([]byte(id))
	return privateIDVersion + "::" + hex.EncodeToString(sum[:])
}

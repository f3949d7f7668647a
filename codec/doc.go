// Package codec defines the two-operation serialization contract session
// records pass through on their way to and from the store, plus the built-in
// implementations: JSON (portable text, the default), Gob (Go-native
// binary), and CBOR (portable binary).
//
// Decode must report malformed input as an ordinary error — never panic —
// so the session layer can apply its corruption policy: drop the record and
// fall back to a fresh session. Any externally supplied type satisfying
// [Codec] can be plugged in without touching the session layer.
package codec

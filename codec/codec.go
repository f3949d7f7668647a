package codec

// Codec encodes a session record's in-memory representation to an opaque
// byte string and back. Implementations must be safe for concurrent use;
// the built-ins are stateless.
//
// Decode operates in any-top-level-value mode: the result is whatever the
// encoding describes, not necessarily a map. The session layer decides what
// shapes it accepts.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte) (any, error)
}

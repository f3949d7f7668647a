package codec

import (
	"bytes"
	"encoding/gob"
	"time"
)

func init() {
	// Concrete types carried inside the encoded interface value. Scalars
	// are pre-registered by encoding/gob.
	gob.Register(map[string]any{})
	gob.Register([]any{})
	gob.Register(time.Time{})
}

// Gob is the Go-native binary codec. Compact and type-preserving, but the
// wire form is specific to the Go runtime: records written with it are
// unreadable to consumers in other languages. Use JSON or CBOR when another
// system shares the store.
type Gob struct{}

func (Gob) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (Gob) Decode(data []byte) (any, error) {
	var v any
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// cborDecMode decodes maps string-keyed so records round-trip to the same
// shape the session layer stores.
var cborDecMode = func() cbor.DecMode {
	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}()

// CBOR is the portable binary codec. Smaller than JSON on the wire and
// readable from any language with a CBOR implementation.
type CBOR struct{}

func (CBOR) Encode(v any) ([]byte, error) {
	return cbor.Marshal(v)
}

func (CBOR) Decode(data []byte) (any, error) {
	var v any
	if err := cborDecMode.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

package flatwire

import (
	"encoding/base64"
	"encoding/json"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// Codec renders a whole sequence as a single sub-document value and parses
// it back. The query codec calls it for Array fields, where one wire key
// carries the entire sequence instead of repeating per element.
//
// A sub-document travels inside a key=value token, so any '&' or '=' the
// codec emits must be covered by the caller's escape hooks. JSON output is
// separator-free for numeric and boolean payloads; CBOR output always is.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSON is the default sub-document codec. Sequences appear on the wire as
// JSON arrays, ids=[1,2,3].
var JSON Codec = jsonCodec{}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// CBOR is a binary sub-document codec. Documents use Core Deterministic
// Encoding (RFC 8949 §4.2) and are base64-armored so the wire value stays
// plain text. The armor is unpadded to keep '=' out of the token. Same
// logical data always produces identical tokens.
var CBOR Codec = cborCodec{}

// encMode is the CBOR encoder configured with Core Deterministic Encoding:
// sorted map keys, smallest integer encoding, no indefinite-length items.
var encMode cbor.EncMode

// decMode is the CBOR decoder configured to accept standard CBOR.
var decMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	// Types implementing encoding.TextMarshaler serialize as CBOR text
	// strings via MarshalText, matching how the query codec renders them.
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("flatwire: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Any-typed targets decode maps as map[string]any rather than the
		// CBOR default map[interface{}]interface{}. Struct field decoding
		// is unaffected.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		// Mirrors the TextMarshaler setting above for round-trip
		// correctness.
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("flatwire: CBOR decoder initialization failed: " + err.Error())
	}
}

type cborCodec struct{}

func (cborCodec) Marshal(v any) ([]byte, error) {
	raw, err := encMode.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := make([]byte, base64.RawStdEncoding.EncodedLen(len(raw)))
	base64.RawStdEncoding.Encode(out, raw)
	return out, nil
}

func (cborCodec) Unmarshal(data []byte, v any) error {
	raw := make([]byte, base64.RawStdEncoding.DecodedLen(len(data)))
	n, err := base64.RawStdEncoding.Decode(raw, data)
	if err != nil {
		return err
	}
	return decMode.Unmarshal(raw[:n], v)
}

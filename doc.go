// Package flatwire provides a Go implementation of the flat key=value wire
// format used in URL query strings and form bodies.
//
// The format is a single namespace of key=value pairs joined by ampersands.
// There is no nesting syntax: nested structs flatten into the shared
// namespace, sequences repeat their key once per element, and a sequence
// that must travel under a single key is embedded as a sub-document
// produced by a Codec from this package.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	flatwire/            Root package with the sub-document Codec contract
//	├── query/           Flat key=value codec between Go structs and wire text
//	├── errors/          Structured error types for debugging
//	├── httpform/        net/http adapter: extract from requests, encode responses
//	└── cmd/qwire/       Command-line inspector for flat query text
//
// # Quick Start
//
// Encode and decode a struct:
//
//	type Filter struct {
//		Name    string           `query:"name"`
//		IDs     []uint64         `query:"ids"`
//		Hobbies *query.Array[string] `query:"hobbies"`
//	}
//
//	text, err := query.EncodeToString(Filter{
//		Name: "test",
//		IDs:  []uint64{1, 2},
//	})
//	// "name=test&ids=1&ids=2"
//
//	var f Filter
//	err = query.DecodeString(text, &f)
//
// # Sequence Strategies
//
// A plain Go slice uses the repeated-key strategy: ids=1&ids=2&ids=3. The
// query.Array wrapper uses the single-key strategy instead: the whole
// sequence becomes one sub-document value, ids=[1,2,3] with the JSON codec.
// The Codec interface in this package is the seam between the two layers;
// JSON is the default and CBOR is available where compactness matters.
//
// # Thread Safety
//
// Compiled type shapes are cached and safe for concurrent use. Marshal and
// Unmarshal may be called from any goroutine.
package flatwire

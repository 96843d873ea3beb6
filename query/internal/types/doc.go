// Package types defines the compiled shape structures for fast coding.
//
// Shape holds precomputed field metadata (wire keys, element shapes, tag
// options) for efficient encoding/decoding of Go values. By compiling type
// metadata once, the codec avoids repeated reflection during hot paths.
//
// # Key Types
//
//   - Shape: Cached type metadata with field layout
//   - Kind: Type discriminator (scalar, record, sequence, optional, etc.)
//
// This package is internal to the query codec.
package types

// Package query provides flat key=value encoding and decoding.
//
// This package handles bidirectional conversion between Go values and the
// flat pair format used by query strings and form bodies:
//
//	┌────────────────────────────────────────────────────────┐
//	│ Go Value ←→ [query] ←→ "name=test&age=37&ids=1&ids=2"  │
//	└────────────────────────────────────────────────────────┘
//
// # Wire Format
//
// A document is a sequence of pairs joined by '&'. Each pair is one key,
// one '=', one value. There is no quoting and no escaping at this layer:
// a piece with zero or more than one '=' is a parse error, and tokens are
// taken verbatim. Layers that need URL escaping run it per token through
// the Escape/Unescape hooks before pairs are joined and after they are
// split.
//
// # Value Mapping
//
//	Go type                 Wire form
//	─────────────────────────────────────────────
//	bool                    true / false
//	int*, uint*             decimal digits
//	float32/float64         shortest round-trip decimal
//	string                  verbatim token
//	[]byte                  standard base64
//	rune (query:",char")    the character itself
//	*T                      T when present, nothing when nil
//	[]T, [N]T               one pair per element, repeated key
//	Array[T]                one pair, sub-document token
//	struct                  fields flattened in place
//	map[string]T            one pair per entry, sorted keys
//
// # Key Types
//
//	Fields    - Parsed multi-value key set, consumed front-first
//	Shape     - Pre-compiled encoding plan for a Go type
//	Array     - Slice wrapper encoded as a single sub-document token
//	Encoder   - Writes flat text to an io.Writer
//	Decoder   - Reads flat text from an io.Reader
//
// # Encoding Flow
//
//  1. Compile(reflect.TypeOf(v)) → *Shape (cached)
//  2. Walk value in field declaration order, one token per pair
//  3. Join pairs with '&'; absent optionals and empty sequences
//     contribute nothing
//
// # Decoding Flow
//
//  1. ParseFields(input) → Fields (fatal on malformed pairs)
//  2. Walk the target shape, consuming values front-first by key
//  3. Map fields drain whatever the named fields left, regardless of
//     where they are declared
//  4. Leftover keys are ignored, or rejected with RejectUnknown
//
// # Sequence Strategies
//
// Two representations exist for sequences and they never mix on one field:
//
//	[]uint64       → ids=1&ids=2        (repeated key)
//	Array[uint64]  → ids=[1,2]          (single key, sub-document)
//
// The repeated-key form has no empty representation: an empty slice
// disappears from the wire and an absent key decodes as empty. The Array
// form keeps cardinality explicit (an empty Array is still one pair) and
// is the only way to nest compound elements.
//
// # Shared Namespace
//
// Nested structs flatten into the same namespace as their parent; nothing
// prefixes or qualifies their keys. A tag name on a struct-typed field is
// a compile error, since flattening would never write it. When two fields
// share a wire key they consume values from it in field declaration order.
//
// # Custom Tokens
//
// Types control their own token form by implementing Marshaler and
// Unmarshaler, or encoding.TextMarshaler and encoding.TextUnmarshaler.
// MarshalQuery/UnmarshalQuery win over the text interfaces, which win over
// the builtin mapping.
//
// # Thread Safety
//
// Compiled shapes are cached and safe for concurrent use. Marshal and
// Unmarshal are safe to call from multiple goroutines. Encoder and Decoder
// wrap a stream and are not thread-safe; use one per goroutine.
//
// # Error Handling
//
// Errors use the structured types from the errors package:
//
//	[parse] invalid_pair: pair "a=b=c" does not match key=value
//	[decode] invalid_literal at user.age (key "age"): Go type int - cannot parse "notanumber" (caused by: ...)
package query

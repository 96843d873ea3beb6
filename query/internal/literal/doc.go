// Package literal converts scalar Go values to and from their wire tokens.
//
// Tokens follow the fixed grammar of the flat format: booleans are
// "true"/"false", integers are decimal, floats use the shortest 'f' form
// that round-trips, chars are the character itself, byte slices are
// standard base64, strings pass through verbatim. Parsing is exact-width
// and strict; callers wrap the raw strconv/base64 causes in structured
// errors.
//
// This package is internal to the query codec.
package literal

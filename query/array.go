package query

import (
	"github.com/flatwire/flatwire"
)

// Array is a sequence that travels under a single wire key. Where a plain
// slice repeats its key once per element, an Array renders the whole
// sequence as one sub-document through the configured flatwire.Codec:
//
//	IDs []uint64      `query:"ids"` // ids=1&ids=2&ids=3
//	IDs Array[uint64] `query:"ids"` // ids=[1,2,3]
//
// The two strategies are mutually exclusive per field by type choice.
// Unlike repeated-key sequences, Array elements may be compound values:
// the sub-document codec carries the element boundaries.
type Array[T any] []T

// arrayValue is implemented by every Array instantiation. The compiler
// detects the array kind through it and the encoder reaches the concrete
// element slice without reflection.
type arrayValue interface {
	encodeArray(c flatwire.Codec) (string, error)
}

// arrayTarget is the decode side of arrayValue, on the pointer receiver so
// decoded elements land in place.
type arrayTarget interface {
	decodeArray(c flatwire.Codec, raw string) error
}

func (a Array[T]) encodeArray(c flatwire.Codec) (string, error) {
	elems := []T(a)
	if elems == nil {
		elems = []T{}
	}
	data, err := c.Marshal(elems)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (a *Array[T]) decodeArray(c flatwire.Codec, raw string) error {
	var elems []T
	if err := c.Unmarshal([]byte(raw), &elems); err != nil {
		return err
	}
	*a = elems
	return nil
}

package query

import (
	"bytes"
	"encoding"
	"reflect"
	"sort"

	"github.com/flatwire/flatwire"
	"github.com/flatwire/flatwire/errors"
	"github.com/flatwire/flatwire/query/internal/literal"
	"github.com/flatwire/flatwire/query/internal/types"
)

// Marshaler is the interface implemented by types that can render
// themselves as a single wire token.
type Marshaler interface {
	MarshalQuery() (string, error)
}

// EncodeOptions configures MarshalWith.
type EncodeOptions struct {
	// Arrays is the sub-document codec used for Array fields. Nil selects
	// flatwire.JSON.
	Arrays flatwire.Codec

	// Escape runs on every key and value token before the tokens are joined
	// into pairs. Nil means no escaping; the core never escapes on its own.
	Escape func(string) string
}

// EncodeToString is a convenience function that returns the flat encoding
// of v as a string.
func EncodeToString(v any) (string, error) {
	b, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Marshal returns the flat key=value encoding of v. The top-level value
// must be a struct or string-keyed map; a nil value or nil pointer encodes
// as empty output.
func Marshal(v any) ([]byte, error) {
	return MarshalWith(v, EncodeOptions{})
}

// MarshalWith returns the flat encoding of v using the given options.
func MarshalWith(v any, opts EncodeOptions) ([]byte, error) {
	if v == nil {
		return []byte{}, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return []byte{}, nil
		}
		rv = rv.Elem()
	}

	shape, err := Compile(rv.Type())
	if err != nil {
		return nil, err
	}
	if shape.Kind != types.KindRecord && shape.Kind != types.KindMap {
		return nil, errors.InvalidInput(errors.PhaseEncode,
			"top-level value must be a struct or string-keyed map")
	}

	e := &encoder{arrays: opts.Arrays, escape: opts.Escape, isFirst: true}
	if e.arrays == nil {
		e.arrays = flatwire.JSON
	}
	if err := e.encodeValue(shape, rv, "", nil); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

// encoder walks a shape and its value in one left-to-right pass. The pair
// writer owns the '&' separator and the key text: a key is only ever
// written together with a confirmed value, so omitted fields leave no
// dangling key or separator behind.
type encoder struct {
	buf     bytes.Buffer
	arrays  flatwire.Codec
	escape  func(string) string
	isFirst bool
}

func (e *encoder) writePair(key, value string) {
	if !e.isFirst {
		e.buf.WriteByte('&')
	}
	e.isFirst = false

	if e.escape != nil {
		key = e.escape(key)
		value = e.escape(value)
	}
	e.buf.WriteString(key)
	e.buf.WriteByte('=')
	e.buf.WriteString(value)
}

func (e *encoder) encodeValue(s *types.Shape, v reflect.Value, key string, path []string) error {
	switch s.Kind {
	case types.KindOptional:
		// Absent optionals contribute nothing, not even their key.
		if v.IsNil() {
			return nil
		}
		return e.encodeValue(s.Elem, v.Elem(), key, path)

	case types.KindRecord:
		// Fields flatten into the shared namespace in declared order.
		for i := range s.Fields {
			f := &s.Fields[i]
			fv := v.Field(f.Index)
			if f.OmitEmpty && isEmptyValue(fv) {
				continue
			}
			fieldPath := append(append([]string{}, path...), f.Name)
			if err := e.encodeValue(f.Type, fv, f.Name, fieldPath); err != nil {
				return err
			}
		}
		return nil

	case types.KindSequence:
		// One pair per element; an empty sequence is omitted entirely.
		for i := 0; i < v.Len(); i++ {
			tok, err := e.token(s.Elem, v.Index(i), path)
			if err != nil {
				return err
			}
			e.writePair(key, tok)
		}
		return nil

	case types.KindArray:
		tok, err := v.Interface().(arrayValue).encodeArray(e.arrays)
		if err != nil {
			return errors.SubCodec(errors.PhaseEncode, path, key, err)
		}
		e.writePair(key, tok)
		return nil

	case types.KindMap:
		return e.encodeMap(s, v, path)

	default:
		tok, err := e.token(s, v, path)
		if err != nil {
			return err
		}
		e.writePair(key, tok)
		return nil
	}
}

// encodeMap writes map entries in sorted key order so equal maps produce
// equal output.
func (e *encoder) encodeMap(s *types.Shape, v reflect.Value, path []string) error {
	keys := make([]string, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		keys = append(keys, iter.Key().String())
	}
	sort.Strings(keys)

	keyType := s.GoType.Key()
	for _, k := range keys {
		kv := reflect.ValueOf(k)
		if kv.Type() != keyType {
			kv = kv.Convert(keyType)
		}
		mv := v.MapIndex(kv)
		keyPath := append(append([]string{}, path...), k)

		if s.Elem.Kind == types.KindSequence {
			if err := e.encodeValue(s.Elem, mv, k, keyPath); err != nil {
				return err
			}
			continue
		}

		tok, err := e.token(s.Elem, mv, keyPath)
		if err != nil {
			return err
		}
		e.writePair(k, tok)
	}
	return nil
}

// token renders one single-valued item as its wire text.
func (e *encoder) token(s *types.Shape, v reflect.Value, path []string) (string, error) {
	switch {
	case s.Kind.IsScalar():
		return literal.Format(s.Kind, v), nil
	case s.Kind == types.KindText:
		return e.textToken(v, path)
	case s.Kind == types.KindCustom:
		return e.customToken(v, path)
	case s.Kind == types.KindAny:
		return e.anyToken(v, path)
	}
	return "", errors.Unsupported(errors.PhaseEncode, path, s.GoType.String(),
		"value does not flatten to one token")
}

func (e *encoder) customToken(v reflect.Value, path []string) (string, error) {
	m, ok := v.Interface().(Marshaler)
	if !ok && v.CanAddr() {
		m, ok = v.Addr().Interface().(Marshaler)
	}
	if !ok {
		return "", errors.Unsupported(errors.PhaseEncode, path, v.Type().String(),
			"type implements UnmarshalQuery but not MarshalQuery")
	}

	tok, err := m.MarshalQuery()
	if err != nil {
		return "", errors.New(errors.PhaseEncode, errors.KindInvalidLiteral).
			Path(path...).
			GoType(v.Type().String()).
			Detail("MarshalQuery failed").
			Cause(err).
			Build()
	}
	return tok, nil
}

func (e *encoder) textToken(v reflect.Value, path []string) (string, error) {
	m, ok := v.Interface().(encoding.TextMarshaler)
	if !ok && v.CanAddr() {
		m, ok = v.Addr().Interface().(encoding.TextMarshaler)
	}
	if !ok {
		return "", errors.Unsupported(errors.PhaseEncode, path, v.Type().String(),
			"type implements UnmarshalText but not MarshalText")
	}

	data, err := m.MarshalText()
	if err != nil {
		return "", errors.New(errors.PhaseEncode, errors.KindInvalidLiteral).
			Path(path...).
			GoType(v.Type().String()).
			Detail("MarshalText failed").
			Cause(err).
			Build()
	}
	return string(data), nil
}

// anyToken renders a dynamic value. The concrete type must itself flatten
// to one token; a nil interface renders as the empty token.
func (e *encoder) anyToken(v reflect.Value, path []string) (string, error) {
	if v.IsNil() {
		return "", nil
	}

	inner := v.Elem()
	s, err := shapes.compileCached(inner.Type())
	if err != nil {
		return "", err
	}
	if !s.Kind.SingleValued() || s.Kind == types.KindAny {
		return "", errors.Unsupported(errors.PhaseEncode, path, inner.Type().String(),
			"dynamic value does not flatten to one token")
	}
	return e.token(s, inner, path)
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}

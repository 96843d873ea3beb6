package query

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/flatwire/flatwire"
	"github.com/flatwire/flatwire/errors"
	"github.com/flatwire/flatwire/query/internal/literal"
	"github.com/flatwire/flatwire/query/internal/types"
)

// Unmarshaler is the interface implemented by types that can parse
// themselves from a single wire token.
type Unmarshaler interface {
	UnmarshalQuery(string) error
}

// DecodeOptions configures UnmarshalWith.
type DecodeOptions struct {
	// Arrays is the sub-document codec used for Array fields. Nil selects
	// flatwire.JSON.
	Arrays flatwire.Codec

	// Unescape runs on every key and value token after pair splitting. Nil
	// means no unescaping; the core never unescapes on its own.
	Unescape func(string) (string, error)

	// RejectUnknown makes decoding fail when input keys remain unconsumed
	// after the target is populated.
	RejectUnknown bool
}

// DecodeString is a convenience function that parses flat text into v.
func DecodeString(s string, v any) error {
	return UnmarshalWith([]byte(s), v, DecodeOptions{})
}

// Unmarshal parses flat key=value data into v, which must be a non-nil
// pointer to a struct or string-keyed map. Input keys the target does not
// declare are ignored.
func Unmarshal(data []byte, v any) error {
	return UnmarshalWith(data, v, DecodeOptions{})
}

// UnmarshalWith parses flat key=value data into v using the given options.
func UnmarshalWith(data []byte, v any, opts DecodeOptions) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.InvalidInput(errors.PhaseDecode, "target must be a non-nil pointer")
	}
	target := rv.Elem()

	shape, err := Compile(target.Type())
	if err != nil {
		return err
	}
	if shape.Kind != types.KindRecord && shape.Kind != types.KindMap {
		return errors.InvalidInput(errors.PhaseDecode,
			"target must point to a struct or string-keyed map")
	}

	fields, err := ParseFields(string(data), opts.Unescape)
	if err != nil {
		return err
	}

	d := &decoder{fields: fields, arrays: opts.Arrays}
	if d.arrays == nil {
		d.arrays = flatwire.JSON
	}
	if err := d.decodeValue(shape, target, "", nil); err != nil {
		return err
	}
	if err := d.decodeDeferred(); err != nil {
		return err
	}

	if opts.RejectUnknown && len(fields) > 0 {
		return errors.NewUnknownKeysError(fields.Keys())
	}
	return nil
}

// decoder owns one Fields instance for the whole walk and mutates it in
// place. Every consumed value disappears from the map, so nested records
// share the flat namespace without partitioning it, and whatever survives
// the walk is by definition unknown to the target.
type decoder struct {
	fields   Fields
	arrays   flatwire.Codec
	deferred []deferredField
}

// deferredField is a map-kind record field held back until every named
// field in the document has consumed its keys.
type deferredField struct {
	field *types.Field
	value reflect.Value
	path  []string
}

func (d *decoder) decodeValue(s *types.Shape, v reflect.Value, key string, path []string) error {
	switch s.Kind {
	case types.KindOptional:
		return d.decodeOptional(s, v, key, path)

	case types.KindRecord:
		return d.decodeRecord(s, v, path)

	case types.KindSequence:
		return d.decodeSequence(s, v, key, path)

	case types.KindArray:
		raw, ok := d.fields.Take(key)
		if !ok {
			return errors.MissingValue(path, key)
		}
		if err := v.Addr().Interface().(arrayTarget).decodeArray(d.arrays, raw); err != nil {
			return errors.SubCodec(errors.PhaseDecode, path, key, err)
		}
		return nil

	case types.KindMap:
		return d.decodeMap(s, v, path)

	default:
		raw, ok := d.fields.Take(key)
		if !ok {
			return errors.MissingValue(path, key)
		}
		return d.setToken(s, v, key, raw, path)
	}
}

// decodeRecord fills a record's fields by key lookup. Map-kind fields are
// held back regardless of declared position: a map drains all remaining
// keys, so running one mid-walk would swallow values that named fields,
// here or in an enclosing record, still need.
func (d *decoder) decodeRecord(s *types.Shape, v reflect.Value, path []string) error {
	for i := range s.Fields {
		f := &s.Fields[i]
		if f.Type.Unwrap().Kind == types.KindMap {
			d.deferred = append(d.deferred, deferredField{field: f, value: v, path: path})
			continue
		}
		if err := d.decodeField(f, v, path); err != nil {
			return err
		}
	}
	return nil
}

// decodeDeferred runs the held-back map fields, in encounter order, once
// the named walk is done. An optional map's presence is therefore a
// statement about the leftovers, not about the raw input.
func (d *decoder) decodeDeferred() error {
	for _, df := range d.deferred {
		if err := d.decodeField(df.field, df.value, df.path); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) decodeField(f *types.Field, v reflect.Value, path []string) error {
	fieldPath := append(append([]string{}, path...), f.Name)
	return d.decodeValue(f.Type, v.Field(f.Index), f.Name, fieldPath)
}

// present reports whether the input still carries evidence of s. A record
// counts as present when any of its flattened keys remains; everything else
// hinges on its own key.
func (d *decoder) present(s *types.Shape, key string) bool {
	switch s.Kind {
	case types.KindOptional:
		return d.present(s.Elem, key)
	case types.KindRecord:
		for _, k := range s.Keys() {
			if d.fields.Has(k) {
				return true
			}
		}
		return false
	case types.KindMap:
		return len(d.fields) > 0
	default:
		return d.fields.Has(key)
	}
}

func (d *decoder) decodeOptional(s *types.Shape, v reflect.Value, key string, path []string) error {
	if !d.present(s.Elem, key) {
		// Absent stays nil; absence of an optional is not an error.
		return nil
	}
	if v.IsNil() {
		v.Set(reflect.New(v.Type().Elem()))
	}
	return d.decodeValue(s.Elem, v.Elem(), key, path)
}

func (d *decoder) decodeSequence(s *types.Shape, v reflect.Value, key string, path []string) error {
	vals := d.fields.TakeAll(key)

	if v.Kind() == reflect.Array {
		if len(vals) > v.Len() {
			return errors.TypeMismatch(errors.PhaseDecode, path, s.GoType.String(),
				fmt.Sprintf("%d values for a %d-element array", len(vals), v.Len()))
		}
		for i, raw := range vals {
			if err := d.setToken(s.Elem, v.Index(i), key, raw, path); err != nil {
				return err
			}
		}
		return nil
	}

	// A repeated-key sequence has no empty form on the wire, so an absent
	// key decodes as the empty sequence.
	if len(vals) == 0 {
		return nil
	}

	out := reflect.MakeSlice(s.GoType, len(vals), len(vals))
	for i, raw := range vals {
		if err := d.setToken(s.Elem, out.Index(i), key, raw, path); err != nil {
			return err
		}
	}
	v.Set(out)
	return nil
}

// decodeMap drains every remaining input key into the map. A single-valued
// element type keeps each key's first value; declare a slice-valued map to
// keep them all.
func (d *decoder) decodeMap(s *types.Shape, v reflect.Value, path []string) error {
	if v.IsNil() {
		v.Set(reflect.MakeMap(s.GoType))
	}

	keyType := s.GoType.Key()
	for _, k := range d.fields.Keys() {
		vals := d.fields.TakeAll(k)
		keyPath := append(append([]string{}, path...), k)

		elem := reflect.New(s.GoType.Elem()).Elem()
		if s.Elem.Kind == types.KindSequence {
			out := reflect.MakeSlice(s.Elem.GoType, len(vals), len(vals))
			for i, raw := range vals {
				if err := d.setToken(s.Elem.Elem, out.Index(i), k, raw, keyPath); err != nil {
					return err
				}
			}
			elem.Set(out)
		} else {
			if err := d.setToken(s.Elem, elem, k, vals[0], keyPath); err != nil {
				return err
			}
		}

		kv := reflect.ValueOf(k)
		if kv.Type() != keyType {
			kv = kv.Convert(keyType)
		}
		v.SetMapIndex(kv, elem)
	}
	return nil
}

// setToken parses one wire token into a single-valued destination.
func (d *decoder) setToken(s *types.Shape, v reflect.Value, key, raw string, path []string) error {
	switch {
	case s.Kind.IsScalar():
		if err := literal.Parse(s.Kind, raw, v); err != nil {
			return errors.InvalidLiteral(path, key, s.GoType.String(), raw, err)
		}
		return nil

	case s.Kind == types.KindText:
		if !v.CanAddr() {
			return errors.Unsupported(errors.PhaseDecode, path, s.GoType.String(),
				"destination is not addressable")
		}
		m, ok := v.Addr().Interface().(encoding.TextUnmarshaler)
		if !ok {
			return errors.Unsupported(errors.PhaseDecode, path, s.GoType.String(),
				"type implements MarshalText but not UnmarshalText")
		}
		if err := m.UnmarshalText([]byte(raw)); err != nil {
			return errors.InvalidLiteral(path, key, s.GoType.String(), raw, err)
		}
		return nil

	case s.Kind == types.KindCustom:
		if !v.CanAddr() {
			return errors.Unsupported(errors.PhaseDecode, path, s.GoType.String(),
				"destination is not addressable")
		}
		u, ok := v.Addr().Interface().(Unmarshaler)
		if !ok {
			return errors.Unsupported(errors.PhaseDecode, path, s.GoType.String(),
				"type implements MarshalQuery but not UnmarshalQuery")
		}
		if err := u.UnmarshalQuery(raw); err != nil {
			return errors.InvalidLiteral(path, key, s.GoType.String(), raw, err)
		}
		return nil

	case s.Kind == types.KindAny:
		v.Set(reflect.ValueOf(raw))
		return nil
	}

	return errors.Unsupported(errors.PhaseDecode, path, s.GoType.String(),
		"value does not flatten to one token")
}

package query

import (
	"encoding"
	"reflect"
	"sync"

	"github.com/flatwire/flatwire/errors"
	"github.com/flatwire/flatwire/query/internal/types"
)

// compiler turns Go types into wire shapes, caching results per type.
type compiler struct {
	cache sync.Map // reflect.Type -> *types.Shape
}

// shapes is the package-wide compiler shared by Marshal and Unmarshal.
var shapes compiler

var (
	arrayValueType      = reflect.TypeOf((*arrayValue)(nil)).Elem()
	marshalerType       = reflect.TypeOf((*Marshaler)(nil)).Elem()
	unmarshalerType     = reflect.TypeOf((*Unmarshaler)(nil)).Elem()
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// Compile returns the wire shape for a Go type. Shapes are cached and safe
// for concurrent use.
func Compile(goType reflect.Type) (*Shape, error) {
	return shapes.compileCached(goType)
}

func (c *compiler) compileCached(goType reflect.Type) (*types.Shape, error) {
	if goType == nil {
		return nil, errors.New(errors.PhaseCompile, errors.KindInvalidInput).
			Detail("Go type cannot be nil").
			Build()
	}

	if cached, ok := c.cache.Load(goType); ok {
		return cached.(*types.Shape), nil
	}

	s, err := c.compile(goType, nil, nil)
	if err != nil {
		return nil, err
	}

	c.cache.Store(goType, s)
	return s, nil
}

func (c *compiler) compile(goType reflect.Type, path []string, seen map[reflect.Type]bool) (*types.Shape, error) {
	// Pointers always read as optional, before any interface detection:
	// a nil *T must mean "absent", never a method call on nil.
	if goType.Kind() == reflect.Pointer {
		elem, err := c.compile(goType.Elem(), path, seen)
		if err != nil {
			return nil, err
		}
		return &types.Shape{GoType: goType, Kind: types.KindOptional, Elem: elem}, nil
	}

	// The Array wrapper is a slice underneath but keeps single-key semantics.
	if goType.Implements(arrayValueType) {
		return &types.Shape{GoType: goType, Kind: types.KindArray}, nil
	}

	// Custom wins over text wins over the builtin mapping.
	if implementsEither(goType, marshalerType, unmarshalerType) {
		return &types.Shape{GoType: goType, Kind: types.KindCustom}, nil
	}
	if implementsEither(goType, textMarshalerType, textUnmarshalerType) {
		return &types.Shape{GoType: goType, Kind: types.KindText}, nil
	}

	switch goType.Kind() {
	case reflect.Bool:
		return scalarShape(goType, types.KindBool), nil
	case reflect.Int:
		return scalarShape(goType, types.KindInt), nil
	case reflect.Int8:
		return scalarShape(goType, types.KindInt8), nil
	case reflect.Int16:
		return scalarShape(goType, types.KindInt16), nil
	case reflect.Int32:
		return scalarShape(goType, types.KindInt32), nil
	case reflect.Int64:
		return scalarShape(goType, types.KindInt64), nil
	case reflect.Uint:
		return scalarShape(goType, types.KindUint), nil
	case reflect.Uint8:
		return scalarShape(goType, types.KindUint8), nil
	case reflect.Uint16:
		return scalarShape(goType, types.KindUint16), nil
	case reflect.Uint32:
		return scalarShape(goType, types.KindUint32), nil
	case reflect.Uint64:
		return scalarShape(goType, types.KindUint64), nil
	case reflect.Float32:
		return scalarShape(goType, types.KindFloat32), nil
	case reflect.Float64:
		return scalarShape(goType, types.KindFloat64), nil
	case reflect.String:
		return scalarShape(goType, types.KindString), nil
	case reflect.Slice:
		if goType.Elem().Kind() == reflect.Uint8 {
			return scalarShape(goType, types.KindBytes), nil
		}
		return c.compileSequence(goType, path, seen)
	case reflect.Array:
		return c.compileSequence(goType, path, seen)
	case reflect.Struct:
		return c.compileRecord(goType, path, seen)
	case reflect.Map:
		return c.compileMap(goType, path, seen)
	case reflect.Interface:
		if goType.NumMethod() == 0 {
			return &types.Shape{GoType: goType, Kind: types.KindAny}, nil
		}
		return nil, errors.Unsupported(errors.PhaseCompile, path, goType.String(),
			"non-empty interface cannot map onto key=value")
	default:
		return nil, errors.Unsupported(errors.PhaseCompile, path, goType.String(),
			"Go kind "+goType.Kind().String()+" cannot map onto key=value")
	}
}

func (c *compiler) compileSequence(goType reflect.Type, path []string, seen map[reflect.Type]bool) (*types.Shape, error) {
	elemPath := append(append([]string{}, path...), "[elem]")
	elem, err := c.compile(goType.Elem(), elemPath, seen)
	if err != nil {
		return nil, err
	}

	// Repeated-key wire form has no element boundaries, so every element
	// must occupy exactly one token. Compound sequences go through Array.
	if !elem.Kind.SingleValued() || elem.Kind == types.KindAny {
		return nil, errors.Unsupported(errors.PhaseCompile, elemPath, goType.String(),
			"sequence elements must flatten to one value each; use Array for compound elements")
	}

	return &types.Shape{GoType: goType, Kind: types.KindSequence, Elem: elem}, nil
}

func (c *compiler) compileRecord(goType reflect.Type, path []string, seen map[reflect.Type]bool) (*types.Shape, error) {
	if seen[goType] {
		return nil, errors.Unsupported(errors.PhaseCompile, path, goType.String(),
			"recursive type cannot flatten into one namespace")
	}
	if seen == nil {
		seen = make(map[reflect.Type]bool)
	}
	seen[goType] = true
	defer delete(seen, goType)

	fields := make([]types.Field, 0, goType.NumField())
	for i := 0; i < goType.NumField(); i++ {
		f := goType.Field(i)
		if !f.IsExported() {
			continue
		}

		tag := parseTag(f.Tag.Get("query"))
		if tag.Ignore {
			continue
		}
		renamed := tag.Name != ""
		if tag.Name == "" {
			tag.Name = f.Name
		}

		fieldPath := append(append([]string{}, path...), tag.Name)
		ft, err := c.compile(f.Type, fieldPath, seen)
		if err != nil {
			return nil, err
		}
		if renamed && ft.Unwrap().Kind == types.KindRecord {
			return nil, errors.Unsupported(errors.PhaseCompile, fieldPath, f.Type.String(),
				"a tag name on a record field can never reach the wire; nested records flatten unprefixed")
		}
		if tag.Char {
			ft, err = charShape(ft, fieldPath)
			if err != nil {
				return nil, err
			}
		}

		fields = append(fields, types.Field{
			Type:      ft,
			Name:      tag.Name,
			Index:     i,
			OmitEmpty: tag.Omit,
		})
	}

	return &types.Shape{GoType: goType, Kind: types.KindRecord, Fields: fields}, nil
}

func (c *compiler) compileMap(goType reflect.Type, path []string, seen map[reflect.Type]bool) (*types.Shape, error) {
	if goType.Key().Kind() != reflect.String {
		return nil, errors.Unsupported(errors.PhaseCompile, path, goType.String(),
			"map keys must be strings")
	}

	elemPath := append(append([]string{}, path...), "[value]")
	elem, err := c.compile(goType.Elem(), elemPath, seen)
	if err != nil {
		return nil, err
	}

	if !elem.Kind.SingleValued() && elem.Kind != types.KindSequence {
		return nil, errors.Unsupported(errors.PhaseCompile, elemPath, goType.String(),
			"map values must be single-valued or sequences of single values")
	}

	return &types.Shape{GoType: goType, Kind: types.KindMap, Elem: elem}, nil
}

func scalarShape(goType reflect.Type, k types.Kind) *types.Shape {
	return &types.Shape{GoType: goType, Kind: k}
}

// charShape re-kinds an int32-shaped field as a single character. The char
// option travels through optional and sequence wrappers, so *rune and
// []rune fields work as expected.
func charShape(s *types.Shape, path []string) (*types.Shape, error) {
	switch s.Kind {
	case types.KindInt32:
		return &types.Shape{GoType: s.GoType, Kind: types.KindChar}, nil
	case types.KindOptional:
		elem, err := charShape(s.Elem, path)
		if err != nil {
			return nil, err
		}
		return &types.Shape{GoType: s.GoType, Kind: types.KindOptional, Elem: elem}, nil
	case types.KindSequence:
		elem, err := charShape(s.Elem, path)
		if err != nil {
			return nil, err
		}
		return &types.Shape{GoType: s.GoType, Kind: types.KindSequence, Elem: elem}, nil
	default:
		return nil, errors.TypeMismatch(errors.PhaseCompile, path, s.GoType.String(),
			"char option requires an int32 (rune) field")
	}
}

func implementsEither(t, a, b reflect.Type) bool {
	if t.Implements(a) || t.Implements(b) {
		return true
	}
	p := reflect.PointerTo(t)
	return p.Implements(a) || p.Implements(b)
}

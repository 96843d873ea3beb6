package types

import (
	"reflect"
)

type Shape struct {
	GoType reflect.Type
	Elem   *Shape
	Fields []Field
	Kind   Kind
}

type Field struct {
	Type      *Shape
	Name      string
	Index     int
	OmitEmpty bool
}

func (s *Shape) IsScalar() bool {
	return s.Kind.IsScalar()
}

// Unwrap strips optional wrappers and returns the underlying shape.
func (s *Shape) Unwrap() *Shape {
	u := s
	for u.Kind == KindOptional {
		u = u.Elem
	}
	return u
}

// Keys returns the transitive set of wire keys a record shape reads and
// writes. Nested records contribute their own keys because record fields
// flatten into the shared namespace. Map fields have no static keys and
// contribute nothing.
func (s *Shape) Keys() []string {
	switch s.Kind {
	case KindOptional:
		return s.Elem.Keys()
	case KindRecord:
		var keys []string
		for _, f := range s.Fields {
			if u := f.Type.Unwrap(); u.Kind == KindRecord {
				keys = append(keys, u.Keys()...)
			} else if u.Kind != KindMap {
				keys = append(keys, f.Name)
			}
		}
		return keys
	default:
		return nil
	}
}

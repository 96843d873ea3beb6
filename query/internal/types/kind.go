package types

type Kind uint8

const (
	KindBool Kind = iota
	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindChar
	KindString
	KindBytes
	KindText
	KindCustom
	KindAny
	KindOptional
	KindSequence
	KindArray
	KindRecord
	KindMap
)

var kindNames = [...]string{
	KindBool:     "bool",
	KindInt:      "int",
	KindInt8:     "int8",
	KindInt16:    "int16",
	KindInt32:    "int32",
	KindInt64:    "int64",
	KindUint:     "uint",
	KindUint8:    "uint8",
	KindUint16:   "uint16",
	KindUint32:   "uint32",
	KindUint64:   "uint64",
	KindFloat32:  "float32",
	KindFloat64:  "float64",
	KindChar:     "char",
	KindString:   "string",
	KindBytes:    "bytes",
	KindText:     "text",
	KindCustom:   "custom",
	KindAny:      "any",
	KindOptional: "optional",
	KindSequence: "sequence",
	KindArray:    "array",
	KindRecord:   "record",
	KindMap:      "map",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsScalar reports whether the kind renders as a single literal token
// with no marshaler involvement.
func (k Kind) IsScalar() bool {
	return k <= KindBytes
}

// SingleValued reports whether one value of this kind occupies exactly one
// wire token. Only single-valued kinds may appear as sequence elements.
func (k Kind) SingleValued() bool {
	return k <= KindAny
}

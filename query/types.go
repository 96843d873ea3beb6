package query

import (
	"github.com/flatwire/flatwire/query/internal/types"
)

type Kind = types.Kind

const (
	KindBool     = types.KindBool
	KindInt      = types.KindInt
	KindInt8     = types.KindInt8
	KindInt16    = types.KindInt16
	KindInt32    = types.KindInt32
	KindInt64    = types.KindInt64
	KindUint     = types.KindUint
	KindUint8    = types.KindUint8
	KindUint16   = types.KindUint16
	KindUint32   = types.KindUint32
	KindUint64   = types.KindUint64
	KindFloat32  = types.KindFloat32
	KindFloat64  = types.KindFloat64
	KindChar     = types.KindChar
	KindString   = types.KindString
	KindBytes    = types.KindBytes
	KindText     = types.KindText
	KindCustom   = types.KindCustom
	KindAny      = types.KindAny
	KindOptional = types.KindOptional
	KindSequence = types.KindSequence
	KindArray    = types.KindArray
	KindRecord   = types.KindRecord
	KindMap      = types.KindMap
)

type Shape = types.Shape
type ShapeField = types.Field

package literal

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"strconv"
	"unicode/utf8"

	"github.com/flatwire/flatwire/query/internal/types"
)

// Format renders a scalar value as its wire token. The kind must be one of
// the scalar kinds and v must hold a value of that kind.
func Format(k types.Kind, v reflect.Value) string {
	switch k {
	case types.KindBool:
		return strconv.FormatBool(v.Bool())
	case types.KindInt, types.KindInt8, types.KindInt16, types.KindInt32, types.KindInt64:
		return strconv.FormatInt(v.Int(), 10)
	case types.KindUint, types.KindUint8, types.KindUint16, types.KindUint32, types.KindUint64:
		return strconv.FormatUint(v.Uint(), 10)
	case types.KindFloat32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32)
	case types.KindFloat64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case types.KindChar:
		return string(rune(v.Int()))
	case types.KindString:
		return v.String()
	case types.KindBytes:
		return base64.StdEncoding.EncodeToString(v.Bytes())
	}
	return ""
}

// Parse parses a wire token into dst, which must be addressable and of the
// given scalar kind. Integer and float parsing is exact-width: a token that
// overflows the destination fails even when a wider type could hold it.
func Parse(k types.Kind, raw string, dst reflect.Value) error {
	switch k {
	case types.KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		dst.SetBool(b)
	case types.KindInt, types.KindInt8, types.KindInt16, types.KindInt32, types.KindInt64:
		n, err := strconv.ParseInt(raw, 10, bits(k))
		if err != nil {
			return err
		}
		dst.SetInt(n)
	case types.KindUint, types.KindUint8, types.KindUint16, types.KindUint32, types.KindUint64:
		n, err := strconv.ParseUint(raw, 10, bits(k))
		if err != nil {
			return err
		}
		dst.SetUint(n)
	case types.KindFloat32, types.KindFloat64:
		f, err := strconv.ParseFloat(raw, bits(k))
		if err != nil {
			return err
		}
		dst.SetFloat(f)
	case types.KindChar:
		if n := utf8.RuneCountInString(raw); n != 1 {
			return fmt.Errorf("expected exactly one character, got %d", n)
		}
		r, _ := utf8.DecodeRuneInString(raw)
		dst.SetInt(int64(r))
	case types.KindString:
		dst.SetString(raw)
	case types.KindBytes:
		data, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return err
		}
		dst.SetBytes(data)
	default:
		return fmt.Errorf("kind %s is not a scalar", k)
	}
	return nil
}

// bits returns the strconv bit size for exact-width parsing. Zero selects
// the platform width of int/uint.
func bits(k types.Kind) int {
	switch k {
	case types.KindInt8, types.KindUint8:
		return 8
	case types.KindInt16, types.KindUint16:
		return 16
	case types.KindInt32, types.KindUint32, types.KindFloat32:
		return 32
	case types.KindInt64, types.KindUint64, types.KindFloat64:
		return 64
	default:
		return 0
	}
}

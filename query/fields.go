package query

import (
	"sort"
	"strings"

	"github.com/flatwire/flatwire/errors"
)

// Fields is the intermediate form of a flat document: every wire key mapped
// to its values in arrival order. The decoder consumes values from the
// front; a key whose list empties is deleted, so a fully consumed key reads
// as absent.
type Fields map[string][]string

// ParseFields splits flat text into Fields. Pieces are separated by '&' and
// every piece must contain exactly one '='; anything else is a fatal parse
// error. The optional unescape hook runs on each key and value token after
// splitting, so escaped separators inside tokens survive the split. Empty
// input yields empty Fields.
func ParseFields(s string, unescape func(string) (string, error)) (Fields, error) {
	f := make(Fields)
	if s == "" {
		return f, nil
	}

	for _, piece := range strings.Split(s, "&") {
		key, val, err := splitPair(piece)
		if err != nil {
			return nil, err
		}
		if unescape != nil {
			if key, err = unescapeToken(key, unescape); err != nil {
				return nil, err
			}
			if val, err = unescapeToken(val, unescape); err != nil {
				return nil, err
			}
		}
		f[key] = append(f[key], val)
	}
	return f, nil
}

func splitPair(piece string) (key, val string, err error) {
	key, val, found := strings.Cut(piece, "=")
	if !found || strings.Contains(val, "=") {
		return "", "", errors.InvalidPair(piece)
	}
	return key, val, nil
}

func unescapeToken(tok string, unescape func(string) (string, error)) (string, error) {
	out, err := unescape(tok)
	if err != nil {
		return "", errors.New(errors.PhaseParse, errors.KindInvalidInput).
			Detail("unescape token %q", tok).
			Cause(err).
			Build()
	}
	return out, nil
}

// Take removes and returns the first value stored for key. The second
// return reports whether a value was available.
func (f Fields) Take(key string) (string, bool) {
	vals, ok := f[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	v := vals[0]
	if len(vals) == 1 {
		delete(f, key)
	} else {
		f[key] = vals[1:]
	}
	return v, true
}

// TakeAll removes and returns every remaining value for key in arrival order.
func (f Fields) TakeAll(key string) []string {
	vals := f[key]
	delete(f, key)
	return vals
}

// Has reports whether key still holds at least one value.
func (f Fields) Has(key string) bool {
	return len(f[key]) > 0
}

// Keys returns the remaining keys in sorted order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Package httpform adapts the flat query codec to net/http.
//
// The core codec takes tokens verbatim and treats unescaped '&' and '=' in
// them as malformed input. This package supplies the escaping boundary:
// requests are unescaped per token with url.QueryUnescape on the way in,
// responses escaped with url.QueryEscape on the way out.
//
//	type filter struct {
//		Name string   `query:"name"`
//		IDs  []uint64 `query:"ids"`
//	}
//
//	mux.Handle("/search", httpform.Handler(func(w http.ResponseWriter, r *http.Request, f filter) {
//		// f is decoded and validated; malformed requests never get here.
//	}))
//
// Decode failures are reported to the client as 400 responses and logged
// at debug level through the package logger, which is a no-op unless
// SetLogger installs one.
package httpform

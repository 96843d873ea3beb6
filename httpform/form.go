package httpform

import (
	"io"
	"mime"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/flatwire/flatwire/errors"
	"github.com/flatwire/flatwire/query"
)

// ContentType is the media type read and written by this package.
const ContentType = "application/x-www-form-urlencoded"

// Decode parses a request's query string into a T. Tokens are unescaped
// with url.QueryUnescape, so percent-escapes and '+' survive the strict
// pair syntax of the underlying codec.
func Decode[T any](r *http.Request) (T, error) {
	return DecodeWith[T](r, query.DecodeOptions{})
}

// DecodeWith parses a request's query string into a T using the given
// options. A nil Unescape hook defaults to url.QueryUnescape.
func DecodeWith[T any](r *http.Request, opts query.DecodeOptions) (T, error) {
	var v T
	if opts.Unescape == nil {
		opts.Unescape = url.QueryUnescape
	}
	if err := query.UnmarshalWith([]byte(r.URL.RawQuery), &v, opts); err != nil {
		return v, err
	}
	return v, nil
}

// DecodeBody parses a form-encoded request body into a T.
func DecodeBody[T any](r *http.Request) (T, error) {
	return DecodeBodyWith[T](r, query.DecodeOptions{})
}

// DecodeBodyWith parses a form-encoded request body into a T using the
// given options. The Content-Type header, when present, must name the form
// media type. A nil Unescape hook defaults to url.QueryUnescape.
func DecodeBodyWith[T any](r *http.Request, opts query.DecodeOptions) (T, error) {
	var v T

	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || mt != ContentType {
			return v, errors.InvalidInput(errors.PhaseDecode,
				"content type must be "+ContentType)
		}
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return v, errors.Wrap(errors.PhaseDecode, errors.KindInvalidInput, err,
			"read request body")
	}

	if opts.Unescape == nil {
		opts.Unescape = url.QueryUnescape
	}
	if err := query.UnmarshalWith(body, &v, opts); err != nil {
		return v, err
	}
	return v, nil
}

// Handler wraps fn so it receives the decoded request value. The query
// string feeds bodyless methods; everything else reads the request body.
// Requests that fail to decode get a 400 response carrying the structured
// error text.
func Handler[T any](fn func(http.ResponseWriter, *http.Request, T)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			v   T
			err error
		)
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodDelete:
			v, err = Decode[T](r)
		default:
			v, err = DecodeBody[T](r)
		}
		if err != nil {
			Logger().Debug("request rejected",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Error(err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fn(w, r, v)
	}
}

// EncodeQuery renders v as an escaped query string, ready to append after
// '?' in a URL.
func EncodeQuery(v any) (string, error) {
	data, err := query.MarshalWith(v, query.EncodeOptions{Escape: url.QueryEscape})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Write encodes v as an escaped form document into the response and sets
// the Content-Type header.
func Write(w http.ResponseWriter, v any) error {
	data, err := query.MarshalWith(v, query.EncodeOptions{Escape: url.QueryEscape})
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", ContentType)
	_, err = w.Write(data)
	return err
}

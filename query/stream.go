package query

import (
	"io"

	"github.com/flatwire/flatwire/errors"
)

// Encoder writes flat key=value text to an output stream.
type Encoder struct {
	w    io.Writer
	opts EncodeOptions
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// WithOptions sets the options used by Encode and returns the encoder.
func (e *Encoder) WithOptions(opts EncodeOptions) *Encoder {
	e.opts = opts
	return e
}

// Encode writes the flat encoding of v to the stream.
func (e *Encoder) Encode(v any) error {
	data, err := MarshalWith(v, e.opts)
	if err != nil {
		return err
	}
	_, err = e.w.Write(data)
	return err
}

// Decoder reads flat key=value text from an input stream.
type Decoder struct {
	r    io.Reader
	opts DecodeOptions
}

// NewDecoder returns a new decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// WithOptions sets the options used by Decode and returns the decoder.
func (d *Decoder) WithOptions(opts DecodeOptions) *Decoder {
	d.opts = opts
	return d
}

// Decode reads the remainder of the stream and parses it into v.
func (d *Decoder) Decode(v any) error {
	data, err := io.ReadAll(d.r)
	if err != nil {
		return errors.Wrap(errors.PhaseDecode, errors.KindInvalidInput, err, "read input")
	}
	return UnmarshalWith(data, v, d.opts)
}

package query

import (
	"bytes"
	"net/url"
	"strings"
	"testing"

	stderrors "errors"

	"github.com/flatwire/flatwire/errors"
)

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) {
	return 0, stderrors.New("disk on fire")
}

func TestEncoder(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf).WithOptions(EncodeOptions{Escape: url.QueryEscape})

	err := enc.Encode(struct {
		Name string `query:"name"`
	}{"rock & roll"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if got, want := buf.String(), "name=rock+%26+roll"; got != want {
		t.Errorf("Encode wrote %q, want %q", got, want)
	}
}

func TestEncoder_PropagatesErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(42); err == nil {
		t.Fatal("expected error for scalar top-level value")
	}
	if buf.Len() != 0 {
		t.Errorf("failed Encode should write nothing, wrote %q", buf.String())
	}
}

func TestDecoder(t *testing.T) {
	var got struct {
		Name string `query:"name"`
	}
	r := strings.NewReader("name=rock+%26+roll")
	err := NewDecoder(r).WithOptions(DecodeOptions{Unescape: url.QueryUnescape}).Decode(&got)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.Name != "rock & roll" {
		t.Errorf("Name = %q, want %q", got.Name, "rock & roll")
	}
}

func TestDecoder_ReadError(t *testing.T) {
	var got map[string]string
	err := NewDecoder(brokenReader{}).Decode(&got)
	if err == nil {
		t.Fatal("expected error from broken reader")
	}

	want := &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindInvalidInput}
	if !stderrors.Is(err, want) {
		t.Errorf("error = %v, want invalid_input in decode phase", err)
	}
}

func TestDecoder_Strict(t *testing.T) {
	var got struct {
		Name string `query:"name"`
	}
	r := strings.NewReader("name=test&stray=1")
	err := NewDecoder(r).WithOptions(DecodeOptions{RejectUnknown: true}).Decode(&got)
	if err == nil {
		t.Fatal("expected error for undeclared key")
	}

	var unknown *errors.UnknownKeysError
	if !stderrors.As(err, &unknown) {
		t.Errorf("error %T should be UnknownKeysError", err)
	}
}

package query

import (
	"net/url"
	"reflect"
	"testing"

	stderrors "errors"

	"github.com/flatwire/flatwire/errors"
)

func TestParseFields(t *testing.T) {
	tests := []struct {
		want  Fields
		name  string
		input string
	}{
		{
			name:  "empty input",
			input: "",
			want:  Fields{},
		},
		{
			name:  "single pair",
			input: "name=test",
			want:  Fields{"name": {"test"}},
		},
		{
			name:  "repeated key keeps arrival order",
			input: "ids=3&ids=1&ids=2",
			want:  Fields{"ids": {"3", "1", "2"}},
		},
		{
			name:  "interleaved keys",
			input: "a=1&b=2&a=3",
			want:  Fields{"a": {"1", "3"}, "b": {"2"}},
		},
		{
			name:  "empty value",
			input: "name=",
			want:  Fields{"name": {""}},
		},
		{
			name:  "empty key",
			input: "=1",
			want:  Fields{"": {"1"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseFields(tc.input, nil)
			if err != nil {
				t.Fatalf("ParseFields(%q) failed: %v", tc.input, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ParseFields(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseFieldsInvalidPair(t *testing.T) {
	inputs := []string{
		"novalue",
		"a=b=c",
		"a=1&novalue",
		"a=1&",
		"&a=1",
		"&",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseFields(input, nil)
			if err == nil {
				t.Fatalf("ParseFields(%q) should fail", input)
			}
			want := &errors.Error{Phase: errors.PhaseParse, Kind: errors.KindInvalidPair}
			if !stderrors.Is(err, want) {
				t.Errorf("error = %v, want invalid_pair in parse phase", err)
			}
		})
	}
}

func TestParseFieldsUnescape(t *testing.T) {
	// Escaped separators survive the split because the hook runs per token,
	// after pairs are cut.
	got, err := ParseFields("a%3Db=1%262", url.QueryUnescape)
	if err != nil {
		t.Fatalf("ParseFields failed: %v", err)
	}

	want := Fields{"a=b": {"1&2"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseFields = %v, want %v", got, want)
	}
}

func TestParseFieldsUnescapeError(t *testing.T) {
	_, err := ParseFields("a=%zz", url.QueryUnescape)
	if err == nil {
		t.Fatal("expected error from unescape hook")
	}

	want := &errors.Error{Phase: errors.PhaseParse, Kind: errors.KindInvalidInput}
	if !stderrors.Is(err, want) {
		t.Errorf("error = %v, want invalid_input in parse phase", err)
	}
}

func TestFieldsTake(t *testing.T) {
	f := Fields{"ids": {"1", "2"}, "name": {"test"}}

	v, ok := f.Take("ids")
	if !ok || v != "1" {
		t.Errorf("first Take = %q, %v, want \"1\", true", v, ok)
	}
	v, ok = f.Take("ids")
	if !ok || v != "2" {
		t.Errorf("second Take = %q, %v, want \"2\", true", v, ok)
	}

	// The emptied key must read as absent, not as an empty list.
	if _, ok := f.Take("ids"); ok {
		t.Error("Take on drained key should report absent")
	}
	if _, present := f["ids"]; present {
		t.Error("drained key should be deleted from the map")
	}

	if _, ok := f.Take("missing"); ok {
		t.Error("Take on missing key should report absent")
	}
}

func TestFieldsTakeAll(t *testing.T) {
	f := Fields{"ids": {"1", "2", "3"}}

	got := f.TakeAll("ids")
	want := []string{"1", "2", "3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TakeAll = %v, want %v", got, want)
	}
	if f.Has("ids") {
		t.Error("TakeAll should remove the key")
	}

	if got := f.TakeAll("missing"); got != nil {
		t.Errorf("TakeAll on missing key = %v, want nil", got)
	}
}

func TestFieldsHas(t *testing.T) {
	f := Fields{"a": {"1"}}

	if !f.Has("a") {
		t.Error("Has(a) = false, want true")
	}
	if f.Has("b") {
		t.Error("Has(b) = true, want false")
	}
}

func TestFieldsKeys(t *testing.T) {
	f := Fields{"b": {"2"}, "a": {"1"}, "c": {"3"}}

	got := f.Keys()
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keys = %v, want %v", got, want)
	}
}

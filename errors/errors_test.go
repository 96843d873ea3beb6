package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseDecode,
				Kind:   KindInvalidLiteral,
				Path:   []string{"user", "pagination", "limit"},
				Key:    "limit",
				GoType: "int",
				Detail: "cannot parse",
			},
			contains: []string{"[decode]", "invalid_literal", "user.pagination.limit", `"limit"`, "int", "cannot parse"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseParse,
				Kind:  KindInvalidPair,
			},
			contains: []string{"[parse]", "invalid_pair"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseDecode,
				Kind:   KindSubCodec,
				Detail: "embedded sequence codec failed",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[decode]", "sub_codec", "embedded sequence codec failed", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindInvalidLiteral,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	// Test with errors.Unwrap
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindTypeMismatch,
		Path:  []string{"foo"},
	}

	// Same phase and kind
	if !err.Is(&Error{Phase: PhaseEncode, Kind: KindTypeMismatch}) {
		t.Error("Is should match same phase and kind")
	}

	// Different phase
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindTypeMismatch}) {
		t.Error("Is should not match different phase")
	}

	// Different kind
	if err.Is(&Error{Phase: PhaseEncode, Kind: KindUnsupported}) {
		t.Error("Is should not match different kind")
	}

	// Test with errors.Is
	target := &Error{Phase: PhaseEncode, Kind: KindTypeMismatch}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseDecode, KindInvalidLiteral).
		Path("user", "age").
		Key("age").
		GoType("int").
		Value("notanumber").
		Cause(cause).
		Detail("expected %s, got %s", "integer", "word").
		Build()

	if err.Phase != PhaseDecode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseDecode)
	}
	if err.Kind != KindInvalidLiteral {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidLiteral)
	}
	if len(err.Path) != 2 || err.Path[0] != "user" || err.Path[1] != "age" {
		t.Errorf("Path = %v, want [user age]", err.Path)
	}
	if err.Key != "age" {
		t.Errorf("Key = %v, want 'age'", err.Key)
	}
	if err.GoType != "int" {
		t.Errorf("GoType = %v, want 'int'", err.GoType)
	}
	if err.Value != "notanumber" {
		t.Errorf("Value = %v, want 'notanumber'", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected integer, got word" {
		t.Errorf("Detail = %v, want 'expected integer, got word'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("InvalidPair", func(t *testing.T) {
		err := InvalidPair("a=b=c")
		if err.Phase != PhaseParse {
			t.Errorf("Phase = %v, want %v", err.Phase, PhaseParse)
		}
		if err.Kind != KindInvalidPair {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidPair)
		}
		if !strings.Contains(err.Detail, "a=b=c") {
			t.Errorf("Detail = %v, should contain offending pair", err.Detail)
		}
	})

	t.Run("MissingValue", func(t *testing.T) {
		err := MissingValue([]string{"user"}, "age")
		if err.Kind != KindMissingValue {
			t.Errorf("Kind = %v, want %v", err.Kind, KindMissingValue)
		}
		if err.Key != "age" {
			t.Errorf("Key = %v, want 'age'", err.Key)
		}
	})

	t.Run("InvalidLiteral", func(t *testing.T) {
		cause := errors.New("strconv failure")
		err := InvalidLiteral([]string{"age"}, "age", "int", "notanumber", cause)
		if err.Kind != KindInvalidLiteral {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidLiteral)
		}
		if err.GoType != "int" {
			t.Errorf("GoType = %v, want 'int'", err.GoType)
		}
		if !errors.Is(err, cause) {
			t.Error("cause should be reachable via errors.Is")
		}
	})

	t.Run("TypeMismatch", func(t *testing.T) {
		err := TypeMismatch(PhaseCompile, []string{"field"}, "chan int", "cannot map onto key=value")
		if err.Kind != KindTypeMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
		}
		if err.GoType != "chan int" {
			t.Errorf("GoType = %v, want 'chan int'", err.GoType)
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		err := Unsupported(PhaseCompile, []string{"ids"}, "[][]int", "sequence elements must be scalar")
		if err.Kind != KindUnsupported {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
		}
	})

	t.Run("SubCodec", func(t *testing.T) {
		cause := errors.New("bad json")
		err := SubCodec(PhaseDecode, []string{"ids"}, "ids", cause)
		if err.Kind != KindSubCodec {
			t.Errorf("Kind = %v, want %v", err.Kind, KindSubCodec)
		}
		if !errors.Is(err, cause) {
			t.Error("cause should be reachable via errors.Is")
		}
	})

	t.Run("UnknownKey", func(t *testing.T) {
		err := UnknownKey("extra")
		if err.Kind != KindUnknownKey {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnknownKey)
		}
		if !strings.Contains(err.Detail, "extra") {
			t.Errorf("Detail = %v, should contain key", err.Detail)
		}
	})

	t.Run("InvalidInput", func(t *testing.T) {
		err := InvalidInput(PhaseDecode, "target must be a non-nil pointer")
		if err.Kind != KindInvalidInput {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidInput)
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		cause := errors.New("inner")
		err := Wrap(PhaseEncode, KindSubCodec, cause, "encode ids")
		if !errors.Is(err, cause) {
			t.Error("cause should be reachable via errors.Is")
		}
		if err.Detail != "encode ids" {
			t.Errorf("Detail = %v, want 'encode ids'", err.Detail)
		}
	})
}

func TestUnknownKeysError(t *testing.T) {
	t.Run("single key", func(t *testing.T) {
		err := NewUnknownKeysError([]string{"debug"})
		if len(err.Keys) != 1 {
			t.Errorf("expected 1 key, got %d", len(err.Keys))
		}
		msg := err.Error()
		if !strings.Contains(msg, `"debug"`) {
			t.Errorf("error should contain key, got: %s", msg)
		}
	})

	t.Run("keys sorted", func(t *testing.T) {
		err := NewUnknownKeysError([]string{"zeta", "alpha", "mid"})
		if err.Keys[0] != "alpha" || err.Keys[1] != "mid" || err.Keys[2] != "zeta" {
			t.Errorf("keys not sorted: %v", err.Keys)
		}

		msg := err.Error()
		if !strings.Contains(msg, "3") {
			t.Errorf("error should contain count, got: %s", msg)
		}
		if strings.Index(msg, "alpha") > strings.Index(msg, "zeta") {
			t.Errorf("keys should render in sorted order: %s", msg)
		}
	})

	t.Run("empty keys", func(t *testing.T) {
		err := NewUnknownKeysError(nil)
		msg := err.Error()
		if !strings.Contains(msg, "no keys specified") {
			t.Errorf("empty error should have specific message, got: %s", msg)
		}
	})

	t.Run("errors.Is", func(t *testing.T) {
		err := NewUnknownKeysError([]string{"x"})
		if !errors.Is(err, &UnknownKeysError{}) {
			t.Error("errors.Is should match UnknownKeysError")
		}
	})
}

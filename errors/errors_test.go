package errors

import (
	"errors"
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
				Phase:  PhaseMemory,
				Kind:   KindOverflow,
				Path:   []string{"function", "12"},
				GoType: "uint32",
				Detail: "delta overflows page count",
			},
			contains: []string{"[memory]", "overflow", "function.12", "uint32", "delta overflows page count"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[decode]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseDecode,
				Kind:   KindOversize,
				Detail: "module exceeds limit",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[decode]", "oversize", "module exceeds limit", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !containsSubstring(msg, s) {
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
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindOversize,
		Path:  []string{"foo"},
	}

	if !err.Is(&Error{Phase: PhaseDecode, Kind: KindOversize}) {
		t.Error("Is should match same phase and kind")
	}

	if err.Is(&Error{Phase: PhaseMemory, Kind: KindOversize}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseDecode, Kind: KindOutOfBounds}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseDecode, Kind: KindOversize}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseMemory, KindOverflow).
		Path("function", "3").
		GoType("uint32").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "u32", "u64").
		Build()

	if err.Phase != PhaseMemory {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseMemory)
	}
	if err.Kind != KindOverflow {
		t.Errorf("Kind = %v, want %v", err.Kind, KindOverflow)
	}
	if len(err.Path) != 2 || err.Path[0] != "function" || err.Path[1] != "3" {
		t.Errorf("Path = %v, want [function 3]", err.Path)
	}
	if err.GoType != "uint32" {
		t.Errorf("GoType = %v, want 'uint32'", err.GoType)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected u32, got u64" {
		t.Errorf("Detail = %v, want 'expected u32, got u64'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("InvalidUTF8", func(t *testing.T) {
		data := []byte{0xff, 0xfe}
		err := InvalidUTF8(PhaseDecode, []string{"str"}, data)
		if err.Kind != KindInvalidUTF8 {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidUTF8)
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		err := Unsupported(PhaseDecode, "memory64")
		if err.Kind != KindUnsupported {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseCallGraph, []string{"funcs"}, 10, 5)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if err.Value != 10 {
			t.Errorf("Value = %v, want 10", err.Value)
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		err := Overflow(PhaseMemory, []string{"val"}, 300, "u8")
		if err.Kind != KindOverflow {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOverflow)
		}
		if err.Value != 300 {
			t.Errorf("Value = %v, want 300", err.Value)
		}
	})

	t.Run("InvalidData", func(t *testing.T) {
		err := InvalidData(PhaseDecode, []string{"section"}, "bad length")
		if err.Kind != KindInvalidData {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidData)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseReport, "function", "helper")
		if err.Kind != KindNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
		}
	})

	t.Run("InvalidInput", func(t *testing.T) {
		err := InvalidInput(PhaseDecode, "empty buffer")
		if err.Kind != KindInvalidInput {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidInput)
		}
	})

	t.Run("Oversize", func(t *testing.T) {
		err := Oversize(PhaseDecode, "section 4 declares 200MiB")
		if err.Kind != KindOversize {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOversize)
		}
	})

	t.Run("Truncated", func(t *testing.T) {
		cause := errors.New("EOF")
		err := Truncated(PhaseCallGraph, "function body ends mid-opcode", cause)
		if err.Kind != KindTruncated {
			t.Errorf("Kind = %v, want %v", err.Kind, KindTruncated)
		}
		if !errors.Is(err.Cause, cause) {
			t.Errorf("Cause = %v, want %v", err.Cause, cause)
		}
	})
}

func containsSubstring(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(substr) == 0 ||
		(len(s) > 0 && containsSubstringHelper(s, substr)))
}

func containsSubstringHelper(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

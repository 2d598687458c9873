package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	plain := New(ErrCodeInvalidCircuit, "node %q: zero width", "u1")
	if got := plain.Error(); got != `INVALID_CIRCUIT: node "u1": zero width` {
		t.Errorf("Error() = %q", got)
	}

	wrapped := Wrap(ErrCodeInternal, stderrors.New("disk full"), "write result")
	if got := wrapped.Error(); !strings.Contains(got, "disk full") || !strings.Contains(got, "INTERNAL_ERROR") {
		t.Errorf("Error() = %q, want code and cause", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := Wrap(ErrCodeInvalidProfile, cause, "decode profile")
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is lost the cause through Wrap")
	}

	// Wrapping with %w keeps the code reachable from outer layers.
	outer := fmt.Errorf("outer: %w", err)
	if !Is(outer, ErrCodeInvalidProfile) {
		t.Error("Is failed through an fmt.Errorf layer")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"Nil", nil, ""},
		{"Classified", New(ErrCodeInvalidCanvas, "bad canvas"), ErrCodeInvalidCanvas},
		{"Unclassified", stderrors.New("plain"), ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsValidation(t *testing.T) {
	validation := []Code{
		ErrCodeInvalidCircuit, ErrCodeInvalidCanvas, ErrCodeInvalidStrategy,
		ErrCodeInvalidProfile, ErrCodeInvalidPath,
	}
	for _, code := range validation {
		if !IsValidation(New(code, "x")) {
			t.Errorf("IsValidation(%s) = false, want true", code)
		}
	}
	for _, code := range []Code{ErrCodeInternal, ErrCodeNotFound, ErrCodeUnsupported} {
		if IsValidation(New(code, "x")) {
			t.Errorf("IsValidation(%s) = true, want false", code)
		}
	}
	if IsValidation(nil) {
		t.Error("IsValidation(nil) = true")
	}
}

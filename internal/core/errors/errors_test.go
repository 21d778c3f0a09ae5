package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNotFound, "entry file not found")
		if err.Error() != "[NOT_FOUND] entry file not found" {
			t.Errorf("expected [NOT_FOUND] entry file not found, got %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("original error")
		err := Wrap(original, CodeInternal, "internal failure")
		expected := "[INTERNAL_ERROR] internal failure: original error"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeValidationError, "invalid exclude pattern")
		if !IsCode(err, CodeValidationError) {
			t.Error("expected IsCode to return true for CodeValidationError")
		}
		if IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to return false for CodeNotFound")
		}
	})

	t.Run("IsCodeWithWrapped", func(t *testing.T) {
		original := errors.New("original error")
		err := Wrap(original, CodeInternal, "internal failure")
		if !IsCode(err, CodeInternal) {
			t.Error("expected IsCode to return true for wrapped CodeInternal")
		}
	})

	t.Run("AddContext", func(t *testing.T) {
		err := New(CodeValidationError, "bad specifier")
		err = AddContext(err, CtxSpecifier, "./missing")
		var de *DomainError
		if !errors.As(err, &de) {
			t.Fatal("expected DomainError after AddContext")
		}
		if de.Context[CtxSpecifier] != "./missing" {
			t.Errorf("expected specifier context, got %v", de.Context)
		}
	})

	t.Run("AddContextPlainError", func(t *testing.T) {
		err := AddContext(errors.New("boom"), CtxPath, "/tmp/a.ts")
		if !IsCode(err, CodeInternal) {
			t.Error("expected plain errors to be wrapped as CodeInternal")
		}
	})

	t.Run("Unwrap", func(t *testing.T) {
		original := errors.New("root cause")
		err := Wrap(original, CodeNotSupported, "cannot parse")
		if !errors.Is(err, original) {
			t.Error("expected errors.Is to reach the wrapped cause")
		}
		wrapped := fmt.Errorf("outer: %w", err)
		if !IsCode(wrapped, CodeNotSupported) {
			t.Error("expected IsCode to see through fmt wrapping")
		}
	})
}

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidLayerShape, "layer %d: bad shape", 2)

	if err.Code != ErrCodeInvalidLayerShape {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidLayerShape)
	}

	if err.Message != "layer 2: bad shape" {
		t.Errorf("Message = %v, want %v", err.Message, "layer 2: bad shape")
	}

	expected := "INVALID_LAYER_SHAPE: layer 2: bad shape"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeFileNotFound, cause, "read arch.json")

	if err.Code != ErrCodeFileNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeFileNotFound)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "FILE_NOT_FOUND: read arch.json: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeEmptyArchitecture, "test"),
			code:     ErrCodeEmptyArchitecture,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeEmptyArchitecture, "test"),
			code:     ErrCodeInvalidAxis,
			expected: false,
		},
		{
			name:     "wrapped by fmt",
			err:      fmt.Errorf("construct: %w", New(ErrCodeInvalidLayerShape, "inner")),
			code:     ErrCodeInvalidLayerShape,
			expected: true,
		},
		{
			name:     "outer code wins",
			err:      Wrap(ErrCodeInvalidInput, New(ErrCodeInvalidLayerShape, "inner"), "outer"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeInvalidScale, "test"), ErrCodeInvalidScale},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsInputError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{New(ErrCodeInvalidLayerShape, "x"), true},
		{New(ErrCodeEmptyArchitecture, "x"), true},
		{New(ErrCodeInvalidAxis, "x"), true},
		{New(ErrCodeFileNotFound, "x"), true},
		{New(ErrCodeInternal, "x"), false},
		{New(ErrCodePlacementFailed, "x"), false},
		{errors.New("plain"), false},
	}

	for _, tt := range tests {
		if got := IsInputError(tt.err); got != tt.want {
			t.Errorf("IsInputError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidLayerShape,
		ErrCodeEmptyArchitecture,
		ErrCodeInvalidAxis,
		ErrCodeInvalidScale,
		ErrCodeInvalidInput,
		ErrCodeInvalidFormat,
		ErrCodeInvalidConfig,
		ErrCodeFileNotFound,
		ErrCodePlacementFailed,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}

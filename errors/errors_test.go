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
				Phase:  PhaseConvert,
				Kind:   KindEmbeddedNUL,
				Detail: "input contains NUL byte at offset 3",
			},
			contains: []string{"[convert]", "embedded_nul", "offset 3"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseAccess,
				Kind:  KindConsumed,
			},
			contains: []string{"[access]", "consumed"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseAlloc,
				Kind:   KindAllocation,
				Detail: "failed to allocate 64 bytes",
				Cause:  errors.New("mmap failed"),
			},
			contains: []string{"[alloc]", "allocation", "64 bytes", "caused by", "mmap failed"},
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
	err := AllocationFailed(16, cause)

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find cause through the chain")
	}
}

func TestError_Is(t *testing.T) {
	err := EmbeddedNUL(5)

	if !errors.Is(err, &Error{Phase: PhaseConvert, Kind: KindEmbeddedNUL}) {
		t.Error("Is should match same phase and kind")
	}

	if errors.Is(err, &Error{Phase: PhaseAlloc, Kind: KindEmbeddedNUL}) {
		t.Error("Is should not match different phase")
	}

	if errors.Is(err, &Error{Phase: PhaseConvert, Kind: KindConsumed}) {
		t.Error("Is should not match different kind")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		err   *Error
		phase Phase
		kind  Kind
	}{
		{AllocationFailed(8, nil), PhaseAlloc, KindAllocation},
		{EmbeddedNUL(0), PhaseConvert, KindEmbeddedNUL},
		{Consumed("Value"), PhaseAccess, KindConsumed},
		{NullPointer("Bytes"), PhaseAccess, KindNullPointer},
		{MissingExport("malloc"), PhaseAlloc, KindMissingExport},
		{OutOfBounds(0x1000, 32), PhaseAlloc, KindOutOfBounds},
		{Closed("scope"), PhaseAlloc, KindClosed},
	}

	for _, tt := range tests {
		if tt.err.Phase != tt.phase || tt.err.Kind != tt.kind {
			t.Errorf("constructor produced [%s] %s, want [%s] %s",
				tt.err.Phase, tt.err.Kind, tt.phase, tt.kind)
		}
	}
}

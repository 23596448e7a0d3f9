package ctext

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/wippyai/cmem/box"
	cmemerrors "github.com/wippyai/cmem/errors"
	"github.com/wippyai/cmem/libc"
)

func TestNew_RoundTrip(t *testing.T) {
	mem := libc.New()
	defer mem.Close()

	for _, s := range []string{"", "a", "Hello, world!", "héllo \xf0\x9f\x99\x82", "tab\tand\nnewline"} {
		b, err := New(mem, s)
		if err != nil {
			t.Fatalf("New(%q) = %v", s, err)
		}
		if got := b.Value(); got != s {
			t.Fatalf("Value() = %q, want %q", got, s)
		}
		b.Close()
	}
}

func TestNew_Terminator(t *testing.T) {
	mem := libc.New()
	defer mem.Close()

	b, err := New(mem, "abc")
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	// Exactly one terminator byte, not counted in the logical length.
	raw := unsafe.Slice((*byte)(b.Raw()), 4)
	if raw[3] != 0 {
		t.Fatalf("buffer[3] = %d, want terminator", raw[3])
	}
	if len(b.Value()) != 3 {
		t.Fatalf("len(Value()) = %d, want 3", len(b.Value()))
	}
}

func TestNew_EmbeddedNUL(t *testing.T) {
	mem := libc.New()
	defer mem.Close()

	_, err := New(mem, "ab\x00cd")
	if err == nil {
		t.Fatal("New should reject interior NUL")
	}
	if !errors.Is(err, &cmemerrors.Error{Phase: cmemerrors.PhaseConvert, Kind: cmemerrors.KindEmbeddedNUL}) {
		t.Fatalf("err = %v, want embedded NUL error", err)
	}
}

func TestClone_IndependentStorage(t *testing.T) {
	mem := libc.New()
	defer mem.Close()

	orig, err := New(mem, "abc")
	if err != nil {
		t.Fatal(err)
	}
	defer orig.Close()

	clone, err := Clone(mem, orig)
	if err != nil {
		t.Fatal(err)
	}
	defer clone.Close()

	if !Equal(orig, clone) {
		t.Fatal("clone should compare equal to the original")
	}
	if orig.Raw() == clone.Raw() {
		t.Fatal("clone must not alias the original")
	}

	// Mutating through the clone leaves the original intact.
	Bytes(clone)[0] = 'x'
	if clone.Value() != "xbc" {
		t.Fatalf("clone.Value() = %q, want %q", clone.Value(), "xbc")
	}
	if orig.Value() != "abc" {
		t.Fatalf("orig.Value() = %q after clone mutation, want %q", orig.Value(), "abc")
	}
}

func TestEqual_DistinctAddresses(t *testing.T) {
	mem := libc.New()
	defer mem.Close()

	a, err := New(mem, "abc")
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	b, err := New(mem, "abc")
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if a.Raw() == b.Raw() {
		t.Fatal("independent wrappers should have distinct foreign addresses")
	}
	if !Equal(a, b) {
		t.Fatal("wrappers over equal text should compare equal")
	}
}

func TestAdopt_BorrowView(t *testing.T) {
	mem := libc.New()
	defer mem.Close()

	src, err := New(mem, "adopted")
	if err != nil {
		t.Fatal(err)
	}

	// Hand the raw pointer to a Semi wrapper; it now owes the free.
	semi := Adopt(mem, src.Extract())
	if got := semi.Value(); got != "adopted" {
		t.Fatalf("Value() = %q, want %q", got, "adopted")
	}
	semi.Close()
}

func TestReinterpret_PreservesView(t *testing.T) {
	mem := libc.New()
	defer mem.Close()

	owned, err := New(mem, "same bits")
	if err != nil {
		t.Fatal(err)
	}
	defer owned.Close()

	semi := owned.AsSemi()
	if semi.Raw() != owned.Raw() {
		t.Fatal("reinterpretation must preserve the pointer value")
	}
	if semi.Value() != owned.Value() {
		t.Fatal("reinterpretation must preserve the view")
	}
	if semi.AsOwned().Raw() != owned.Raw() {
		t.Fatal("round trip must preserve the pointer value")
	}
}

func TestNewIn_ScopeDisposes(t *testing.T) {
	mem := libc.New()
	defer mem.Close()

	scope := box.NewScope()
	sc, err := NewIn(scope, mem, "scoped")
	if err != nil {
		t.Fatal(err)
	}
	if got := sc.Value(); got != "scoped" {
		t.Fatalf("Value() = %q, want %q", got, "scoped")
	}
	scope.Close()

	// The wrapper is consumed once its scope closes.
	defer func() {
		if recover() == nil {
			t.Fatal("Value() after scope close should panic")
		}
	}()
	sc.Value()
}

func TestView_RawBuffer(t *testing.T) {
	mem := libc.New()
	defer mem.Close()

	b, err := New(mem, "raw view")
	if err != nil {
		t.Fatal(err)
	}

	ptr := b.Extract()
	if got := View(ptr); got != "raw view" {
		t.Fatalf("View() = %q, want %q", got, "raw view")
	}
	mem.Free(ptr)
}

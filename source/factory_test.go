package source

import (
	"errors"
	"testing"
)

func TestFactorySourceResolve(t *testing.T) {
	Reset()
	defer Reset()
	MustRegister(testType("alpha"))

	src := NewFactorySource(nil)

	typ, err := src.Resolve("alpha", "")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if typ.Descriptor.Name != "alpha" {
		t.Fatalf("resolved %q, want alpha", typ.Descriptor.Name)
	}

	_, err = src.Resolve("missing", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve(missing) error = %v, want ErrNotFound", err)
	}
}

func TestFactorySourceMemoizes(t *testing.T) {
	Reset()
	defer Reset()
	MustRegister(testType("alpha"))

	src := NewFactorySource(nil)
	if _, err := src.Resolve("alpha", ""); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	// The memo must survive registry churn until evicted.
	Reset()
	if _, err := src.Resolve("alpha", ""); err != nil {
		t.Fatalf("memoized Resolve failed: %v", err)
	}

	src.Evict("alpha")
	if _, err := src.Resolve("alpha", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve after Evict error = %v, want ErrNotFound", err)
	}
}

func TestFactorySourceDiscover(t *testing.T) {
	Reset()
	defer Reset()
	MustRegister(testType("beta"))
	MustRegister(testType("alpha"))

	src := NewFactorySource(nil)
	got := src.Discover()
	if len(got) != 2 || got[0] != "alpha" || got[1] != "beta" {
		t.Fatalf("Discover returned %v, want [alpha beta]", got)
	}
}

package source

import (
	"testing"

	"github.com/blackroad/roadplugin/plugin"
)

func testType(name string) plugin.Type {
	return plugin.NewType(plugin.Descriptor{Name: name}, plugin.Funcs{})
}

func TestRegisterAndLookup(t *testing.T) {
	Reset()
	defer Reset()

	if err := Register(testType("alpha")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got, ok := Lookup("alpha")
	if !ok {
		t.Fatal("Lookup did not find registered type")
	}
	if got.Descriptor.Name != "alpha" {
		t.Fatalf("Lookup returned %q, want alpha", got.Descriptor.Name)
	}
	if _, ok := Lookup("missing"); ok {
		t.Fatal("Lookup found a type that was never registered")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	Reset()
	defer Reset()

	if err := Register(testType("alpha")); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if err := Register(testType("alpha")); err == nil {
		t.Fatal("duplicate Register succeeded")
	}
}

func TestRegisterInvalid(t *testing.T) {
	Reset()
	defer Reset()

	if err := Register(plugin.Type{}); err == nil {
		t.Fatal("Register accepted a type with no descriptor")
	}
	if err := Register(plugin.Type{Descriptor: plugin.Descriptor{Name: "nofactory"}}); err == nil {
		t.Fatal("Register accepted a type with no factory")
	}
}

func TestMustRegisterPanics(t *testing.T) {
	Reset()
	defer Reset()

	MustRegister(testType("alpha"))

	defer func() {
		if recover() == nil {
			t.Fatal("MustRegister did not panic on duplicate")
		}
	}()
	MustRegister(testType("alpha"))
}

func TestRegisteredNamesSorted(t *testing.T) {
	Reset()
	defer Reset()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := Register(testType(name)); err != nil {
			t.Fatalf("Register(%q) failed: %v", name, err)
		}
	}

	got := RegisteredNames()
	want := []string{"alpha", "mid", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("RegisteredNames returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("RegisteredNames returned %v, want %v", got, want)
		}
	}
}

package plugin

import (
	"errors"
	"testing"
)

func testRecord(name string) *Record {
	typ := NewType(Descriptor{Name: name}, Funcs{})
	pctx := NewContext(name, nil)
	inst, _ := typ.New(pctx)
	return NewRecord(typ, inst, pctx, "")
}

func TestCatalog_RegisterAndGet(t *testing.T) {
	cat := NewCatalog()

	rec := testRecord("alpha")
	if err := cat.Register(rec); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got, ok := cat.Get("alpha")
	if !ok || got != rec {
		t.Fatalf("Get(alpha) = %v, %v", got, ok)
	}
	if cat.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cat.Len())
	}
}

func TestCatalog_RejectsDuplicateName(t *testing.T) {
	cat := NewCatalog()

	cat.Register(testRecord("dup"))
	err := cat.Register(testRecord("dup"))
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("duplicate Register err = %v, want ErrAlreadyRegistered", err)
	}
	if cat.Len() != 1 {
		t.Errorf("Len() = %d after rejected duplicate, want 1", cat.Len())
	}
}

func TestCatalog_RejectsEmptyName(t *testing.T) {
	cat := NewCatalog()

	typ := Type{New: func(pctx *Context) (Instance, error) { return nil, nil }}
	rec := NewRecord(typ, nil, NewContext("", nil), "")
	if err := cat.Register(rec); !errors.Is(err, ErrEmptyName) {
		t.Errorf("empty name Register err = %v, want ErrEmptyName", err)
	}
}

func TestCatalog_UnregisterReturnsRecord(t *testing.T) {
	cat := NewCatalog()
	rec := testRecord("gone")
	cat.Register(rec)

	if got := cat.Unregister("gone"); got != rec {
		t.Errorf("Unregister returned %v, want the registered record", got)
	}
	if _, ok := cat.Get("gone"); ok {
		t.Error("record still present after Unregister")
	}
	if got := cat.Unregister("gone"); got != nil {
		t.Errorf("second Unregister = %v, want nil", got)
	}
}

func TestCatalog_ListPreservesRegistrationOrder(t *testing.T) {
	cat := NewCatalog()
	for _, name := range []string{"c", "a", "b"} {
		cat.Register(testRecord(name))
	}
	cat.Unregister("a")
	cat.Register(testRecord("a"))

	want := []string{"c", "b", "a"}
	list := cat.List()
	if len(list) != len(want) {
		t.Fatalf("List() returned %d records, want %d", len(list), len(want))
	}
	for i := range want {
		if list[i].Name() != want[i] {
			t.Fatalf("List() order = %v", list)
		}
	}

	sorted := []string{"a", "b", "c"}
	names := cat.Names()
	if len(names) != len(sorted) {
		t.Fatalf("Names() = %v", names)
	}
	for i := range sorted {
		if names[i] != sorted[i] {
			t.Fatalf("Names() = %v, want %v", names, sorted)
		}
	}
}

func TestCatalog_ListByState(t *testing.T) {
	cat := NewCatalog()

	enabled := testRecord("on")
	enabled.SetState(StateEnabled)
	loaded := testRecord("off")
	loaded.SetState(StateLoaded)
	cat.Register(enabled)
	cat.Register(loaded)

	got := cat.ListByState(StateEnabled)
	if len(got) != 1 || got[0].Name() != "on" {
		t.Errorf("ListByState(enabled) = %v", got)
	}
	if got := cat.ListByState(StateError); len(got) != 0 {
		t.Errorf("ListByState(error) = %v, want empty", got)
	}
}

func TestRecord_StateRoundTrip(t *testing.T) {
	rec := testRecord("r")
	if rec.State() != StateDiscovered {
		t.Errorf("initial state = %v, want discovered", rec.State())
	}
	rec.SetState(StateLoaded)
	if rec.State() != StateLoaded {
		t.Errorf("state after SetState = %v, want loaded", rec.State())
	}
}

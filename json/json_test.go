package json

import (
	"bytes"
	"strings"
	"testing"
)

type payload struct {
	Name  string `json:"name"`
	Level string `json:"level" default:"info"`
	Count int    `json:"count" default:"3"`
}

func TestUnmarshal_AppliesDefaults(t *testing.T) {
	var p payload
	if err := Unmarshal([]byte(`{"name":"core"}`), &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if p.Name != "core" {
		t.Errorf("Name = %q, want core", p.Name)
	}
	if p.Level != "info" {
		t.Errorf("Level = %q, want default info", p.Level)
	}
	if p.Count != 3 {
		t.Errorf("Count = %d, want default 3", p.Count)
	}
}

func TestUnmarshal_PresentFieldsOverrideDefaults(t *testing.T) {
	var p payload
	if err := Unmarshal([]byte(`{"name":"core","level":"debug","count":9}`), &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if p.Level != "debug" || p.Count != 9 {
		t.Errorf("got level=%q count=%d, want debug/9", p.Level, p.Count)
	}
}

func TestMarshal_NonStructValues(t *testing.T) {
	// Maps and slices have no defaults to apply and must pass through.
	raw, err := Marshal(map[string]any{"a": 1})
	if err != nil {
		t.Fatalf("Marshal(map) failed: %v", err)
	}
	if string(raw) != `{"a":1}` {
		t.Errorf("Marshal(map) = %s", raw)
	}

	raw, err = Marshal([]int{1, 2})
	if err != nil {
		t.Fatalf("Marshal(slice) failed: %v", err)
	}
	if string(raw) != `[1,2]` {
		t.Errorf("Marshal(slice) = %s", raw)
	}

	raw, err = Marshal(42)
	if err != nil {
		t.Fatalf("Marshal(int) failed: %v", err)
	}
	if string(raw) != `42` {
		t.Errorf("Marshal(int) = %s", raw)
	}
}

func TestMarshal_NonPointerStructSkipsDefaults(t *testing.T) {
	// A struct passed by value cannot have its defaults filled in place;
	// it must still encode rather than error.
	raw, err := Marshal(payload{Name: "core"})
	if err != nil {
		t.Fatalf("Marshal(struct value) failed: %v", err)
	}
	if !strings.Contains(string(raw), `"name":"core"`) {
		t.Errorf("Marshal(struct value) = %s", raw)
	}
	if strings.Contains(string(raw), `"level":"info"`) {
		t.Errorf("defaults applied to a non-pointer struct: %s", raw)
	}
}

func TestMarshal_NilPointer(t *testing.T) {
	var p *payload
	raw, err := Marshal(p)
	if err != nil {
		t.Fatalf("Marshal(nil pointer) failed: %v", err)
	}
	if string(raw) != `null` {
		t.Errorf("Marshal(nil pointer) = %s", raw)
	}
}

func TestEncoderDecoder_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(&payload{Name: "x"}); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"level":"info"`) {
		t.Errorf("Encode did not apply defaults: %s", buf.String())
	}

	var p payload
	if err := NewDecoder(strings.NewReader(buf.String())).Decode(&p); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if p.Name != "x" || p.Level != "info" {
		t.Errorf("round trip = %+v", p)
	}
}

func TestValid(t *testing.T) {
	if !Valid([]byte(`{"ok":true}`)) {
		t.Error("Valid rejected well-formed JSON")
	}
	if Valid([]byte(`{"ok":`)) {
		t.Error("Valid accepted truncated JSON")
	}
}

package store

import (
	"encoding/json"
	"testing"
)

func TestPropertiesOrderPreserved(t *testing.T) {
	props := Properties{}
	props.Set("zeta", NumberValue(1))
	props.Set("alpha", StringValue("first"))
	props.Set("mid", BoolValue(true))

	raw, err := json.Marshal(props)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"zeta":1,"alpha":"first","mid":true}`
	if string(raw) != want {
		t.Fatalf("got %s, want %s", raw, want)
	}

	var decoded Properties
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !props.Equal(decoded) {
		t.Fatalf("round-trip changed properties: %v != %v", props, decoded)
	}
}

func TestPropertiesSetReplacesInPlace(t *testing.T) {
	props := Properties{}
	props.Set("a", NumberValue(1))
	props.Set("b", NumberValue(2))
	props.Set("a", NumberValue(3))

	if len(props) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(props))
	}
	if props[0].Key != "a" || props[0].Value.Num != 3 {
		t.Fatalf("replacement moved or lost the entry: %v", props)
	}

	props.Delete("a")
	if len(props) != 1 || props[0].Key != "b" {
		t.Fatalf("delete broke remaining order: %v", props)
	}
}

func TestValueVariants(t *testing.T) {
	nested := Properties{}
	nested.Set("inner", StringValue("v"))

	tests := []struct {
		name string
		in   Value
		json string
	}{
		{"null", NullValue(), `null`},
		{"string", StringValue("hi"), `"hi"`},
		{"number", NumberValue(2.5), `2.5`},
		{"bool", BoolValue(false), `false`},
		{"list", ListValue([]Value{NumberValue(1), StringValue("x")}...), `[1,"x"]`},
		{"map", MapValue(nested), `{"inner":"v"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.in)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(raw) != tt.json {
				t.Fatalf("got %s, want %s", raw, tt.json)
			}
			var back Value
			if err := json.Unmarshal(raw, &back); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if !tt.in.Equal(back) {
				t.Fatalf("round-trip changed value: %v != %v", tt.in, back)
			}
		})
	}
}

func TestValueEqualDistinguishesKinds(t *testing.T) {
	if NumberValue(0).Equal(BoolValue(false)) {
		t.Fatal("number 0 should not equal bool false")
	}
	if StringValue("").Equal(NullValue()) {
		t.Fatal("empty string should not equal null")
	}
}

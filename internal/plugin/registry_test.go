package plugin

import (
	"reflect"
	"testing"
)

func TestRegistry_RegisterAndSelect(t *testing.T) {
	reg := NewRegistry[int]("checker")

	for name, value := range map[string]int{"format": 1, "length": 2, "json": 3} {
		if err := reg.Register(name, value); err != nil {
			t.Fatalf("Register(%s) failed: %v", name, err)
		}
	}

	got, err := reg.Select([]string{"json", "format"})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if !reflect.DeepEqual(got, []int{3, 1}) {
		t.Errorf("Select must keep requested order, got %v", got)
	}

	if names := reg.Names(); !reflect.DeepEqual(names, []string{"format", "json", "length"}) {
		t.Errorf("unexpected names %v", names)
	}
}

func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry[string]("feature")

	if err := reg.Register("", "x"); err == nil {
		t.Error("expected error for empty name")
	}
	if err := reg.Register("echo", "x"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := reg.Register("echo", "y"); err == nil {
		t.Error("expected error for duplicate name")
	}

	_, err := reg.Get("missing")
	if err == nil || err.Error() != `feature "missing" not found` {
		t.Errorf("unexpected error %v", err)
	}

	if _, err := reg.Select([]string{"echo", "missing"}); err == nil {
		t.Error("expected Select to fail on unknown name")
	}
}

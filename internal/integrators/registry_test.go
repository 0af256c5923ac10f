package integrators

import (
	"sort"
	"testing"
)

func TestDefaultRegistryList(t *testing.T) {
	infos := List()
	want := []string{"bsimp", "eulerimp", "rk2", "rk4", "rk45", "rk8pd", "rkck", "rkf45"}
	if len(infos) != len(want) {
		t.Fatalf("got %d kernels, want %d", len(infos), len(want))
	}
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
		if info.Description == "" {
			t.Errorf("%s has no description", info.Name)
		}
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("list not sorted: %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("kernel %d = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestRegistryInfo(t *testing.T) {
	r := DefaultRegistry()
	tests := []struct {
		name     string
		order    int
		jacobian bool
	}{
		{"rk2", 2, false},
		{"rk4", 4, false},
		{"rk45", 5, false},
		{"rk8pd", 8, false},
		{"bsimp", 6, true},
		{"eulerimp", 1, true},
	}
	for _, tt := range tests {
		info, ok := r.Info(tt.name)
		if !ok {
			t.Errorf("%s not registered", tt.name)
			continue
		}
		if info.Order != tt.order || info.NeedsJacobian != tt.jacobian {
			t.Errorf("%s: got order %d jacobian %v", tt.name, info.Order, info.NeedsJacobian)
		}
	}
}

func TestRegistryNewIsFresh(t *testing.T) {
	a, err := New("rk45")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := New("rk45")
	if a == b {
		t.Error("registry returned a shared kernel instance")
	}
	if a.Name() != "rk45" {
		t.Errorf("name = %s", a.Name())
	}
}

func TestRegistryUnknown(t *testing.T) {
	if _, err := New("leapfrog"); err == nil {
		t.Error("expected error for unknown kernel")
	}
}

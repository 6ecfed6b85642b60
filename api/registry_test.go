package api

import (
	"sort"
	"testing"

	"github.com/xraph/outcall"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	r.Register("user.get", func(args ...any) (*Descriptor, error) {
		return &Descriptor{Routing: outcall.Routing{Path: "/users"}}, nil
	})

	f, ok := r.Get("user.get")
	if !ok {
		t.Fatal("registered factory not found")
	}
	d, err := f()
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	if d.Routing.Path != "/users" {
		t.Fatalf("path = %q, want /users", d.Routing.Path)
	}

	if _, ok := r.Get("nope"); ok {
		t.Fatal("unregistered name should not resolve")
	}
}

func TestRegistryNames(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	for _, name := range []string{"a", "b", "c"} {
		r.Register(name, func(args ...any) (*Descriptor, error) { return &Descriptor{}, nil })
	}
	names := r.Names()
	sort.Strings(names)
	if len(names) != 3 || names[0] != "a" || names[2] != "c" {
		t.Fatalf("names = %v", names)
	}
}

func TestRegisterTyped(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	type userArgs struct{ ID string }
	RegisterTyped(r, "user.get", func(a userArgs) *Descriptor {
		return &Descriptor{Routing: outcall.Routing{Method: "GET", Path: "/users/" + a.ID}}
	})

	f, _ := r.Get("user.get")

	tests := []struct {
		name     string
		args     []any
		wantPath string
		wantErr  bool
	}{
		{"typed arg", []any{userArgs{ID: "42"}}, "/users/42", false},
		{"zero args", nil, "/users/", false},
		{"wrong type", []any{"42"}, "", true},
		{"too many args", []any{userArgs{}, userArgs{}}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := f(tt.args...)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected factory error")
				}
				return
			}
			if err != nil {
				t.Fatalf("factory: %v", err)
			}
			if d.Routing.Path != tt.wantPath {
				t.Fatalf("path = %q, want %q", d.Routing.Path, tt.wantPath)
			}
		})
	}
}

func TestDescriptorKeyDefaultsMethod(t *testing.T) {
	t.Parallel()
	d := &Descriptor{Routing: outcall.Routing{Path: "/users"}}
	key := d.Key()
	if key.Method != "GET" {
		t.Fatalf("key method = %q, want GET", key.Method)
	}
	if key.Path != "/users" {
		t.Fatalf("key path = %q, want /users", key.Path)
	}
}

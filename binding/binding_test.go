package binding

import "testing"

var data = map[string]any{
	"user": map[string]any{"name": "Ana"},
	"product": map[string]any{
		"price": 19.5,
		"count": float64(3),
		"tags":  []any{"fast", []any{"nested"}},
	},
	"empty": nil,
}

func TestInterpolate(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Hola ${user.name}!", "Hola Ana!"},
		{"${ user.name }", "Ana"},
		{"${product.price} / ${product.count}", "19.5 / 3"},
		{"${product.tags[0]}", "fast"},
		{"${product.tags[1][0]}", "nested"},
		{"${product.tags[9]}", "${product.tags[9]}"},
		{"${missing}", "${missing}"},
		{"${missing | Untitled}", "Untitled"},
		{"${user.name | nobody}", "Ana"},
		{"${empty}", ""},
		{"${user.name[0]}", "${user.name[0]}"},
		{"${product.tags[x]}", "${product.tags[x]}"},
		{"no placeholders", "no placeholders"},
	}
	for _, tc := range cases {
		if got := Interpolate(tc.in, data); got != tc.want {
			t.Fatalf("Interpolate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInterpolateNilData(t *testing.T) {
	if got := Interpolate("${a.b}", nil); got != "${a.b}" {
		t.Fatalf("nil data must keep placeholders, got %q", got)
	}
	if got := Interpolate("${a.b | x}", nil); got != "x" {
		t.Fatalf("defaults apply without data, got %q", got)
	}
}

func TestLookup(t *testing.T) {
	if v, ok := Lookup(data, "user"); !ok || v.(map[string]any)["name"] != "Ana" {
		t.Fatalf("object lookup failed")
	}
	if _, ok := Lookup(data, ""); ok {
		t.Fatalf("empty path must not resolve")
	}
	if _, ok := Lookup(data, "user.name.first"); ok {
		t.Fatalf("descending into a string must fail")
	}
}

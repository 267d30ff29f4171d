package modname

import "testing"

func TestStripBase(t *testing.T) {
	cases := []struct{ path, prefix, want string }{
		{"src/a/b.js", "src", "a/b.js"},
		{"src/a/b.js", "src/", "a/b.js"},
		{"a/b.js", "", "a/b.js"},
		{"a/b.js", "nope", "a/b.js"},
	}
	for _, c := range cases {
		if got := StripBase(c.path, c.prefix); got != c.want {
			t.Errorf("StripBase(%q, %q) = %q, want %q", c.path, c.prefix, got, c.want)
		}
	}
}

func TestDeriveNoRef(t *testing.T) {
	cases := []struct{ path, want string }{
		{"a/b.js", "module$a$b"},
		{"./a/b.js", "module$a$b"},
		{"a/b-c.js", "module$a$b_c"},
		{"a", "module$a"},
	}
	for _, c := range cases {
		if got := Derive(c.path, ""); got != c.want {
			t.Errorf("Derive(%q, \"\") = %q, want %q", c.path, got, c.want)
		}
	}
}

func TestDeriveRelative(t *testing.T) {
	cases := []struct{ path, refPath, want string }{
		{"./c", "a/b.js", "module$a$c"},
		{"../c", "a/b.js", "module$c"},
		{"./c.js", "a/b.js", "module$a$c"},
	}
	for _, c := range cases {
		if got := Derive(c.path, c.refPath); got != c.want {
			t.Errorf("Derive(%q, %q) = %q, want %q", c.path, c.refPath, got, c.want)
		}
	}
}

func TestDeriveBareSpecifierIsUntouchedByRef(t *testing.T) {
	if got := Derive("some-pkg", "a/b.js"); got != "module$some_pkg" {
		t.Errorf("Derive(%q, %q) = %q, want %q", "some-pkg", "a/b.js", got, "module$some_pkg")
	}
}

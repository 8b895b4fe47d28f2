package rules

import "testing"

func TestExcludedOriginDefaults(t *testing.T) {
	t.Parallel()

	r := Default()
	tests := []struct {
		file string
		want bool
	}{
		{"/src/miral/include/miral/window.h", false},
		{"/src/miral/examples/shell/shell.cpp", true},
		{"/src/miral/tests/test/fake.h", true},
		{"[generated]", true},
		{"[STL]", true},
		{"/src/miral/tests/unit.h", false},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			t.Parallel()
			if _, got := r.ExcludedOrigin(tt.file); got != tt.want {
				t.Errorf("ExcludedOrigin(%q) = %v, want %v", tt.file, got, tt.want)
			}
		})
	}
}

func TestExcludedOriginPatterns(t *testing.T) {
	t.Parallel()

	r := New(Options{
		Origins:  []string{},
		Patterns: []string{"**/detail/**", "src/internal.h"},
		Root:     "/work/lib",
	})

	if _, ok := r.ExcludedOrigin("/work/lib/include/detail/impl.h"); !ok {
		t.Error("expected detail header to be excluded")
	}
	name, ok := r.ExcludedOrigin("/work/lib/src/internal.h")
	if !ok {
		t.Fatal("expected root-relative pattern to match")
	}
	if name != "pattern" {
		t.Errorf("rule name = %q", name)
	}
	if _, ok := r.ExcludedOrigin("/work/lib/include/window.h"); ok {
		t.Error("public header should not be excluded")
	}
	if _, ok := r.ExcludedOrigin("/elsewhere/examples/x.h"); ok {
		t.Error("empty origin list should disable substring rules")
	}
}

func TestSentinel(t *testing.T) {
	t.Parallel()

	r := Default()
	if !r.Sentinel("__attribute__") {
		t.Error("__attribute__ should be a sentinel")
	}
	if r.Sentinel("attribute") {
		t.Error("attribute should not be a sentinel")
	}

	custom := New(Options{Sentinels: []string{"MIR_DEPRECATED"}})
	if !custom.Sentinel("MIR_DEPRECATED") || custom.Sentinel("__attribute__") {
		t.Error("custom sentinels should replace the defaults")
	}
}

func TestPureVirtual(t *testing.T) {
	t.Parallel()

	r := Default()
	tests := []struct {
		args string
		want bool
	}{
		{"()=0", true},
		{"(int x) const =0", true},
		{"()", false},
		{"() override", false},
		{"(int a=0, int b)", false},
	}

	for _, tt := range tests {
		if got := r.PureVirtual(tt.args); got != tt.want {
			t.Errorf("PureVirtual(%q) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

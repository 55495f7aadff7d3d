package main

import (
	"context"
	"strings"
	"testing"

	"github.com/wippyai/crops/config"
	"github.com/wippyai/crops/schema"
)

func newTestSession(t *testing.T) *session {
	t.Helper()
	ctx := context.Background()
	s, err := newSession(ctx, config.Default())
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	t.Cleanup(func() { s.close(ctx) })
	return s
}

func TestInputParams(t *testing.T) {
	exports := make(map[string]schema.Export)
	for _, e := range schema.Exports() {
		exports[e.Name] = e
	}

	tests := []struct {
		name string
		want []string
	}{
		{"brush_default", nil},
		{"brush_get_weight", []string{"s: const Brush*"}},
		{"brush_get_name", []string{"s: const Brush*", "cap: uint32_t"}},
		{"brush_get_color", []string{"s: const Brush*", "out: Color*"}},
		{"color_get_other", []string{"s: const Color*"}},
		{"crops_string_free", []string{"s: char*"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inputParams(exports[tt.name])
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Fatalf("inputParams = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSessionInvoke(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	call := func(name string, args ...string) string {
		t.Helper()
		out, err := s.invoke(ctx, name, args)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		return out
	}

	if out := call("brush_default"); out != "handle 1" {
		t.Fatalf("brush_default = %q", out)
	}
	if out := call("brush_with_weight", "1", "7"); out != "status ok (0)" {
		t.Fatalf("brush_with_weight = %q", out)
	}
	if out := call("brush_get_weight", "1"); out != "status ok (0); out = 7" {
		t.Fatalf("brush_get_weight = %q", out)
	}
	call("brush_with_name", "1", "round")
	if out := call("brush_get_name", "1", "3"); !strings.HasPrefix(out, "status buffer_too_small (3)") {
		t.Fatalf("brush_get_name small = %q", out)
	}
	if out := call("brush_get_name", "1", "6"); out != `status ok (0); buf = "round"` {
		t.Fatalf("brush_get_name = %q", out)
	}
	if out := call("brush_debug", "1"); !strings.Contains(out, `Brush{weight: 7, color: Red, name: "round"`) {
		t.Fatalf("brush_debug = %q", out)
	}
	if out := call("brush_get_weight", "0"); !strings.HasPrefix(out, "status null_argument (1)") {
		t.Fatalf("null handle = %q", out)
	}
	call("brush_free", "1")

	if out := call("color_from_blue"); out != "handle 1" {
		t.Fatalf("color_from_blue reused slot: %q", out)
	}
	if out := call("color_get_other", "1"); !strings.HasPrefix(out, "status variant_mismatch (2)") {
		t.Fatalf("color_get_other = %q", out)
	}
	call("color_as_other", "1", "teal")
	if out := call("color_get_other", "1"); !strings.Contains(out, `"teal"`) {
		t.Fatalf("color_get_other = %q", out)
	}
	if out := call("color_tag", "1"); out != "status ok (0); out = 3" {
		t.Fatalf("color_tag = %q", out)
	}
	call("color_free", "1")
}

func TestSessionInvokeErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	if _, err := s.invoke(ctx, "brush_paint", nil); err == nil {
		t.Fatal("unknown function accepted")
	}
	if _, err := s.invoke(ctx, "brush_with_weight", []string{"1"}); err == nil {
		t.Fatal("missing argument accepted")
	}
	if _, err := s.invoke(ctx, "brush_with_weight", []string{"1", "seven"}); err == nil {
		t.Fatal("non-numeric argument accepted")
	}
}

func TestScenariosUseKnownExports(t *testing.T) {
	s := newTestSession(t)
	for _, sc := range scenarios {
		for _, st := range sc.steps {
			e, ok := s.exports[st.name]
			if !ok {
				t.Fatalf("%s: unknown export %s", sc.title, st.name)
			}
			if got, want := len(st.args), len(inputParams(e)); got != want {
				t.Fatalf("%s: %s has %d args, want %d", sc.title, st.name, got, want)
			}
		}
	}
}

package eval

import (
	"errors"
	"testing"
)

func TestExprEval(t *testing.T) {
	vars := map[string]any{
		"title": "Hello",
		"n":     2,
		"var1":  []string{"a", "b"},
	}

	tests := []struct {
		name string
		expr string
		want string
	}{
		{"variable", "title", "Hello"},
		{"arithmetic", "n * 3 + 1", "7"},
		{"ternary", `n > 1 ? "many" : "one"`, "many"},
		{"list", "var1", "a,b"},
		{"list join", `join(var1, " + ")`, "a + b"},
		{"list index", "var1[1]", "b"},
		{"list len", "len(var1)", "2"},
		{"builtin", "upper(title)", "HELLO"},
		{"undefined", "missing", ""},
		{"nil coalesce", `missing ?? "fallback"`, "fallback"},
		{"float", "1.5 * 2", "3"},
		{"bool", "n == 2", "true"},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Eval(tt.expr, vars)
			if err != nil {
				t.Fatalf("Eval(%q) failed: %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Eval(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestExprErrors(t *testing.T) {
	var e Expr
	if _, err := e.Eval("1 +", nil); err == nil {
		t.Error("expected compile error")
	}
	if _, err := e.Eval("list[5]", map[string]any{"list": []string{"a"}}); err == nil {
		t.Error("expected runtime error")
	}
}

func TestExprCachesPrograms(t *testing.T) {
	e := New()
	e.Eval("a + 1", map[string]any{"a": 1})
	e.Eval("a + 1", map[string]any{"a": 2})
	if len(e.programs) != 1 {
		t.Errorf("cached %d programs, want 1", len(e.programs))
	}
}

func TestInterpolate(t *testing.T) {
	e := New()
	vars := map[string]any{"name": "Ada", "tags": []string{"x", "y"}}

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"plain", "<p>no holes</p>", "<p>no holes</p>"},
		{"one", "<p>{{ name }}</p>", "<p>Ada</p>"},
		{"tight", "<p>{{name}}</p>", "<p>Ada</p>"},
		{"several", "{{ name }}:{{ len(tags) }}", "Ada:2"},
		{"multiline", "{{\n  tags[0]\n}}", "x"},
		{"error is empty", "<p>{{ name. }}</p>", "<p></p>"},
		{"empty hole", "<p>{{ }}</p>", "<p></p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Interpolate(e, tt.src, vars); got != tt.want {
				t.Errorf("Interpolate = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInterpolateSwallowsEvaluatorErrors(t *testing.T) {
	failing := Func(func(string, map[string]any) (string, error) {
		return "", errors.New("boom")
	})
	if got := Interpolate(failing, "[{{ x }}]", nil); got != "[]" {
		t.Errorf("Interpolate = %q, want %q", got, "[]")
	}
}

// Package eval evaluates the {{ expression }} holes of template fragments.
//
// Expressions use the expr-lang grammar: property and index access,
// arithmetic, comparison, ternaries and the expr builtins (join, len, upper,
// ...). There is no access to Go functions or the host beyond the variables
// passed in.
package eval

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	exprlang "github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Evaluator maps an expression and its variable bindings to a string.
type Evaluator interface {
	Eval(expression string, vars map[string]any) (string, error)
}

// Func adapts a function to Evaluator.
type Func func(expression string, vars map[string]any) (string, error)

func (f Func) Eval(expression string, vars map[string]any) (string, error) {
	return f(expression, vars)
}

// Expr is the expr-lang backed Evaluator. Compiled programs are cached by
// expression text, so the zero value is ready to use and safe to share.
type Expr struct {
	mu       sync.RWMutex
	programs map[string]*vm.Program
}

// New returns an empty Expr.
func New() *Expr {
	return &Expr{}
}

func (e *Expr) Eval(expression string, vars map[string]any) (string, error) {
	program, err := e.compile(expression)
	if err != nil {
		return "", err
	}
	out, err := exprlang.Run(program, vars)
	if err != nil {
		return "", fmt.Errorf("eval %q: %w", expression, err)
	}
	return Stringify(out), nil
}

func (e *Expr) compile(expression string) (*vm.Program, error) {
	e.mu.RLock()
	p, ok := e.programs[expression]
	e.mu.RUnlock()
	if ok {
		return p, nil
	}

	p, err := exprlang.Compile(expression, exprlang.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expression, err)
	}

	e.mu.Lock()
	if e.programs == nil {
		e.programs = make(map[string]*vm.Program)
	}
	e.programs[expression] = p
	e.mu.Unlock()
	return p, nil
}

// Stringify renders an evaluation result the way it appears in markup.
// nil is empty, lists are comma joined and integral floats drop the
// fraction.
func Stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, ",")
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = Stringify(item)
		}
		return strings.Join(parts, ",")
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}

var holes = regexp.MustCompile(`(?s)\{\{(.*?)\}\}`)

// Interpolate replaces every {{ expression }} in src with its value. An
// expression that fails to compile or run becomes the empty string.
func Interpolate(ev Evaluator, src string, vars map[string]any) string {
	return holes.ReplaceAllStringFunc(src, func(hole string) string {
		expression := strings.TrimSpace(hole[2 : len(hole)-2])
		if expression == "" {
			return ""
		}
		out, err := ev.Eval(expression, vars)
		if err != nil {
			return ""
		}
		return out
	})
}

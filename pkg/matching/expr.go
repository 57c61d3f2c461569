package matching

import (
	"encoding/json"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

type exprMatcher struct {
	expression string
	program    *vm.Program
	err        error
}

// Expr matches values for which a boolean expr-lang expression evaluates to true.
//
// The expression sees two variables: value, the actual string, and json, the
// actual value decoded as JSON (nil when it is not valid JSON):
//
//	matching.Expr(`value startsWith "Bearer "`)
//	matching.Expr(`json.items[0].qty > 2`)
func Expr(expression string) Matcher {
	program, err := expr.Compile(expression, expr.Env(exprEnv("")), expr.AsBool())
	return exprMatcher{expression: expression, program: program, err: err}
}

// exprVars is the environment an Expr expression runs against.
type exprVars struct {
	Value string `expr:"value"`
	JSON  any    `expr:"json"`
}

func exprEnv(actual string) exprVars {
	vars := exprVars{Value: actual}
	if err := json.Unmarshal([]byte(actual), &vars.JSON); err != nil {
		vars.JSON = nil
	}
	return vars
}

func (m exprMatcher) Match(actual string) bool {
	ok, err := m.eval(actual)
	return err == nil && ok
}

func (m exprMatcher) eval(actual string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	out, err := expr.Run(m.program, exprEnv(actual))
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", m.expression, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

func (m exprMatcher) String() string {
	if m.err != nil {
		return "satisfies invalid expression " + Quote(m.expression)
	}
	return "satisfies expression " + Quote(m.expression)
}

// Explain reports compile or evaluation errors.
func (m exprMatcher) Explain(actual string) string {
	if _, err := m.eval(actual); err != nil {
		return err.Error()
	}
	return ""
}

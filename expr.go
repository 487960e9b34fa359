package propkit

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// Expr builds a custom validator from a CEL expression evaluated with the
// candidate bound to the variable `value`. The expression must produce a
// boolean:
//
//	age, err := propkit.Expr("type(value) == int && value >= 0 && value < 150")
//
// Expressions typically arrive from preset files rather than source code, so
// compile failures are returned as a *BuildError instead of panicking.
func Expr(expression string) (*Descriptor, error) {
	env, err := cel.NewEnv(cel.Variable("value", cel.DynType))
	if err != nil {
		return nil, NewArgumentError("Expr", err)
	}

	ast, iss := env.Compile(expression)
	if iss != nil && iss.Err() != nil {
		return nil, NewArgumentError("Expr", fmt.Errorf("%w: %v", ErrBadExpression, iss.Err()))
	}
	if ast.OutputType().String() != "bool" && ast.OutputType().String() != "dyn" {
		return nil, NewArgumentError("Expr", fmt.Errorf("%w: expression produces %s, want bool",
			ErrBadExpression, ast.OutputType()))
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, NewArgumentError("Expr", err)
	}

	d := newDescriptor(KindCustom)
	d.typeName = fmt.Sprintf("expression %q", expression)
	d.validator = func(v any) bool {
		out, _, err := prg.Eval(map[string]any{"value": v})
		if err != nil {
			return false
		}
		b, ok := out.Value().(bool)
		return ok && b
	}
	return d, nil
}

// MustExpr is the chain-friendly form of Expr; it panics on compile failure.
func MustExpr(expression string) *Descriptor {
	d, err := Expr(expression)
	if err != nil {
		panic(err)
	}
	return d
}

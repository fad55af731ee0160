package shimmatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/PaesslerAG/gval"
)

const exprPrefix = "expr:"

// exprLanguage extends gval's full expression language with Contains,
// the one predicate a match rule realistically needs over commandArgs
// besides plain substring search (which remains the default, no-expr
// path below).
var exprLanguage = gval.Full(
	gval.Function("Contains", func(s, substr string) bool {
		return strings.Contains(s, substr)
	}),
)

// EvaluateArgumentMatch implements the non-empty-ArgumentMatch half of
// spec.md §4.7. Without the "expr:" prefix it is the original's exact
// substring-match semantics — a case-sensitive Contains check.
// With the prefix, the remainder is evaluated as a gval boolean
// expression over two variables: args (the raw commandArgs string)
// and argCount (the number of whitespace-separated tokens in it) —
// an additive capability the original match rule format has no
// equivalent for.
func EvaluateArgumentMatch(argumentMatch, commandArgs string) (bool, error) {
	if !strings.HasPrefix(argumentMatch, exprPrefix) {
		return strings.Contains(commandArgs, argumentMatch), nil
	}

	expr := strings.TrimPrefix(argumentMatch, exprPrefix)
	eval, err := exprLanguage.NewEvaluable(expr)
	if err != nil {
		return false, fmt.Errorf("shimmatch: parse expr %q: %w", expr, err)
	}

	result, err := eval.EvalBool(context.Background(), map[string]interface{}{
		"args":     commandArgs,
		"argCount": len(strings.Fields(commandArgs)),
	})
	if err != nil {
		return false, fmt.Errorf("shimmatch: evaluate expr %q: %w", expr, err)
	}
	return result, nil
}

package services

import (
	"fmt"
	"strings"
)

// filterBuilder accumulates AND-ed predicates with positional arguments.
// Each "?" in an expression is replaced by the next $n placeholder.
type filterBuilder struct {
	conds []string
	args  []interface{}
}

func (b *filterBuilder) add(expr string, args ...interface{}) {
	for _, arg := range args {
		expr = strings.Replace(expr, "?", b.bind(arg), 1)
	}
	b.conds = append(b.conds, expr)
}

// bind appends arg and returns its placeholder
func (b *filterBuilder) bind(arg interface{}) string {
	b.args = append(b.args, arg)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *filterBuilder) where() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// escapeLike makes user input literal inside a LIKE pattern
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func containsPattern(s string) string {
	return "%" + escapeLike(s) + "%"
}

// FILE: trackwisp/src/internal/path/path.go
package path

import (
	"fmt"
	"strings"

	"github.com/ohler55/ojg/jp"
)

// Path is a compiled JSONPath expression. Safe for concurrent use.
type Path struct {
	expr     string
	compiled jp.Expr
}

// Compile parses a JSONPath expression once so it can be evaluated against
// any number of documents.
func Compile(expr string) (*Path, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty path expression")
	}

	compiled, err := jp.ParseString(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid path expression %q: %w", expr, err)
	}

	return &Path{expr: expr, compiled: compiled}, nil
}

// Evaluate returns every value matched in document order. An empty result
// means the path did not match.
func (p *Path) Evaluate(doc any) []any {
	if p == nil || doc == nil {
		return nil
	}
	return p.compiled.Get(doc)
}

// First returns the first match, if any
func (p *Path) First(doc any) (any, bool) {
	matches := p.Evaluate(doc)
	if len(matches) == 0 {
		return nil, false
	}
	return matches[0], true
}

// String returns the source expression
func (p *Path) String() string {
	return p.expr
}

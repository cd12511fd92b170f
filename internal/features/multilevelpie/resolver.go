package multilevelpie

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go-analytics/internal/features/dataset"

	"github.com/d5/tengo/v2"
)

var (
	identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`)
	number     = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// Node is one configured category. Value is an arithmetic expression whose free
// variables are query names, e.g. "q1 - q2 + q3*(q4/q5)".
type Node struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Children []Node `json:"categories,omitempty"`
}

// Binding tells how a query referenced by an expression resolves to a scalar.
type Binding struct {
	Query         string                `json:"query"`
	ValueLocation dataset.ValueLocation `json:"valueLocation"`
	ValueField    *dataset.ValueField   `json:"valueField,omitempty"`
}

type Config struct {
	Categories []Node    `json:"categories"`
	Bindings   []Binding `json:"queries"`
}

// Queries lists the bound query names.
func (c Config) Queries() []string {
	names := make([]string, 0, len(c.Bindings))
	for _, b := range c.Bindings {
		names = append(names, b.Query)
	}
	return names
}

type Category struct {
	Label    string     `json:"label"`
	Value    float64    `json:"value"`
	Count    float64    `json:"count"`
	Category []Category `json:"category"`
}

type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve evaluates every node of the tree. A node that cannot be evaluated gets the value 0
// and an error note in its label; its siblings are unaffected. Children are only resolved
// for nodes whose value is positive.
func (r *Resolver) Resolve(ctx context.Context, ds dataset.Dataset, tree []Node, bindings []Binding) []Category {
	byQuery := make(map[string]Binding, len(bindings))
	for _, b := range bindings {
		byQuery[b.Query] = b
	}
	return r.resolveLevel(ctx, ds, tree, byQuery)
}

func (r *Resolver) resolveLevel(ctx context.Context, ds dataset.Dataset, nodes []Node, bindings map[string]Binding) []Category {
	out := make([]Category, 0, len(nodes))
	for _, node := range nodes {
		cat := Category{Label: node.Label, Category: []Category{}}
		value, err := r.evaluate(ctx, ds, node.Value, bindings)
		if err != nil {
			cat.Label = fmt.Sprintf("%s (error: %s)", node.Label, err)
		} else {
			cat.Value = value
		}
		cat.Count = cat.Value
		if cat.Value > 0 && len(node.Children) > 0 {
			cat.Category = r.resolveLevel(ctx, ds, node.Children, bindings)
		}
		out = append(out, cat)
	}
	return out
}

func (r *Resolver) evaluate(ctx context.Context, ds dataset.Dataset, expr string, bindings map[string]Binding) (float64, error) {
	if strings.TrimSpace(expr) == "" {
		return 0, errors.New("empty expression")
	}

	script, operands, err := rewrite(expr, bindings)
	if err != nil {
		return 0, err
	}

	params := make(map[string]interface{}, len(operands))
	for _, op := range operands {
		if op.query == "" {
			params[op.name] = op.value
			continue
		}
		b := bindings[op.query]
		result, state := ds.Lookup(b.Query)
		switch state {
		case dataset.StateLoading:
			return 0, fmt.Errorf("query %q not loaded", b.Query)
		case dataset.StateError:
			return 0, fmt.Errorf("query %q failed: %s", b.Query, result.ErrorMessage)
		}
		v := dataset.Extract(result, b.ValueLocation, b.ValueField)
		if v == nil {
			return 0, fmt.Errorf("query %q has no value", b.Query)
		}
		params[op.name] = *v
	}

	raw, err := tengo.Eval(ctx, script, params)
	if err != nil {
		return 0, fmt.Errorf("evaluate %q: %w", expr, err)
	}

	var value float64
	switch n := raw.(type) {
	case float64:
		value = n
	case int64:
		value = float64(n)
	case int:
		value = float64(n)
	default:
		return 0, fmt.Errorf("expression %q is not numeric", expr)
	}
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, fmt.Errorf("expression %q is not finite", expr)
	}
	return value, nil
}

// operand is a placeholder in a rewritten expression: a bound query or a number literal.
type operand struct {
	name  string
	query string
	value float64
}

// rewrite replaces every bound query name and every number literal with a placeholder
// variable. Query names may contain characters tengo reads as operators ("audit-queries")
// or shadow its builtins ("len"); the longest bound name wins. Literals become float
// operands so that "1/2" divides as 0.5.
func rewrite(expr string, bindings map[string]Binding) (string, []operand, error) {
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	var out strings.Builder
	var operands []operand
	byQuery := make(map[string]string)
	add := func(op operand) string {
		if p, ok := byQuery[op.query]; ok && op.query != "" {
			return p
		}
		op.name = fmt.Sprintf("_v%d", len(operands))
		operands = append(operands, op)
		if op.query != "" {
			byQuery[op.query] = op.name
		}
		return op.name
	}

	for i := 0; i < len(expr); {
		rest := expr[i:]
		if name := boundPrefix(rest, names); name != "" {
			out.WriteString(add(operand{query: name}))
			i += len(name)
			continue
		}
		if lit := number.FindString(rest); lit != "" {
			v, err := strconv.ParseFloat(lit, 64)
			if err != nil {
				return "", nil, fmt.Errorf("invalid number %q", lit)
			}
			out.WriteString(add(operand{value: v}))
			i += len(lit)
			continue
		}
		if id := identifier.FindString(rest); id != "" {
			return "", nil, fmt.Errorf("no query bound to %q", id)
		}
		out.WriteByte(expr[i])
		i++
	}
	return out.String(), operands, nil
}

func boundPrefix(s string, names []string) string {
	for _, name := range names {
		if strings.HasPrefix(s, name) && (len(s) == len(name) || !isIdentByte(s[len(name)])) {
			return name
		}
	}
	return ""
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

package reports

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"billing/internal/domain/catalogs/status"
)

// Default classification rules. The status variable holds the case-folded status name.
const (
	DefaultUnsignedRule   = `status in ["unsigned", "no firmada"]`
	DefaultReceivableRule = `status in ["signed", "firmada"]`
	DefaultPaidRule       = `status in ["paid", "pagada"]`
)

// Rules are CEL expressions over the string variable status.
type Rules struct {
	Unsigned   string
	Receivable string
	Paid       string
}

// DefaultRules returns the built-in classification rules.
func DefaultRules() Rules {
	return Rules{
		Unsigned:   DefaultUnsignedRule,
		Receivable: DefaultReceivableRule,
		Paid:       DefaultPaidRule,
	}
}

// Class is the outcome of classifying one status name.
type Class struct {
	// Unsigned invoices are excluded from recognized sales
	Unsigned bool
	// Receivable invoices count toward accounts receivable
	Receivable bool
	Paid       bool
}

// Recognized reports whether the invoice counts as a sale.
func (c Class) Recognized() bool {
	return !c.Unsigned
}

// Charted reports whether the invoice appears in the monthly amount charts.
func (c Class) Charted() bool {
	return c.Receivable || c.Paid
}

// Classifier maps status names to classes using compiled CEL programs.
type Classifier struct {
	unsigned   cel.Program
	receivable cel.Program
	paid       cel.Program

	mu    sync.RWMutex
	cache map[string]Class
}

// NewClassifier compiles the rules. Empty rules fall back to the defaults.
func NewClassifier(rules Rules) (*Classifier, error) {
	defaults := DefaultRules()
	if rules.Unsigned == "" {
		rules.Unsigned = defaults.Unsigned
	}
	if rules.Receivable == "" {
		rules.Receivable = defaults.Receivable
	}
	if rules.Paid == "" {
		rules.Paid = defaults.Paid
	}

	env, err := cel.NewEnv(cel.Variable("status", cel.StringType))
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	c := &Classifier{cache: make(map[string]Class)}
	for _, r := range []struct {
		name string
		expr string
		dst  *cel.Program
	}{
		{"unsigned", rules.Unsigned, &c.unsigned},
		{"receivable", rules.Receivable, &c.receivable},
		{"paid", rules.Paid, &c.paid},
	} {
		prg, err := compileRule(env, r.expr)
		if err != nil {
			return nil, fmt.Errorf("%s rule: %w", r.name, err)
		}
		*r.dst = prg
	}
	return c, nil
}

// MustDefaultClassifier returns a classifier with the built-in rules.
func MustDefaultClassifier() *Classifier {
	c, err := NewClassifier(DefaultRules())
	if err != nil {
		panic(err)
	}
	return c
}

func compileRule(env *cel.Env, expr string) (cel.Program, error) {
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, iss.Err()
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("expression %q must return bool, got %s", expr, ast.OutputType())
	}
	return env.Program(ast)
}

// Classify returns the class of a status name. Matching is case-insensitive.
func (c *Classifier) Classify(name string) Class {
	key := status.Fold(name)

	c.mu.RLock()
	cls, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return cls
	}

	cls = Class{
		Unsigned:   eval(c.unsigned, key),
		Receivable: eval(c.receivable, key),
		Paid:       eval(c.paid, key),
	}
	c.mu.Lock()
	c.cache[key] = cls
	c.mu.Unlock()
	return cls
}

// eval treats evaluation errors as false so the compute path never fails.
func eval(prg cel.Program, folded string) bool {
	out, _, err := prg.Eval(map[string]any{"status": folded})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}

// Package exprcond builds decision maker conditions and considerations from
// expr-lang expressions evaluated over a memory.Blackboard.
//
// Expressions are compiled once, at construction, and shared through a
// bounded LRU cache. Identifiers resolve to blackboard keys; unknown keys
// evaluate to nil. Runtime failures are logged and resolve to false or 0,
// since a decision tick never fails.
package exprcond

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	pabtpkg "github.com/joeycumines/go-pabt"

	"github.com/joeycumines/go-emergent/internal/emergent"
	"github.com/joeycumines/go-emergent/internal/memory"
)

// ErrEmptyExpression is returned when constructing from an empty string.
var ErrEmptyExpression = errors.New("exprcond: empty expression")

var (
	_ emergent.Condition[memory.Blackboard]     = (*Condition)(nil)
	_ emergent.Consideration[memory.Blackboard] = (*Consideration)(nil)
	_ pabtpkg.Condition                         = (*Match)(nil)
)

func compile(kind, expression string, opts ...expr.Option) (*vm.Program, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	key := kind + "\x00" + expression
	if program, ok := programs.Get(key); ok {
		return program, nil
	}
	program, err := expr.Compile(expression, opts...)
	if err != nil {
		return nil, fmt.Errorf("exprcond: compile %s %q: %w", kind, expression, err)
	}
	programs.Put(key, program)
	return program, nil
}

// Condition is a boolean expression over a blackboard.
type Condition struct {
	expression string
	program    *vm.Program
}

// NewCondition compiles a boolean expression, e.g. `time == "day" && !tired`.
func NewCondition(expression string) (*Condition, error) {
	program, err := compile("condition", expression,
		expr.Env(map[string]any{}),
		expr.AsBool(),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, err
	}
	return &Condition{expression: expression, program: program}, nil
}

// Validate implements emergent.Condition.
func (c *Condition) Validate(bb *memory.Blackboard) bool {
	result, err := expr.Run(c.program, bb.Snapshot())
	if err != nil {
		slog.Error("[exprcond] Condition evaluation error",
			"expression", c.expression,
			"error", err)
		return false
	}
	b, _ := result.(bool)
	return b
}

// String returns the source expression.
func (c *Condition) String() string { return c.expression }

// Consideration is a numeric expression over a blackboard. Integer, float
// and boolean results are converted to a score.
type Consideration struct {
	expression string
	program    *vm.Program
}

// NewConsideration compiles a numeric expression, e.g. `hunger * (1 - distance)`.
func NewConsideration(expression string) (*Consideration, error) {
	program, err := compile("consideration", expression,
		expr.Env(map[string]any{}),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, err
	}
	return &Consideration{expression: expression, program: program}, nil
}

// Score implements emergent.Consideration.
func (c *Consideration) Score(bb *memory.Blackboard) emergent.Scalar {
	result, err := expr.Run(c.program, bb.Snapshot())
	if err != nil {
		slog.Error("[exprcond] Consideration evaluation error",
			"expression", c.expression,
			"error", err)
		return 0
	}
	score, ok := memory.ToFloat(result)
	if !ok {
		slog.Warn("[exprcond] Consideration non-numeric result",
			"expression", c.expression,
			"resultType", fmt.Sprintf("%T", result))
		return 0
	}
	return score
}

// String returns the source expression.
func (c *Consideration) String() string { return c.expression }

// MatchEnv is the environment of Match expressions.
type MatchEnv struct {
	Value any `expr:"value"`
}

// Match is a go-pabt condition on one blackboard key. Its expression sees
// the key's current (or hypothetical) value as `value`.
type Match struct {
	key        string
	expression string
	program    *vm.Program
}

// NewMatch compiles a match expression, e.g. `value == true`.
func NewMatch(key, expression string) (*Match, error) {
	program, err := compile("match", expression,
		expr.Env(MatchEnv{}),
		expr.AsBool(),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, err
	}
	return &Match{key: key, expression: expression, program: program}, nil
}

// MustMatch is like NewMatch but panics on error. It is intended for
// statically known expressions.
func MustMatch(key, expression string) *Match {
	m, err := NewMatch(key, expression)
	if err != nil {
		panic(err)
	}
	return m
}

// Key implements pabtpkg.Condition.
func (m *Match) Key() any { return m.key }

// Match implements pabtpkg.Condition.
func (m *Match) Match(value any) bool {
	result, err := expr.Run(m.program, MatchEnv{Value: value})
	if err != nil {
		slog.Error("[exprcond] Match evaluation error",
			"key", m.key,
			"expression", m.expression,
			"value", fmt.Sprintf("%v", value),
			"error", err)
		return false
	}
	b, _ := result.(bool)
	return b
}

// String returns a description of the match.
func (m *Match) String() string { return m.key + ": " + m.expression }

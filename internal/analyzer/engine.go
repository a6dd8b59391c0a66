// Package analyzer drives a graph of bindings to a type fixed point.
//
// Each binding owns an inference.Accumulator. Rules derive type
// contributions for a binding, possibly from other bindings' combined
// types; whenever a submission changes a combined type, the rules that
// read that binding are re-queued. Iteration stops when the worklist
// drains or the pass limit is exceeded.
package analyzer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/funvibe/funtype/internal/config"
	"github.com/funvibe/funtype/internal/inference"
	"github.com/funvibe/funtype/internal/typesystem"
)

// ErrNoFixedPoint is returned when the worklist does not drain within
// the configured pass limit.
var ErrNoFixedPoint = errors.New("analysis did not reach a fixed point")

// RuleOp selects how a rule derives its contribution.
type RuleOp string

const (
	// OpConst contributes a fixed type.
	OpConst RuleOp = "const"
	// OpCopy contributes the current combined type of a source binding.
	OpCopy RuleOp = "copy"
	// OpUnion contributes the combination of several source bindings'
	// combined types.
	OpUnion RuleOp = "union"
	// OpElem contributes the element type of a source binding whose
	// combined type is a single-argument application (e.g. List<Int>
	// contributes Int); anything else contributes unknown.
	OpElem RuleOp = "elem"
)

// Rule derives one contribution for Target under Origin.
type Rule struct {
	Target string
	Origin inference.OriginID
	Op     RuleOp
	Type   typesystem.Type // OpConst
	From   []string        // OpCopy/OpElem (one source), OpUnion (one or more)
}

// Binding is one logical binding under analysis.
type Binding struct {
	Name string
	acc  *inference.Accumulator
}

// Combined returns the binding's current combined type.
func (b *Binding) Combined() typesystem.Type { return b.acc.Combined() }

// Contributions returns the binding's contributions in insertion order.
func (b *Binding) Contributions() []inference.Contribution { return b.acc.Contributions() }

// Engine evaluates rules over a set of bindings until stable.
type Engine struct {
	log       *zap.Logger
	session   uuid.UUID
	maxPasses int

	bindings map[string]*Binding
	order    []string
	rules    []Rule
	// readers maps a binding name to the indices of rules that read it.
	readers map[string][]int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithMaxPasses bounds how many times each rule may be evaluated during
// one Run. Zero or negative keeps the default.
func WithMaxPasses(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxPasses = n
		}
	}
}

// New returns an empty engine tagged with a fresh session id.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:       zap.NewNop(),
		session:   uuid.New(),
		maxPasses: config.DefaultMaxPasses,
		bindings:  make(map[string]*Binding),
		readers:   make(map[string][]int),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Session returns the engine's session id.
func (e *Engine) Session() uuid.UUID { return e.session }

// AddBinding registers a binding with an empty accumulator.
func (e *Engine) AddBinding(name string) error {
	if name == "" {
		return fmt.Errorf("binding name must not be empty")
	}
	if _, ok := e.bindings[name]; ok {
		return fmt.Errorf("duplicate binding %q", name)
	}
	e.bindings[name] = &Binding{Name: name, acc: inference.NewAccumulator()}
	e.order = append(e.order, name)
	return nil
}

// Binding returns a registered binding, or nil.
func (e *Engine) Binding(name string) *Binding {
	return e.bindings[name]
}

// Bindings returns all bindings in registration order.
func (e *Engine) Bindings() []*Binding {
	out := make([]*Binding, len(e.order))
	for i, name := range e.order {
		out[i] = e.bindings[name]
	}
	return out
}

// AddRule registers a rule. Target and all sources must be registered
// bindings already.
func (e *Engine) AddRule(r Rule) error {
	if _, ok := e.bindings[r.Target]; !ok {
		return fmt.Errorf("rule targets unknown binding %q", r.Target)
	}
	switch r.Op {
	case OpConst:
		if r.Type == nil {
			return fmt.Errorf("const rule for %q has no type", r.Target)
		}
		if len(r.From) != 0 {
			return fmt.Errorf("const rule for %q must not name sources", r.Target)
		}
	case OpCopy, OpElem:
		if len(r.From) != 1 {
			return fmt.Errorf("%s rule for %q needs exactly one source, got %d", r.Op, r.Target, len(r.From))
		}
	case OpUnion:
		if len(r.From) == 0 {
			return fmt.Errorf("union rule for %q needs at least one source", r.Target)
		}
	default:
		return fmt.Errorf("unknown rule op %q", r.Op)
	}
	for _, src := range r.From {
		if _, ok := e.bindings[src]; !ok {
			return fmt.Errorf("rule for %q reads unknown binding %q", r.Target, src)
		}
	}

	idx := len(e.rules)
	e.rules = append(e.rules, r)
	for _, src := range r.From {
		e.readers[src] = append(e.readers[src], idx)
	}
	return nil
}

// Run evaluates all rules to a fixed point and returns each binding's
// combined type. Evaluation order is deterministic: rules seed the
// worklist in registration order and re-queues are FIFO.
func (e *Engine) Run(ctx context.Context) (map[string]typesystem.Type, error) {
	e.log.Debug("analysis started",
		zap.String("session", e.session.String()),
		zap.Int("bindings", len(e.order)),
		zap.Int("rules", len(e.rules)))

	queue := make([]int, len(e.rules))
	for i := range e.rules {
		queue[i] = i
	}

	budget := e.maxPasses * len(e.rules)
	evals := 0
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if evals >= budget {
			return nil, fmt.Errorf("%w after %d rule evaluations", ErrNoFixedPoint, evals)
		}
		evals++

		idx := queue[0]
		queue = queue[1:]
		rule := e.rules[idx]

		t := e.evaluate(rule)
		changed := e.bindings[rule.Target].acc.Submit(t, rule.Origin)
		e.log.Debug("contribution submitted",
			zap.String("session", e.session.String()),
			zap.String("binding", rule.Target),
			zap.Int("origin", int(rule.Origin)),
			zap.String("type", t.String()),
			zap.Bool("changed", changed))

		if changed {
			for _, dep := range e.readers[rule.Target] {
				queue = append(queue, dep)
			}
		}
	}

	results := make(map[string]typesystem.Type, len(e.order))
	for name, b := range e.bindings {
		results[name] = b.acc.Combined()
	}
	e.log.Debug("analysis converged",
		zap.String("session", e.session.String()),
		zap.Int("evaluations", evals))
	return results, nil
}

func (e *Engine) evaluate(r Rule) typesystem.Type {
	switch r.Op {
	case OpConst:
		return r.Type
	case OpCopy:
		return e.bindings[r.From[0]].acc.Combined()
	case OpElem:
		src := e.bindings[r.From[0]].acc.Combined()
		if app, ok := src.(typesystem.TApp); ok && len(app.Args) == 1 {
			return app.Args[0]
		}
		return typesystem.Unknown
	case OpUnion:
		types := make([]typesystem.Type, len(r.From))
		for i, src := range r.From {
			types[i] = e.bindings[src].acc.Combined()
		}
		return typesystem.Combine(types)
	}
	// AddRule rejects unknown ops.
	return typesystem.Unknown
}

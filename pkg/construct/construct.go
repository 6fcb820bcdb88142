package construct

import (
	"fmt"
	"io"
	"log/slog"

	"newop/construct-go/pkg/runtime"
)

// OutcomeTag says which value a construction produced.
type OutcomeTag int

const (
	// OutcomeFresh means the freshly allocated instance was returned.
	OutcomeFresh OutcomeTag = iota
	// OutcomeResult means the constructor's own return value was returned.
	OutcomeResult
)

func (t OutcomeTag) String() string {
	if t == OutcomeResult {
		return "result"
	}
	return "fresh"
}

// Outcome is the value a construction yields together with where it came
// from.
type Outcome struct {
	Tag   OutcomeTag
	Value runtime.Value
}

// Select picks between the fresh instance and the invocation result. Reference
// results win; primitives, undefined, null and a missing result fall back to
// fresh.
func Select(fresh *runtime.Object, result runtime.Value) Outcome {
	switch runtime.CategoryOf(result) {
	case runtime.CategoryReference:
		return Outcome{Tag: OutcomeResult, Value: result}
	default:
		return Outcome{Tag: OutcomeFresh, Value: fresh}
	}
}

// Operator performs constructions. The zero value is not usable; call New.
type Operator struct {
	logger *slog.Logger
}

// Option configures an Operator.
type Option func(*Operator)

// WithLogger traces each construction at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Operator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New returns an Operator. Without options it logs nowhere.
func New(opts ...Option) *Operator {
	op := &Operator{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(op)
	}
	return op
}

var defaultOperator = New()

// Construct runs callable as a constructor with args using a silent
// Operator.
func Construct(callable runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return defaultOperator.Construct(callable, args)
}

// Construct creates an instance delegating to callable's current
// "prototype", invokes callable once with that instance as receiver, and
// returns either the invocation's reference result or the instance.
//
// A non-callable fails with *InvalidCallableError before anything is
// allocated. Errors raised by the invocation are returned unchanged.
func (o *Operator) Construct(callable runtime.Value, args []runtime.Value) (runtime.Value, error) {
	outcome, err := o.ConstructOutcome(callable, args)
	if err != nil {
		return nil, err
	}
	return outcome.Value, nil
}

// ConstructOutcome is Construct but keeps the tag.
func (o *Operator) ConstructOutcome(callable runtime.Value, args []runtime.Value) (Outcome, error) {
	fn, ok := callable.(*runtime.FunctionValue)
	if !ok || !runtime.IsCallable(fn) {
		return Outcome{}, newInvalidCallableError(callable)
	}

	fresh := runtime.NewObject(prototypeFor(fn))
	result, err := fn.Call(fresh, args)
	if err != nil {
		o.logger.Debug("construct failed", "callable", fn.DisplayName(), "args", len(args), "error", err)
		return Outcome{}, err
	}

	outcome := Select(fresh, result)
	o.logger.Debug("construct", "callable", fn.DisplayName(), "args", len(args), "outcome", outcome.Tag.String())
	return outcome, nil
}

// prototypeFor reads fn's prototype property at call time. A null or
// primitive prototype leaves the instance without a delegate.
func prototypeFor(fn *runtime.FunctionValue) *runtime.Object {
	return runtime.ObjectOf(fn.PrototypeProperty())
}

// PrototypeOf returns v's prototype link: Null for a reference without one,
// Undefined for primitives.
func PrototypeOf(v runtime.Value) runtime.Value {
	obj := runtime.ObjectOf(v)
	if obj == nil {
		return runtime.Undefined
	}
	proto := obj.Prototype()
	if proto == nil {
		return runtime.Null
	}
	return proto
}

// InstanceOf reports whether callable's current prototype object appears on
// v's prototype chain. Primitives are never instances. A callable whose
// prototype is not an object fails with ErrNonObjectPrototype when v is a
// reference.
func InstanceOf(v runtime.Value, callable runtime.Value) (bool, error) {
	fn, ok := callable.(*runtime.FunctionValue)
	if !ok || !runtime.IsCallable(fn) {
		return false, newInvalidCallableError(callable)
	}
	if runtime.ObjectOf(v) == nil {
		return false, nil
	}
	proto := prototypeFor(fn)
	if proto == nil {
		return false, fmt.Errorf("construct: %s has %w", fn.DisplayName(), ErrNonObjectPrototype)
	}
	return proto.IsPrototypeOf(v), nil
}

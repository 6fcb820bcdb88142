// Package scenario runs illustrative constructions and records what each
// one produced, so the operator's behaviour can be printed side by side with
// the expectations it is meant to satisfy.
package scenario

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"newop/construct-go/pkg/construct"
	"newop/construct-go/pkg/inspect"
	"newop/construct-go/pkg/runtime"
)

// Outcome labels recorded in results.
const (
	OutcomeFresh  = "fresh"
	OutcomeResult = "result"
	OutcomeError  = "error"
)

// Scenario is a named construction with its own expectations.
type Scenario struct {
	Name        string
	Description string
	run         func(env *Env, rec *Recorder)
}

// Env is what a scenario builds its constructor against. Each scenario gets
// a fresh realm.
type Env struct {
	Realm    *runtime.Realm
	Operator *construct.Operator
}

// Check is a single expectation and whether it held.
type Check struct {
	Name   string `json:"name" yaml:"name"`
	Pass   bool   `json:"pass" yaml:"pass"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Result is the record of one scenario run.
type Result struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Outcome     string  `json:"outcome" yaml:"outcome" jsonschema:"enum=fresh,enum=result,enum=error"`
	Value       string  `json:"value,omitempty" yaml:"value,omitempty"`
	Prototype   string  `json:"prototype,omitempty" yaml:"prototype,omitempty"`
	Error       string  `json:"error,omitempty" yaml:"error,omitempty"`
	Checks      []Check `json:"checks" yaml:"checks"`
}

// Passed reports whether every check held.
func (r Result) Passed() bool {
	for _, c := range r.Checks {
		if !c.Pass {
			return false
		}
	}
	return true
}

// Report collects the results of one run.
type Report struct {
	RunID     string    `json:"run_id" yaml:"run_id"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	Passed    int       `json:"passed" yaml:"passed"`
	Failed    int       `json:"failed" yaml:"failed"`
	Results   []Result  `json:"results" yaml:"results"`
}

// OK reports whether no scenario failed.
func (r *Report) OK() bool {
	return r.Failed == 0
}

// Recorder captures the outcome and checks of a running scenario.
type Recorder struct {
	result Result
}

// Construct runs the operator and records the outcome, the rendered value and
// its prototype. The returned values are those of ConstructOutcome.
func (r *Recorder) Construct(env *Env, callable runtime.Value, args ...runtime.Value) (construct.Outcome, error) {
	outcome, err := env.Operator.ConstructOutcome(callable, args)
	if err != nil {
		r.result.Outcome = OutcomeError
		r.result.Error = err.Error()
		return outcome, err
	}
	r.result.Outcome = outcome.Tag.String()
	r.result.Value = inspect.Inspect(outcome.Value)
	r.result.Prototype = inspect.Inspect(construct.PrototypeOf(outcome.Value))
	return outcome, nil
}

// Check records an expectation.
func (r *Recorder) Check(name string, pass bool, detail string, args ...any) {
	c := Check{Name: name, Pass: pass}
	if !pass && detail != "" {
		c.Detail = fmt.Sprintf(detail, args...)
	}
	r.result.Checks = append(r.result.Checks, c)
}

// Same records an identity expectation between two values.
func (r *Recorder) Same(name string, want, got runtime.Value) {
	r.Check(name, runtime.SameValue(want, got), "want %s, got %s", inspect.Inspect(want), inspect.Inspect(got))
}

// Options select and observe a run.
type Options struct {
	// Names limits the run to these scenarios, in this order. Empty runs all.
	Names  []string
	Logger *slog.Logger
}

// Run executes the selected scenarios. It stops early when ctx is done.
func Run(ctx context.Context, opts Options) (*Report, error) {
	selected, err := Select(opts.Names)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	report := &Report{RunID: uuid.NewString(), StartedAt: time.Now().UTC()}
	logger = logger.With("run_id", report.RunID)
	op := construct.New(construct.WithLogger(logger))

	for _, sc := range selected {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("scenario run interrupted: %w", err)
		}
		res := runOne(sc, &Env{Realm: runtime.NewRealm(), Operator: op})
		if res.Passed() {
			report.Passed++
		} else {
			report.Failed++
		}
		logger.Info("scenario finished", "scenario", sc.Name, "outcome", res.Outcome, "passed", res.Passed())
		report.Results = append(report.Results, res)
	}
	return report, nil
}

func runOne(sc Scenario, env *Env) Result {
	rec := &Recorder{result: Result{Name: sc.Name, Description: sc.Description}}
	sc.run(env, rec)
	if rec.result.Checks == nil {
		rec.result.Checks = []Check{}
	}
	return rec.result
}

// Lookup returns the built-in scenario called name.
func Lookup(name string) (Scenario, bool) {
	for _, sc := range builtins {
		if sc.Name == name {
			return sc, true
		}
	}
	return Scenario{}, false
}

// All returns the built-in scenarios in run order.
func All() []Scenario {
	out := make([]Scenario, len(builtins))
	copy(out, builtins)
	return out
}

// Select resolves names to scenarios. Empty names select all.
func Select(names []string) ([]Scenario, error) {
	if len(names) == 0 {
		return All(), nil
	}
	out := make([]Scenario, 0, len(names))
	for _, name := range names {
		sc, ok := Lookup(name)
		if !ok {
			return nil, fmt.Errorf("scenario: unknown scenario %q", name)
		}
		out = append(out, sc)
	}
	return out, nil
}

// Package validate holds optional checks over a set of steps. They are kept
// apart from scheduling and evaluation: a solution can be ordered and solved
// without ever running them, and running them never changes anything.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/stepsolver/internal/errwrap"
	"github.com/specialistvlad/stepsolver/internal/expr"
	"github.com/specialistvlad/stepsolver/internal/step"
)

// Severity grades an Issue.
type Severity int

const (
	// Warning marks a system that can still be solved but is suspicious.
	Warning Severity = iota
	// Error marks a step that cannot be evaluated.
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Pass names.
const (
	PassSyntax    = "syntax"
	PassContext   = "context"
	PassProducers = "producers"
)

// Issue is a single finding of a validation pass.
type Issue struct {
	Pass     string
	Severity Severity
	// Step is the index of the offending step, or -1 for parameters.
	Step int
	Err  error
}

func (i Issue) Error() string {
	if i.Step < 0 {
		return fmt.Sprintf("%s %s: %v", i.Pass, i.Severity, i.Err)
	}
	return fmt.Sprintf("%s %s: step %d: %v", i.Pass, i.Severity, i.Step, i.Err)
}

func (i Issue) Unwrap() error {
	return i.Err
}

// Report collects the issues of one or more passes.
type Report struct {
	Issues []Issue
}

// HasErrors reports whether any issue has Error severity.
func (r *Report) HasErrors() bool {
	for _, i := range r.Issues {
		if i.Severity == Error {
			return true
		}
	}
	return false
}

// Err combines every issue into a single error, or returns nil when the
// report is clean. With onlyErrors set, warnings are left out.
func (r *Report) Err(onlyErrors bool) error {
	var reterr error
	for _, i := range r.Issues {
		if onlyErrors && i.Severity != Error {
			continue
		}
		reterr = errwrap.Append(reterr, i)
	}
	return reterr
}

// FunctionTable resolves function names. *expr.Engine satisfies it.
type FunctionTable interface {
	Arity(name string) (params int, variadic bool, ok bool)
}

// Syntax checks that every expression of every step parses.
func Syntax(steps []step.Step) []Issue {
	var issues []Issue
	for id, s := range steps {
		ex, ok := s.(step.Expressioner)
		if !ok {
			continue
		}
		for _, text := range ex.Expressions() {
			if _, err := expr.Parse(text); err != nil {
				issues = append(issues, Issue{Pass: PassSyntax, Severity: Error, Step: id, Err: err})
			}
		}
	}
	return issues
}

// Context checks that every function called by a step is known to funcs and
// is given a suitable number of arguments. Expressions that do not parse are
// left to Syntax.
func Context(steps []step.Step, funcs FunctionTable) []Issue {
	var issues []Issue
	for id, s := range steps {
		ex, ok := s.(step.Expressioner)
		if !ok {
			continue
		}
		for _, text := range ex.Expressions() {
			calls, err := expr.CalledFunctions(text)
			if err != nil {
				continue
			}
			for _, c := range calls {
				params, variadic, ok := funcs.Arity(c.Name)
				switch {
				case !ok:
					issues = append(issues, Issue{
						Pass: PassContext, Severity: Error, Step: id,
						Err: fmt.Errorf("unknown function %q", c.Name),
					})
				case variadic && c.Args < params, !variadic && c.Args != params:
					issues = append(issues, Issue{
						Pass: PassContext, Severity: Error, Step: id,
						Err: fmt.Errorf("function %q takes %s, called with %d", c.Name, arity(params, variadic), c.Args),
					})
				}
			}
		}
	}
	return issues
}

func arity(params int, variadic bool) string {
	if variadic {
		return fmt.Sprintf("at least %d arguments", params)
	}
	if params == 1 {
		return "1 argument"
	}
	return fmt.Sprintf("%d arguments", params)
}

// Producers checks that each variable has a single source: either one
// parameter or one step. Extra producers only overwrite values, so these are
// warnings.
func Producers(steps []step.Step, params map[string]float64) []Issue {
	sources := make(map[string][]string)
	for name := range params {
		key := strings.ToLower(name)
		sources[key] = append(sources[key], "parameter "+name)
	}
	for id, s := range steps {
		for _, out := range s.Outputs() {
			sources[out] = append(sources[out], fmt.Sprintf("step %d", id))
		}
	}

	names := make([]string, 0, len(sources))
	for name, src := range sources {
		if len(src) > 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	issues := make([]Issue, 0, len(names))
	for _, name := range names {
		src := sources[name]
		sort.Strings(src)
		issues = append(issues, Issue{
			Pass: PassProducers, Severity: Warning, Step: -1,
			Err: fmt.Errorf("variable %q has %d producers: %s", name, len(src), strings.Join(src, ", ")),
		})
	}
	return issues
}

// Run executes every pass and collects the results.
func Run(steps []step.Step, params map[string]float64, funcs FunctionTable) *Report {
	report := &Report{}
	report.Issues = append(report.Issues, Syntax(steps)...)
	report.Issues = append(report.Issues, Context(steps, funcs)...)
	report.Issues = append(report.Issues, Producers(steps, params)...)
	return report
}

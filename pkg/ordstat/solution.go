package ordstat

import (
	"fmt"
	"strconv"
	"strings"
)

// Solution is the outcome of a solver. When Feasible is false, Value is the
// zero value and must not be used; Diagnostic explains why.
type Solution[T int | float64] struct {
	Value      T           `json:"value"                yaml:"value"`
	Feasible   bool        `json:"feasible"             yaml:"feasible"`
	Diagnostic *Diagnostic `json:"diagnostic,omitempty" yaml:"diagnostic,omitempty"`
}

// Get returns the value and whether it is a genuine result.
func (s Solution[T]) Get() (T, bool) {
	return s.Value, s.Feasible
}

func solved[T int | float64](value T) Solution[T] {
	return Solution[T]{Value: value, Feasible: true}
}

func infeasible[T int | float64](diag *Diagnostic) Solution[T] {
	return Solution[T]{Diagnostic: diag}
}

// Param is a named parameter value as supplied to a solver.
type Param struct {
	Name  string `json:"name"  yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Diagnostic describes an infeasible request: what was attempted, which
// constraint failed, and what the caller can change.
type Diagnostic struct {
	Op         string  `json:"op"         yaml:"op"`
	Params     []Param `json:"params"     yaml:"params"`
	Constraint string  `json:"constraint" yaml:"constraint"`
	Remedy     string  `json:"remedy"     yaml:"remedy"`
}

// String renders the diagnostic as a single human-readable line.
func (d *Diagnostic) String() string {
	if d == nil {
		return ""
	}

	params := make([]string, 0, len(d.Params))
	for _, p := range d.Params {
		params = append(params, p.Name+"="+p.Value)
	}

	return fmt.Sprintf("%s: no solution for %s: %s; %s",
		d.Op, strings.Join(params, " "), d.Constraint, d.Remedy)
}

func intParam(name string, v int) Param {
	return Param{Name: name, Value: strconv.Itoa(v)}
}

func floatParam(name string, v float64) Param {
	return Param{Name: name, Value: strconv.FormatFloat(v, 'g', -1, 64)}
}

func boundParam(b fmt.Stringer) Param {
	return Param{Name: "bound", Value: b.String()}
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

// ftoa formats coverage values for diagnostics with six significant digits.
func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// Package maths provides the evaluators of the arithmetic helper nodes.
package maths

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/specialistvlad/filtergrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Arithmetic combines numberA and numberB with operation. Division by zero
// yields 0.
func Arithmetic(in map[string]string) (map[string]string, error) {
	a, b := parseNumber(in["numberA"]), parseNumber(in["numberB"])

	var result float64
	switch op := strings.TrimSpace(in["operation"]); op {
	case "", "+":
		result = a + b
	case "-":
		result = a - b
	case "*":
		result = a * b
	case "/":
		if b != 0 {
			result = a / b
		}
	default:
		return nil, fmt.Errorf("unsupported operation %q", op)
	}
	return map[string]string{"result": FormatNumber(result)}, nil
}

// Clamp limits number to [min, max]. The bounds are swapped when min > max;
// an empty bound is unbounded.
func Clamp(in map[string]string) (map[string]string, error) {
	num := parseNumber(in["number"])
	lo, hi := math.Inf(-1), math.Inf(1)
	if v, ok := optionalNumber(in["min"]); ok {
		lo = v
	}
	if v, ok := optionalNumber(in["max"]); ok {
		hi = v
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return map[string]string{"result": FormatNumber(min(max(num, lo), hi))}, nil
}

// Register registers the evaluators with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterEvaluator("arithmetic", Arithmetic)
	r.RegisterEvaluator("clamp", Clamp)
}

// FormatNumber renders a number in its shortest form.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseNumber reads a number, treating anything unparsable as 0.
func parseNumber(s string) float64 {
	v, _ := optionalNumber(s)
	return v
}

func optionalNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

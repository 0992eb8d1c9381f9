// Package inputs provides the evaluators of the value input nodes: named
// colors, literal numbers and seeded random numbers.
package inputs

import (
	"fmt"
	"math"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"

	"github.com/specialistvlad/filtergrid/internal/registry"
	"github.com/specialistvlad/filtergrid/modules/maths"
)

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Color resolves a CSS color name to its hex value. Hex colors pass through.
func Color(in map[string]string) (map[string]string, error) {
	name := strings.TrimSpace(in["name"])
	if hex, ok := namedColors[strings.ToLower(name)]; ok {
		return map[string]string{"result": hex}, nil
	}
	if hexColor.MatchString(name) {
		return map[string]string{"result": strings.ToLower(name)}, nil
	}
	return nil, fmt.Errorf("unknown color %q", name)
}

// Number passes its literal value through as a number.
func Number(in map[string]string) (map[string]string, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(in["value"]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", in["value"], err)
	}
	return map[string]string{"result": maths.FormatNumber(v)}, nil
}

// Random draws a number in [min, max) rounded down to precision decimals.
// The same seed always yields the same number.
func Random(in map[string]string) (map[string]string, error) {
	lo, hi := number(in["min"]), number(in["max"])
	if lo > hi {
		lo, hi = hi, lo
	}
	precision := max(int(number(in["precision"])), 0)
	seed := int64(number(in["seed"]))

	result := hi
	if lo != hi {
		rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>32|1))
		exp := math.Pow(10, float64(precision))
		result = math.Floor((rng.Float64()*(hi-lo)+lo)*exp) / exp
	}
	return map[string]string{"result": strconv.FormatFloat(result, 'f', precision, 64)}, nil
}

// Register registers the evaluators with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterEvaluator("color", Color)
	r.RegisterEvaluator("number", Number)
	r.RegisterEvaluator("random", Random)
}

func number(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}

package registry

import (
	"fmt"
	"log/slog"
)

// Evaluator computes the output attributes of an auxiliary node from its
// resolved inputs. The returned map is keyed by output attribute name.
type Evaluator func(inputs map[string]string) (map[string]string, error)

// RegisterEvaluator registers a Go function under an evaluator name used in
// manifests.
func (r *Registry) RegisterEvaluator(name string, fn Evaluator) {
	if _, exists := r.evaluators[name]; exists {
		panic(fmt.Sprintf("evaluator with name '%s' already registered", name))
	}
	slog.Debug("Registering evaluator.", "name", name)
	r.evaluators[name] = fn
}

// Evaluator returns the evaluator registered under name.
func (r *Registry) Evaluator(name string) (Evaluator, bool) {
	fn, ok := r.evaluators[name]
	return fn, ok
}

package compiler

import "fmt"

// CyclicGraphWarning flags a graph that may contain a cycle. Compilation
// still returns its best-effort output.
type CyclicGraphWarning struct {
	// Node names a node on the detected cycle. It is empty when the warning
	// comes from the leaf heuristic alone.
	Node string
}

func (w *CyclicGraphWarning) Error() string {
	if w.Node == "" {
		return "no primitive is a leaf while results are connected: the graph may contain a cycle"
	}
	return fmt.Sprintf("cyclic reference detected involving node %q", w.Node)
}

// Package engine is the command boundary of the node graph. It owns the node
// and link stores of one graph and applies every mutation under a single
// writer lock: creating, editing, repositioning and deleting nodes, linking
// and unlinking ports, and compiling.
//
// After every mutation the engine sweeps the graph: attributes hidden by
// their conditions lose their incoming links until a fixed point is reached,
// and matrix values are re-laid out on their current dimensions. Commands
// return a fresh State snapshot; the engine never renders.
package engine

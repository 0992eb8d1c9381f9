// Package schema defines the static vocabulary of the node graph: attribute
// types, their kinds, the specs that bind them to node types, and the
// conditions that control attribute visibility.
//
// Every value-domain decision in the engine switches on Kind, a sealed
// variant. The compiler, resolver and loader all match it exhaustively.
package schema

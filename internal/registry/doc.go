// Package registry holds the read-only table of node types that every engine
// instance is built on.
//
// The Registry maps type refs used in manifests (e.g., "feOffset") to their
// parsed, format-agnostic definitions, and maps evaluator names to the Go
// functions that compute the outputs of auxiliary nodes. Evaluators are
// contributed by modules through the Module interface.
//
// During application startup, the registry is populated and then validated to
// ensure that the Go evaluators and the manifests are in sync, preventing a
// wide class of runtime errors.
package registry

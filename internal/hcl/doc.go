// Package hcl provides the concrete HCL implementation of config.Loader.
// It parses `attribute_type` and `node` manifest blocks, evaluates their
// defaults as cty values, and translates kind expressions such as
// `enum("a", "b")` or `matrix(5, 4)` into schema kinds.
package hcl

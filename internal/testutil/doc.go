// Package testutil holds helpers shared by tests that build graphs over the
// built-in schema.
package testutil

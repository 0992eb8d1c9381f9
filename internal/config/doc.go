// Package config defines the format-agnostic schema model produced by
// configuration loaders, and the Loader interface they implement.
//
// The engine never reads files itself. A concrete loader (see internal/hcl)
// parses manifests and translates them into a Model, which the registry then
// indexes and validates.
package config

// Package app contains the core application logic. It wires the schema
// loader, registry, engine and compiler together and drives a single run,
// decoupled from any specific entrypoint like a CLI or server.
package app

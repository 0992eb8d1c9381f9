// Package inmemorylinks provides a thread-safe, in-memory implementation of
// the linkstore.Store interface.
package inmemorylinks

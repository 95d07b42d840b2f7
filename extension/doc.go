// Package extension provides run-time registries for the specialist roster
// and for user-defined Go types (for example custom agent payloads).
//
// The registries are normally modified through the public APIs under the
// root agents package, therefore most applications do not need to import
// this package directly.
package extension

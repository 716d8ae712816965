// Package config defines the format-agnostic model of an artifact graph,
// along with the Loader interface for reading it from a concrete source
// format.
//
// The `config.Model` is the single source of truth for the registry's
// compile step. Concrete loader implementations, such as for HCL, are
// provided in separate packages.
package config

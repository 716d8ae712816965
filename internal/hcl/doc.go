// Package hcl provides the concrete HCL implementation of the configuration
// loading interface defined in the `config` package. It is responsible for
// file discovery, parsing, HCL-to-model translation, and compiling condition
// expressions into predicates the engine can evaluate.
package hcl

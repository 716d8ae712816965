// Package registry provides the central glue between graph configuration
// and Go code.
//
// The Registry stores mappings between the handler names referenced by
// builder blocks and the compiled Go functions that implement them. During
// application startup the registry is populated by the bundled modules and
// then validated against the loaded graph, so that a mismatch between the
// two fails before anything runs. Compile then binds each builder block to
// its handler and yields the engine's inputs.
package registry

// Package database provides access to model files: SQLite databases
// holding the precomputed modal composites of one parametric model, as
// written by the upstream eigenvalue computation.
//
// A model file contains two tables:
//   - modal_composites: one row per strip length / base thickness pair
//   - column_metadata: the unit and human-readable description of every
//     modal_composites column
//
// ModelDB is the concrete implementation of the resolver's Loader
// contract. The tool itself only reads model files; the create/insert
// half of the API exists for fixture construction and for tooling that
// repackages upstream results.
package database

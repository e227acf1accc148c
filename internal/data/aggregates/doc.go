// Package aggregates implements the write boundaries declared in
// internal/domain/aggregates.
//
// Implementations compose table repos from internal/data/repos, own their
// transactions, and translate storage failures into *domainagg.Error codes.
package aggregates

// Package aggregates defines the write boundaries where progress invariants are
// enforced atomically, plus the error vocabulary they fail with.
package aggregates

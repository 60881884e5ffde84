// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

// ErrKind enumerates the error kinds spec.md §7 requires the loader and
// solver to distinguish. These are kinds, not Go error types: a failure of
// one of these kinds is returned as a *TaggedError built by Tag, and the
// caller reads the kind from its Kind field.
type ErrKind string

const (
	ErrBadProblemFile       ErrKind = "bad-problem-file"
	ErrBadNodeFile          ErrKind = "bad-node-file"
	ErrBadElementFile       ErrKind = "bad-element-file"
	ErrBadPbcFile           ErrKind = "bad-pbc-file"
	ErrBadEdgeFile          ErrKind = "bad-edge-file"
	ErrMissingMaterial      ErrKind = "missing-material-properties"
	ErrLaminationInAC       ErrKind = "on-edge-lamination-in-ac"
	ErrIncompatiblePrevSoln ErrKind = "incompatible-previous-solution"
	ErrAllocationFailure    ErrKind = "allocation-failure"
	ErrSolverNonconvergence ErrKind = "inner-solver-nonconvergence"
)

// TaggedError pairs an ErrKind with the underlying message so that callers
// (in particular the root main.go) can map it to the documented exit status
// without parsing strings.
type TaggedError struct {
	Kind ErrKind
	Msg  string
}

func (e *TaggedError) Error() string { return string(e.Kind) + ": " + e.Msg }

// Tag wraps msg with kind.
func Tag(kind ErrKind, msg string) error {
	return &TaggedError{Kind: kind, Msg: msg}
}

// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sparse implements the skyline/linked-row sparse linear systems
// used by the finite-element solver: a real symmetric engine (BigLinProb)
// and a complex symmetric/Hermitian engine (BigComplexLinProb). Both store
// only the upper triangle (column >= row) of a row-major singly-linked list
// of nonzero entries, and both solve their system with a preconditioned
// (bi-)conjugate-gradient iteration rather than a direct factorization.
package sparse

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// entry is one nonzero slot in a row's linked list, held in the arena below.
type entry struct {
	col  int
	val  float64
	next int // index into BigLinProb.arena, or -1
}

// BigLinProb is the real symmetric sparse linear system: M V = B, stored as
// a row-major linked list of (column, value) pairs with column >= row
// (upper triangle, diagonal included). Rows are singly-linked lists backed
// by a single growable arena, per the "pointer graphs replaced by arena +
// index" design note: row heads index into the arena, and a per-row
// insertion just grows the arena rather than allocating a node.
type BigLinProb struct {
	N  int // total unknowns (mesh nodes + conductor/circuit unknowns)
	M  int // number of mesh nodes; N-M is the number of circuit unknowns
	Bw int // bandwidth hint used to bound SetValue's row scan

	head  []int   // row head index into arena, or -1 if row is empty
	arena []entry // flat entry storage

	B []float64 // right-hand side
	V []float64 // solution vector

	// CG scratch vectors, owned by the engine per spec.md §3 Lifecycles.
	P, R, U, Z []float64

	Precision float64 // ||r||/||b|| stopping tolerance, default 1e-8
}

// Create allocates a BigLinProb for n unknowns with bandwidth hint bw.
func Create(n, bw int) *BigLinProb {
	return CreateWithConductors(n, bw, n)
}

// CreateWithConductors allocates a BigLinProb for n total unknowns, m of
// which are mesh-node unknowns (the remaining n-m are circuit/conductor
// unknowns folded in per spec.md §4.4 "Conductor redirection").
func CreateWithConductors(n, bw, m int) *BigLinProb {
	o := new(BigLinProb)
	o.N = n
	o.M = m
	o.Bw = bw
	o.head = make([]int, n)
	for i := range o.head {
		o.head[i] = -1
	}
	o.arena = make([]entry, 0, n*(bw+1))
	o.B = make([]float64, n)
	o.V = make([]float64, n)
	o.P = make([]float64, n)
	o.R = make([]float64, n)
	o.U = make([]float64, n)
	o.Z = make([]float64, n)
	o.Precision = 1e-8
	return o
}

// normalize returns (row,col) with row <= col, swapping if necessary, per
// spec.md §4.1: "caller supplies either (i,j) or (j,i), whichever satisfies
// i <= j".
func normalize(i, j int) (int, int) {
	if i > j {
		return j, i
	}
	return i, j
}

// findOrInsert returns the arena index of entry (row,col), inserting a new
// zero-valued entry in sorted-by-column order if it does not exist yet.
func (o *BigLinProb) findOrInsert(row, col int) int {
	prev := -1
	cur := o.head[row]
	for cur != -1 {
		e := &o.arena[cur]
		if e.col == col {
			return cur
		}
		if e.col > col {
			break
		}
		prev = cur
		cur = e.next
	}
	// insert new entry before 'cur' (or at end)
	o.arena = append(o.arena, entry{col: col, val: 0, next: cur})
	idx := len(o.arena) - 1
	if prev == -1 {
		o.head[row] = idx
	} else {
		o.arena[prev].next = idx
	}
	return idx
}

// find returns the arena index of entry (row,col), or -1 if absent.
func (o *BigLinProb) find(row, col int) int {
	cur := o.head[row]
	for cur != -1 {
		e := &o.arena[cur]
		if e.col == col {
			return cur
		}
		if e.col > col {
			return -1
		}
		cur = e.next
	}
	return -1
}

// Put accumulates value into M[i,j] (== M[j,i]); element assembly adds
// contributions from every touching element, so Put is a += not a set.
func (o *BigLinProb) Put(value float64, i, j int) {
	row, col := normalize(i, j)
	idx := o.findOrInsert(row, col)
	o.arena[idx].val += value
}

// Get returns M[i,j], or 0 if the slot was never touched.
func (o *BigLinProb) Get(i, j int) float64 {
	row, col := normalize(i, j)
	idx := o.find(row, col)
	if idx == -1 {
		return 0
	}
	return o.arena[idx].val
}

// Wipe zeros every stored value (and B) without deallocating the arena,
// so the next outer-loop iteration reassembles into the same footprint.
func (o *BigLinProb) Wipe() {
	for i := range o.arena {
		o.arena[i].val = 0
	}
	la.VecFill(o.B, 0)
}

// SetValue forces node i to a Dirichlet value, preserving symmetry: for
// every other row r referencing column i, M[r,i]*value is subtracted from
// B[r] and M[r,i] is cleared; row i is then replaced by the identity row
// with B[i]=value. Per spec.md §4.1 the search for "every other row" is
// bounded by the bandwidth hint: only rows in [i-Bw, i-1] can hold a
// lower-triangle reference to column i (stored as (r,i) with r<i); rows
// r>i that reference column i appear as stored entries (i,r) in row i
// itself and are found without any extra scan.
func (o *BigLinProb) SetValue(i int, value float64) {
	lo := i - o.Bw
	if lo < 0 {
		lo = 0
	}
	for r := lo; r < i; r++ {
		idx := o.find(r, i)
		if idx != -1 && o.arena[idx].val != 0 {
			o.B[r] -= o.arena[idx].val * value
			o.arena[idx].val = 0
		}
	}
	cur := o.head[i]
	for cur != -1 {
		e := &o.arena[cur]
		if e.col != i {
			o.B[e.col] -= e.val * value
			e.val = 0
		}
		cur = e.next
	}
	diag := o.findOrInsert(i, i)
	o.arena[diag].val = 1
	o.B[i] = value
}

// addSymmetric accumulates value into M[r,c] honoring the upper-triangle
// storage convention, used internally by Periodicity/AntiPeriodicity.
func (o *BigLinProb) addSymmetric(r, c int, value float64) {
	if value == 0 {
		return
	}
	o.Put(value, r, c)
}

// foldColumnInto merges every occurrence of column j into column i across
// the whole matrix, honoring the symmetric-storage convention (entries
// with row<j live in their own row at column j; entries with row>=j live
// in row j itself), then zeroes the folded slots.
func (o *BigLinProb) foldColumnInto(i, j int) {
	for r := 0; r < j; r++ {
		idx := o.find(r, j)
		if idx != -1 && o.arena[idx].val != 0 {
			o.addSymmetric(r, i, o.arena[idx].val)
			o.arena[idx].val = 0
		}
	}
	cur := o.head[j]
	for cur != -1 {
		e := &o.arena[cur]
		if e.val != 0 {
			if e.col == j {
				o.addSymmetric(i, i, e.val)
			} else {
				o.addSymmetric(e.col, i, e.val)
			}
		}
		cur = e.next
	}
}

// clearRow zeros every stored value in row i (columns are kept so the
// arena slot can be reused, matching the "no deallocation" Wipe contract).
func (o *BigLinProb) clearRow(i int) {
	cur := o.head[i]
	for cur != -1 {
		o.arena[cur].val = 0
		cur = o.arena[cur].next
	}
}

// Periodicity couples nodes i and j (i<j) as V[i]=V[j]: column j is folded
// into column i, row j is folded into row i, and row j is then overwritten
// to read V[j]-V[i]=0. Periodicity must be applied after all element
// assembly, as the last pre-solve step (spec.md §4.3).
func (o *BigLinProb) Periodicity(i, j int) {
	if i == j {
		return
	}
	if i > j {
		i, j = j, i
	}
	o.foldColumnInto(i, j)
	o.B[i] += o.B[j]
	o.clearRow(j)
	o.B[j] = 0
	jj := o.findOrInsert(j, j)
	o.arena[jj].val = 1
	o.addSymmetric(j, i, -1)
}

// AntiPeriodicity couples nodes i and j as V[i]=-V[j]; identical bookkeeping
// to Periodicity except the negative-signed folding and the +1 coupling on
// row j.
func (o *BigLinProb) AntiPeriodicity(i, j int) {
	if i == j {
		return
	}
	if i > j {
		i, j = j, i
	}
	o.foldColumnIntoSigned(i, j, -1)
	o.B[i] -= o.B[j]
	o.clearRow(j)
	o.B[j] = 0
	jj := o.findOrInsert(j, j)
	o.arena[jj].val = 1
	o.addSymmetric(j, i, 1)
}

// foldColumnIntoSigned is foldColumnInto with a sign applied to every
// folded contribution, used by AntiPeriodicity (V[i]=-V[j] flips the sign
// of every coupling term that crosses between the two DOFs).
func (o *BigLinProb) foldColumnIntoSigned(i, j int, sign float64) {
	for r := 0; r < j; r++ {
		idx := o.find(r, j)
		if idx != -1 && o.arena[idx].val != 0 {
			o.addSymmetric(r, i, sign*o.arena[idx].val)
			o.arena[idx].val = 0
		}
	}
	cur := o.head[j]
	for cur != -1 {
		e := &o.arena[cur]
		if e.val != 0 {
			if e.col == j {
				o.addSymmetric(i, i, sign*e.val)
			} else {
				o.addSymmetric(e.col, i, sign*e.val)
			}
		}
		cur = e.next
	}
}

// Mult computes Y = M*X, exploiting symmetry by walking only the stored
// upper triangle and mirroring off-diagonal contributions.
func (o *BigLinProb) Mult(X, Y []float64) {
	la.VecFill(Y, 0)
	for r := 0; r < o.N; r++ {
		cur := o.head[r]
		for cur != -1 {
			e := &o.arena[cur]
			Y[r] += e.val * X[e.col]
			if e.col != r {
				Y[e.col] += e.val * X[r]
			}
			cur = e.next
		}
	}
}

// diag returns the stored diagonal value of row i, or 0.
func (o *BigLinProb) diag(i int) float64 {
	idx := o.find(i, i)
	if idx == -1 {
		return 0
	}
	return o.arena[idx].val
}

// MultPC applies the symmetric Gauss-Seidel preconditioner built from the
// currently stored matrix: forward-solve (D+L)z=X, then backward-solve
// (D+U)y=Dz, where L and U are the strict lower/upper triangles implied by
// the symmetric upper-triangle storage.
func (o *BigLinProb) MultPC(X, Y []float64) {
	n := o.N
	z := make([]float64, n)
	rhs := make([]float64, n)
	copy(rhs, X)
	for r := 0; r < n; r++ {
		d := o.diag(r)
		if d == 0 {
			d = 1
		}
		z[r] = rhs[r] / d
		cur := o.head[r]
		for cur != -1 {
			e := &o.arena[cur]
			if e.col > r {
				rhs[e.col] -= e.val * z[r]
			}
			cur = e.next
		}
	}
	rhs2 := make([]float64, n)
	for i := 0; i < n; i++ {
		rhs2[i] = o.diag(i) * z[i]
		if o.diag(i) == 0 {
			rhs2[i] = z[i]
		}
	}
	for r := n - 1; r >= 0; r-- {
		d := o.diag(r)
		if d == 0 {
			d = 1
		}
		sum := rhs2[r]
		cur := o.head[r]
		for cur != -1 {
			e := &o.arena[cur]
			if e.col > r {
				sum -= e.val * Y[e.col]
			}
			cur = e.next
		}
		Y[r] = sum / d
	}
}

// Solve runs preconditioned conjugate gradient on M V = B, terminating when
// ||r||/||b|| < precision. precision overrides o.Precision for this call if
// positive, implementing the outer loop's adaptively-tightened inner
// precision (spec.md §4.1, §4.7). ok is false on non-convergence within
// maxIt iterations (spec.md §7 inner-solver-nonconvergence).
func (o *BigLinProb) Solve(precision float64, maxIt int) (ok bool, nIter int) {
	if precision <= 0 {
		precision = o.Precision
	}
	if maxIt <= 0 {
		maxIt = 4 * o.N
	}
	n := o.N
	bnorm := la.VecNorm(o.B)
	if bnorm == 0 {
		bnorm = 1
	}
	la.VecFill(o.V, 0) // Wipe leaves V at the caller's previous iterate; explicit reset here for a cold solve
	o.Mult(o.V, o.U)
	for i := 0; i < n; i++ {
		o.R[i] = o.B[i] - o.U[i]
	}
	o.MultPC(o.R, o.Z)
	copy(o.P, o.Z)
	rho := dot(o.R, o.Z)
	for it := 0; it < maxIt; it++ {
		if la.VecNorm(o.R)/bnorm < precision {
			return true, it
		}
		o.Mult(o.P, o.U)
		alpha := rho / dot(o.P, o.U)
		if math.IsNaN(alpha) || math.IsInf(alpha, 0) {
			chk.Err("sparse: CG breakdown at iteration %d\n", it)
			return false, it
		}
		for i := 0; i < n; i++ {
			o.V[i] += alpha * o.P[i]
			o.R[i] -= alpha * o.U[i]
		}
		if la.VecNorm(o.R)/bnorm < precision {
			return true, it + 1
		}
		o.MultPC(o.R, o.Z)
		rhoNew := dot(o.R, o.Z)
		beta := rhoNew / rho
		for i := 0; i < n; i++ {
			o.P[i] = o.Z[i] + beta*o.P[i]
		}
		rho = rhoNew
	}
	return false, maxIt
}

// dot is the plain Euclidean inner product; gosl/la does not expose a
// dot-product helper, so this small loop stays a direct loop rather than a
// wrapper around something that does not exist in the dependency.
func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

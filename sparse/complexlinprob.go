// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparse

import (
	"math"
	"math/cmplx"
)

// Which selects one of the four matrices a BigComplexLinProb can hold
// alongside its RHS, per spec.md §4.1 and §4.5: the standard matrix that
// absorbs the real-symmetric remainder, plus three Newton-mode auxiliaries
// generated from the directional derivative of the nonlinear B-H relation.
type Which int

const (
	Standard     Which = iota // primary matrix, solved against; complex-symmetric storage
	Hermitian                 // Mh: M[j,i] = conj(M[i,j])
	SymComplex                // Ms: M[j,i] = M[i,j] (plain mirror, like Standard)
	AntiHermit                // Ma: M[j,i] = -conj(M[i,j])
)

// centry is one nonzero slot in a row's linked list for the complex engine.
type centry struct {
	col  int
	val  [4]complex128 // indexed by Which
	next int
}

// BigComplexLinProb is the complex sparse linear system used for
// time-harmonic (AC) magnetics. It stores, per slot, up to four matrix
// values (Standard/Hermitian/SymComplex/AntiHermit) sharing the same
// sparsity pattern and row-linked arena layout as BigLinProb. Because the
// assembled operator is complex-symmetric rather than Hermitian once the
// Newton-mode auxiliaries are folded into the RHS, the iterative solve
// uses bi-conjugate gradient (BiCGSTAB) instead of ordinary CG.
type BigComplexLinProb struct {
	N  int
	M  int
	Bw int

	head  []int
	arena []centry

	B []complex128
	V []complex128

	R, Rhat, P, U, S, T, Z []complex128

	Precision float64
}

// CreateComplex allocates a BigComplexLinProb for n unknowns with bandwidth bw.
func CreateComplex(n, bw int) *BigComplexLinProb {
	return CreateComplexWithConductors(n, bw, n)
}

// CreateComplexWithConductors is the complex counterpart of
// CreateWithConductors.
func CreateComplexWithConductors(n, bw, m int) *BigComplexLinProb {
	o := new(BigComplexLinProb)
	o.N, o.M, o.Bw = n, m, bw
	o.head = make([]int, n)
	for i := range o.head {
		o.head[i] = -1
	}
	o.arena = make([]centry, 0, n*(bw+1))
	o.B = make([]complex128, n)
	o.V = make([]complex128, n)
	o.R = make([]complex128, n)
	o.Rhat = make([]complex128, n)
	o.P = make([]complex128, n)
	o.U = make([]complex128, n)
	o.S = make([]complex128, n)
	o.T = make([]complex128, n)
	o.Z = make([]complex128, n)
	o.Precision = 1e-8
	return o
}

func (o *BigComplexLinProb) findOrInsert(row, col int) int {
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
	o.arena = append(o.arena, centry{col: col, next: cur})
	idx := len(o.arena) - 1
	if prev == -1 {
		o.head[row] = idx
	} else {
		o.arena[prev].next = idx
	}
	return idx
}

func (o *BigComplexLinProb) find(row, col int) int {
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

// Put accumulates value into matrix `which` at (i,j) (== its symmetric or
// Hermitian mirror at (j,i), depending on which), i<=j not required of the
// caller.
func (o *BigComplexLinProb) Put(which Which, value complex128, i, j int) {
	if i > j {
		switch which {
		case Hermitian:
			value = cmplx.Conj(value)
		case AntiHermit:
			value = -cmplx.Conj(value)
		}
	}
	row, col := normalize(i, j)
	idx := o.findOrInsert(row, col)
	o.arena[idx].val[which] += value
}

// Get returns matrix `which` at (i,j), applying the mirror rule implied by
// which when i>j.
func (o *BigComplexLinProb) Get(which Which, i, j int) complex128 {
	row, col := normalize(i, j)
	idx := o.find(row, col)
	if idx == -1 {
		return 0
	}
	v := o.arena[idx].val[which]
	if i > j {
		switch which {
		case Hermitian:
			return cmplx.Conj(v)
		case AntiHermit:
			return -cmplx.Conj(v)
		default:
			return v
		}
	}
	return v
}

// Wipe zeros every stored value (all four matrices) and the RHS.
func (o *BigComplexLinProb) Wipe() {
	for i := range o.arena {
		o.arena[i].val = [4]complex128{}
	}
	for i := range o.B {
		o.B[i] = 0
	}
}

// SetValue forces unknown i to a (possibly complex) Dirichlet value in the
// Standard matrix, mirroring BigLinProb.SetValue; the Newton-mode
// auxiliaries are not touched since by the time SetValue runs they have
// already been folded into B by the assembler.
func (o *BigComplexLinProb) SetValue(i int, value complex128) {
	lo := i - o.Bw
	if lo < 0 {
		lo = 0
	}
	for r := lo; r < i; r++ {
		idx := o.find(r, i)
		if idx != -1 && o.arena[idx].val[Standard] != 0 {
			o.B[r] -= o.arena[idx].val[Standard] * value
			o.arena[idx].val[Standard] = 0
		}
	}
	cur := o.head[i]
	for cur != -1 {
		e := &o.arena[cur]
		if e.col != i {
			o.B[e.col] -= e.val[Standard] * value
			e.val[Standard] = 0
		}
		cur = e.next
	}
	diag := o.findOrInsert(i, i)
	o.arena[diag].val[Standard] = 1
	o.B[i] = value
}

func (o *BigComplexLinProb) addStandard(r, c int, v complex128) {
	if v == 0 {
		return
	}
	o.Put(Standard, v, r, c)
}

// Periodicity couples unknowns i and j (V[i]=V[j]) in the Standard matrix,
// same bookkeeping as BigLinProb.Periodicity.
func (o *BigComplexLinProb) Periodicity(i, j int) {
	if i == j {
		return
	}
	if i > j {
		i, j = j, i
	}
	for r := 0; r < j; r++ {
		idx := o.find(r, j)
		if idx != -1 && o.arena[idx].val[Standard] != 0 {
			o.addStandard(r, i, o.arena[idx].val[Standard])
			o.arena[idx].val[Standard] = 0
		}
	}
	cur := o.head[j]
	for cur != -1 {
		e := &o.arena[cur]
		if e.val[Standard] != 0 {
			if e.col == j {
				o.addStandard(i, i, e.val[Standard])
			} else {
				o.addStandard(e.col, i, e.val[Standard])
			}
		}
		cur = e.next
	}
	o.B[i] += o.B[j]
	cur = o.head[j]
	for cur != -1 {
		o.arena[cur].val[Standard] = 0
		cur = o.arena[cur].next
	}
	o.B[j] = 0
	jj := o.findOrInsert(j, j)
	o.arena[jj].val[Standard] = 1
	o.addStandard(j, i, -1)
}

// AntiPeriodicity couples unknowns i and j as V[i]=-V[j], the complex
// counterpart of BigLinProb.AntiPeriodicity: identical bookkeeping to
// Periodicity except the negative-signed folding and the +1 coupling on
// row j.
func (o *BigComplexLinProb) AntiPeriodicity(i, j int) {
	if i == j {
		return
	}
	if i > j {
		i, j = j, i
	}
	for r := 0; r < j; r++ {
		idx := o.find(r, j)
		if idx != -1 && o.arena[idx].val[Standard] != 0 {
			o.addStandard(r, i, -o.arena[idx].val[Standard])
			o.arena[idx].val[Standard] = 0
		}
	}
	cur := o.head[j]
	for cur != -1 {
		e := &o.arena[cur]
		if e.val[Standard] != 0 {
			if e.col == j {
				o.addStandard(i, i, -e.val[Standard])
			} else {
				o.addStandard(e.col, i, -e.val[Standard])
			}
		}
		cur = e.next
	}
	o.B[i] -= o.B[j]
	cur = o.head[j]
	for cur != -1 {
		o.arena[cur].val[Standard] = 0
		cur = o.arena[cur].next
	}
	o.B[j] = 0
	jj := o.findOrInsert(j, j)
	o.arena[jj].val[Standard] = 1
	o.addStandard(j, i, 1)
}

// Mult computes Y = Standard*X, exploiting the complex-symmetric storage
// (M[j,i]=M[i,j], no conjugation) by mirroring stored upper-triangle
// entries.
func (o *BigComplexLinProb) Mult(X, Y []complex128) {
	for i := range Y {
		Y[i] = 0
	}
	for r := 0; r < o.N; r++ {
		cur := o.head[r]
		for cur != -1 {
			e := &o.arena[cur]
			v := e.val[Standard]
			Y[r] += v * X[e.col]
			if e.col != r {
				Y[e.col] += v * X[r]
			}
			cur = e.next
		}
	}
}

func (o *BigComplexLinProb) diag() []complex128 {
	d := make([]complex128, o.N)
	for i := 0; i < o.N; i++ {
		idx := o.find(i, i)
		if idx != -1 {
			d[i] = o.arena[idx].val[Standard]
		}
	}
	return d
}

// MultPC applies a complex symmetric Gauss-Seidel preconditioner built from
// the Standard matrix, same forward/backward-sweep structure as
// BigLinProb.MultPC.
func (o *BigComplexLinProb) MultPC(X, Y []complex128) {
	n := o.N
	d := o.diag()
	z := make([]complex128, n)
	rhs := make([]complex128, n)
	copy(rhs, X)
	for r := 0; r < n; r++ {
		dd := d[r]
		if dd == 0 {
			dd = 1
		}
		z[r] = rhs[r] / dd
		cur := o.head[r]
		for cur != -1 {
			e := &o.arena[cur]
			if e.col > r {
				rhs[e.col] -= e.val[Standard] * z[r]
			}
			cur = e.next
		}
	}
	rhs2 := make([]complex128, n)
	for i := 0; i < n; i++ {
		dd := d[i]
		if dd == 0 {
			dd = 1
		}
		rhs2[i] = dd * z[i]
	}
	for r := n - 1; r >= 0; r-- {
		dd := d[r]
		if dd == 0 {
			dd = 1
		}
		sum := rhs2[r]
		cur := o.head[r]
		for cur != -1 {
			e := &o.arena[cur]
			if e.col > r {
				sum -= e.val[Standard] * Y[e.col]
			}
			cur = e.next
		}
		Y[r] = sum / dd
	}
}

// Solve runs a preconditioned BiCGSTAB iteration on Standard*V = B. The
// complex-symmetric (non-Hermitian) operator that results once Newton-mode
// auxiliaries have been folded into B rules out ordinary CG, which assumes
// a self-adjoint operator under the conjugate inner product; BiCGSTAB does
// not.
func (o *BigComplexLinProb) Solve(precision float64, maxIt int) (ok bool, nIter int) {
	if precision <= 0 {
		precision = o.Precision
	}
	if maxIt <= 0 {
		maxIt = 4 * o.N
	}
	n := o.N
	for i := range o.V {
		o.V[i] = 0
	}
	bnorm := cnorm(o.B)
	if bnorm == 0 {
		bnorm = 1
	}
	o.Mult(o.V, o.U)
	for i := 0; i < n; i++ {
		o.R[i] = o.B[i] - o.U[i]
		o.Rhat[i] = o.R[i]
		o.P[i] = 0
	}
	rho, alpha, omega := complex128(1), complex128(1), complex128(1)
	v := make([]complex128, n)
	y := make([]complex128, n)
	s := make([]complex128, n)
	z2 := make([]complex128, n)
	t := make([]complex128, n)
	for it := 0; it < maxIt; it++ {
		if cnorm(o.R)/bnorm < precision {
			return true, it
		}
		rhoNew := cdot(o.Rhat, o.R)
		if rhoNew == 0 {
			return false, it
		}
		beta := (rhoNew / rho) * (alpha / omega)
		for i := 0; i < n; i++ {
			o.P[i] = o.R[i] + beta*(o.P[i]-omega*v[i])
		}
		o.MultPC(o.P, y)
		o.Mult(y, v)
		alpha = rhoNew / cdot(o.Rhat, v)
		for i := 0; i < n; i++ {
			s[i] = o.R[i] - alpha*v[i]
		}
		if cnorm(s)/bnorm < precision {
			for i := 0; i < n; i++ {
				o.V[i] += alpha * y[i]
			}
			return true, it + 1
		}
		o.MultPC(s, z2)
		o.Mult(z2, t)
		omega = cdot(t, s) / cdot(t, t)
		for i := 0; i < n; i++ {
			o.V[i] += alpha*y[i] + omega*z2[i]
			o.R[i] = s[i] - omega*t[i]
		}
		rho = rhoNew
	}
	return false, maxIt
}

func cnorm(v []complex128) float64 {
	s := 0.0
	for _, x := range v {
		s += real(x)*real(x) + imag(x)*imag(x)
	}
	return math.Sqrt(s)
}

func cdot(a, b []complex128) complex128 {
	s := complex128(0)
	for i := range a {
		s += cmplx.Conj(a[i]) * b[i]
	}
	return s
}

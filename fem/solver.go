// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"fmt"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/femag/bh"
	"github.com/cpmech/femag/ele"
	"github.com/cpmech/femag/inp"
)

// Result is what a completed Solve hands back to the caller (main.go,
// out/): the Domain's final Solution plus the outer loop's own bookkeeping,
// grounded on the teacher's Summary (fem/summary.go) narrowed from a
// per-time-step convergence log down to the single number this solver's
// steady-state outer loop actually produces.
type Result struct {
	Iterations int
	Converged  bool
	Residual   float64 // ||V-V_prev||/||V|| over the final iteration (spec.md §4.7)
}

// elementB returns the magnitude of the flux-density-like gradient field
// |∇A| for a real-valued scalar solution: dA/dx = ΣAᵢBᵢ/(2·Area),
// dA/dy = ΣAᵢCᵢ/(2·Area), same shape-function gradient the stiffness
// assembly already uses. This is exact for the planar regime; for the
// axisymmetric regime the original solver instead works out B_r,B_z from
// A_z/r (StaticAxisymmetric's GetB), a refinement this implementation does
// not carry — the plain gradient magnitude is used as the reluctivity
// update's B in both geometries, which is the correct leading-order
// behavior away from the axis and a known simplification near it.
func elementB(mesh *inp.Mesh, ei int, g *ele.Geometry, a []float64) float64 {
	e := &mesh.Elems[ei]
	var dAdx, dAdy float64
	for i := 0; i < 3; i++ {
		dAdx += a[e.P[i]] * g.B[i]
		dAdy += a[e.P[i]] * g.C[i]
	}
	dAdx /= 2 * g.Area
	dAdy /= 2 * g.Area
	return math.Hypot(dAdx, dAdy)
}

func elementBComplex(mesh *inp.Mesh, ei int, g *ele.Geometry, a []complex128) float64 {
	e := &mesh.Elems[ei]
	var dAdx, dAdy complex128
	for i := 0; i < 3; i++ {
		dAdx += a[e.P[i]] * complex(g.B[i], 0)
		dAdy += a[e.P[i]] * complex(g.C[i], 0)
	}
	dAdx /= complex(2*g.Area, 0)
	dAdy /= complex(2*g.Area, 0)
	return math.Hypot(math.Hypot(real(dAdx), imag(dAdx)), math.Hypot(real(dAdy), imag(dAdy)))
}

// initElementMu seeds every element's Mu1/Mu2 from its material, linear or
// nonlinear, before the first outer-loop iteration: a linear material's
// reluctivity never changes, so it is computed once here rather than on
// every refresh pass. A nonlinear material starts from the flux density
// d.Sol implies when it already holds a solution for this mesh (one loaded
// by LoadPrevSolution), and from B=0 otherwise.
func initElementMu(d *Domain) {
	n := len(d.Mesh.Nodes)
	for ei := range d.Mesh.Elems {
		e := &d.Mesh.Elems[ei]
		b := &d.Blocks[e.Block]
		model := bh.GetModel(b)
		if model.Curve == nil {
			e.Mu1 = complex(model.Mu0Nu, 0)
			e.Mu2 = e.Mu1
			continue
		}
		B := 0.0
		g := ele.NewGeometry(d.Mesh, ei)
		switch {
		case len(d.Sol.Real) >= n:
			B = elementB(d.Mesh, ei, &g, d.Sol.Real)
		case len(d.Sol.Cplx) >= n:
			B = elementBComplex(d.Mesh, ei, &g, d.Sol.Cplx)
		}
		e.Mu1 = complex(bh.Reluctivity(model.Curve, B), 0)
		e.Mu2 = e.Mu1
	}
}

// refreshElementMu re-evaluates every nonlinear element's reluctivity from
// the B magnitude its current solution implies, and reports the largest
// relative change of Mu1 seen. The outer loops in this file do not use that
// value; they decide convergence on solutionResidual/complexResidual.
func refreshElementMu(d *Domain, bOf func(ei int) float64) float64 {
	newton := d.Problem.ACSolver == 1
	maxDelta := 0.0
	for ei := range d.Mesh.Elems {
		e := &d.Mesh.Elems[ei]
		b := &d.Blocks[e.Block]
		if !b.IsNonlinear() {
			continue
		}
		model := bh.GetModel(b)
		prev := real(e.Mu1)
		bh.UpdateElementMu(e, model.Curve, bOf(ei), newton)
		cur := real(e.Mu1)
		delta := math.Abs(cur - prev)
		if prev != 0 {
			delta /= math.Abs(prev)
		}
		if delta > maxDelta {
			maxDelta = delta
		}
	}
	return maxDelta
}

const maxOuterIterations = 50

// solutionResidual is spec.md §4.7's outer-loop convergence metric,
// ||V-V_prev||/||V||, used in place of the teacher's per-time-step energy
// norm since this solver has no time axis to norm over.
func solutionResidual(v, vPrev []float64) float64 {
	diff := make([]float64, len(v))
	for i := range v {
		diff[i] = v[i] - vPrev[i]
	}
	vnorm := la.VecNorm(v)
	if vnorm == 0 {
		return 0
	}
	return la.VecNorm(diff) / vnorm
}

// relaxSolution blends the just-solved V back toward V_prev in place, per
// spec.md §4.7's damping step: V := relax*V + (1-relax)*V_prev.
func relaxSolution(v, vPrev []float64, relax float64) {
	for i := range v {
		v[i] = relax*v[i] + (1-relax)*vPrev[i]
	}
}

// complexResidual and relaxSolutionComplex are solutionResidual/relaxSolution's
// phasor counterparts; gosl/la exposes no complex vector norm, so the norm is
// a direct loop here, same as sparse.cnorm's own unexported helper.
func complexResidual(v, vPrev []complex128) float64 {
	var num, den float64
	for i := range v {
		d := v[i] - vPrev[i]
		num += real(d)*real(d) + imag(d)*imag(d)
		den += real(v[i])*real(v[i]) + imag(v[i])*imag(v[i])
	}
	if den == 0 {
		return 0
	}
	return math.Sqrt(num / den)
}

func relaxSolutionComplex(v, vPrev []complex128, relax float64) {
	r := complex(relax, 0)
	for i := range v {
		v[i] = r*v[i] + (1-r)*vPrev[i]
	}
}

// tightenInnerPrecision is spec.md §4.1/§4.7's adaptive inner-solver
// tolerance: loose (coarse) while the outer iterate is still moving a lot,
// tightened toward the problem's own precision as it settles, and never
// tighter than the problem's precision itself. lastRes is 0 before the first
// outer residual exists, which collapses this to outerPrecision — exactly
// the teacher's original first-pass behavior.
func tightenInnerPrecision(outerPrecision, lastRes float64) float64 {
	t := 1e-3 * lastRes
	if t > 1e-4 {
		t = 1e-4
	}
	if t < outerPrecision {
		t = outerPrecision
	}
	return t
}

// SolveMagnetostatic runs the successive-approximation / Newton outer loop
// for the DC magnetics regime (spec.md §4.5-§4.7): assemble, solve at an
// adaptively tightened inner precision, re-evaluate every nonlinear
// element's reluctivity from the flux density the new solution implies,
// relax the solution back toward its previous iterate once iteration 5 has
// passed, and stop once the relative solution residual drops below 100x the
// problem's own precision. A purely linear problem (no block carries a B-H
// curve) converges after its first and only solve.
func SolveMagnetostatic(d *Domain) (*Result, error) {
	d.checkReady()
	initElementMu(d)
	linear := !d.hasNonlinearBlock()
	v := make([]float64, len(d.Mesh.Nodes))
	vPrev := make([]float64, len(d.Mesh.Nodes))
	relax := 1.0
	lastRes := 0.0
	for it := 0; it < maxOuterIterations; it++ {
		sys, err := d.allocRealSystem()
		if err != nil {
			return nil, err
		}
		ele.AssembleMagnetostatic(d.Mesh, d.Problem, d.Blocks, d.Labels, sys)
		applyPeriodicity(sys, d.Mesh)
		precision := tightenInnerPrecision(d.Problem.Precision, lastRes)
		ok, _ := sys.Solve(precision, 0)
		if !ok {
			return nil, inp.Tag(inp.ErrSolverNonconvergence, fmt.Sprintf("fem: linear solve failed to converge at outer iteration %d", it))
		}
		copy(v, sys.V)
		if linear {
			d.Sol.Real = v
			return &Result{Iterations: it + 1, Converged: true, Residual: lastRes}, nil
		}
		res := solutionResidual(v, vPrev)
		if it > 5 {
			if res > lastRes && relax > 0.1 {
				relax /= 2
			} else {
				relax += 0.1 * (1 - relax)
			}
			relaxSolution(v, vPrev, relax)
		}
		lastRes = res
		if res < 100*d.Problem.Precision && it > 0 {
			linear = true
		}
		refreshElementMu(d, func(ei int) float64 {
			g := ele.NewGeometry(d.Mesh, ei)
			return elementB(d.Mesh, ei, &g, v)
		})
		copy(vPrev, v)
	}
	d.Sol.Real = v
	return nil, inp.Tag(inp.ErrSolverNonconvergence, fmt.Sprintf("fem: outer reluctivity loop did not converge in %d iterations", maxOuterIterations))
}

// SolveElectrostatic and SolveHeat are always linear (spec.md's electrostatic
// and heat-flow regimes carry no B-H table), so each is a single assemble-
// and-solve pass with no outer loop.
func SolveElectrostatic(d *Domain) (*Result, error) {
	d.checkReady()
	sys, err := d.allocRealSystem()
	if err != nil {
		return nil, err
	}
	ele.AssembleElectrostatic(d.Mesh, d.Problem, d.Blocks, d.Labels, sys)
	applyPeriodicity(sys, d.Mesh)
	ok, _ := sys.Solve(d.Problem.Precision, 0)
	if !ok {
		return nil, inp.Tag(inp.ErrSolverNonconvergence, "fem: electrostatic linear solve failed to converge")
	}
	d.Sol.Real = sys.V
	return &Result{Iterations: 1, Converged: true}, nil
}

func SolveHeat(d *Domain) (*Result, error) {
	d.checkReady()
	sys, err := d.allocRealSystem()
	if err != nil {
		return nil, err
	}
	ele.AssembleHeat(d.Mesh, d.Problem, d.Blocks, d.Labels, sys)
	applyPeriodicity(sys, d.Mesh)
	ok, _ := sys.Solve(d.Problem.Precision, 0)
	if !ok {
		return nil, inp.Tag(inp.ErrSolverNonconvergence, "fem: heat-flow linear solve failed to converge")
	}
	d.Sol.Real = sys.V
	return &Result{Iterations: 1, Converged: true}, nil
}

// SolveMagneticsAC runs the complex-valued counterpart of
// SolveMagnetostatic for the time-harmonic regime (spec.md §4.5-§4.7): same
// outer loop shape — adaptive inner precision, post-5 relaxation, residual
// convergence test — but every assemble/solve pass is complex and the
// reluctivity refresh uses the magnitude of the complex flux-density
// phasor. Grounded on the original solver's own harmonic2d.cpp outer loop
// (V_old/Relax), which this generalizes to the real DC regime as well.
func SolveMagneticsAC(d *Domain) (*Result, error) {
	d.checkReady()
	initElementMu(d)
	n := len(d.Mesh.Nodes) + len(d.ACConductorRow)
	linear := !d.hasNonlinearBlock()
	v := make([]complex128, n)
	vPrev := make([]complex128, n)
	relax := 1.0
	lastRes := 0.0
	for it := 0; it < maxOuterIterations; it++ {
		sys, err := d.allocComplexSystem()
		if err != nil {
			return nil, err
		}
		ele.AssembleMagneticsAC(d.Mesh, d.Problem, d.Blocks, d.Labels, d.ACConductorRow, sys)
		applyPeriodicityComplex(sys, d.Mesh)
		precision := tightenInnerPrecision(d.Problem.Precision, lastRes)
		ok, _ := sys.Solve(precision, 0)
		if !ok {
			return nil, inp.Tag(inp.ErrSolverNonconvergence, fmt.Sprintf("fem: complex linear solve failed to converge at outer iteration %d", it))
		}
		copy(v, sys.V)
		if linear {
			d.Sol.Cplx = v
			return &Result{Iterations: it + 1, Converged: true, Residual: lastRes}, nil
		}
		res := complexResidual(v, vPrev)
		if it > 5 {
			if res > lastRes && relax > 0.1 {
				relax /= 2
			} else {
				relax += 0.1 * (1 - relax)
			}
			relaxSolutionComplex(v, vPrev, relax)
		}
		lastRes = res
		if res < 100*d.Problem.Precision && it > 0 {
			linear = true
		}
		refreshElementMu(d, func(ei int) float64 {
			g := ele.NewGeometry(d.Mesh, ei)
			return elementBComplex(d.Mesh, ei, &g, v)
		})
		copy(vPrev, v)
	}
	d.Sol.Cplx = v
	return nil, inp.Tag(inp.ErrSolverNonconvergence, fmt.Sprintf("fem: outer reluctivity loop did not converge in %d iterations", maxOuterIterations))
}

// Solve dispatches on Problem.Format to the right regime-specific solver.
func Solve(d *Domain) (*Result, error) {
	switch {
	case d.Problem.IsACMagnetics():
		return SolveMagneticsAC(d)
	case d.Problem.Format == "magnetics_dc":
		return SolveMagnetostatic(d)
	case d.Problem.Format == "electrostatic":
		return SolveElectrostatic(d)
	case d.Problem.Format == "heat":
		return SolveHeat(d)
	default:
		return nil, chk.Err("fem: unknown problem format %q", d.Problem.Format)
	}
}

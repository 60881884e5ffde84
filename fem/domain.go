// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fem ties the loaded problem (inp), the renumbered mesh (renum),
// the per-element assemblers (ele) and the material models (bh) together
// into one Domain, and drives the outer nonlinear loop that repeatedly
// reassembles and resolves the linear system until the relative change of
// the solution between iterations drops below the convergence threshold.
package fem

import (
	"fmt"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/femag/ele"
	"github.com/cpmech/femag/inp"
	"github.com/cpmech/femag/renum"
	"github.com/cpmech/femag/sparse"
)

// Solution holds the nodal unknowns this solve produced: A_z, V or T for a
// real regime, or the complex phasor of A_z for the AC regime (the unused
// one of the two stays nil). Mirrors the teacher's own Domain.Sol, narrowed
// from its {u,p,λ} multi-field vector down to the single scalar/complex
// field every regime here actually has.
type Solution struct {
	Real []float64
	Cplx []complex128
}

// Domain holds the active problem, its (already Cuthill-McKee renumbered)
// mesh, and the scratch data the outer loop mutates each iteration: the
// reluctivity estimate stashed on every element (inp.Element.Mu1/Mu2) and
// the assembled linear system. Grounded on the teacher's Domain (fem/domain.go),
// trimmed to this solver's single-stage, single-field scope: no T1/T2
// dof-type bookkeeping, no Lagrange-multiplier essential-bc matrix, no
// dynamics coefficients — periodicity/Dirichlet are folded directly into
// the sparse engine and the only "stage" is the one steady-state solve.
type Domain struct {
	Problem *inp.Problem
	Mesh    *inp.Mesh
	Blocks  []inp.BlockProp
	Labels  []inp.BlockLabel
	Sol     Solution

	// ShadowOf maps a shadow Parallel circuit's index back to the Series
	// circuit it was split from by ResolveSeriesCircuits; empty if the
	// problem had no Series circuits. out/ uses this to collapse shadow
	// conductors back to their real circuit on write (spec.md §4.8).
	ShadowOf map[int]int

	// ACConductorRow gives the augmented-row index of every AC circuit
	// ele.ResolveACConductors found to need a real conductor-redirection
	// unknown (spec.md §4.4); empty if every circuit's uniform-density
	// approximation is exact. Unused by the DC/real regime, which — like
	// the original solver's own Static2D/StaticAxisymmetric dispatch —
	// never augments at all.
	ACConductorRow map[int]int

	bandwidth int
}

// NewDomain renumbers the mesh in place (spec.md §4.3's bandwidth-reduction
// pass must run exactly once, before any assembly), rewrites every Series
// circuit into its per-label Parallel equivalent, and returns the Domain
// ready for Solve. Labels and Blocks are taken directly from problem so
// ResolveSeriesCircuits' in-place Circuit-index rewrite on problem.Labels
// is the one Domain.Labels actually sees — passing a caller-owned copy of
// either slice here would silently desync the two.
func NewDomain(problem *inp.Problem, mesh *inp.Mesh) *Domain {
	bw := renum.Renumber(mesh)
	shadowOf := ResolveSeriesCircuits(problem)
	acConductorRow := ele.ResolveACConductors(mesh, problem, problem.Blocks, problem.Labels)
	return &Domain{Problem: problem, Mesh: mesh, Blocks: problem.Blocks, Labels: problem.Labels, ShadowOf: shadowOf, ACConductorRow: acConductorRow, bandwidth: bw}
}

// newRealSystem allocates a BigLinProb sized for this Domain's current mesh
// and bandwidth.
func (d *Domain) newRealSystem() *sparse.BigLinProb {
	return sparse.Create(len(d.Mesh.Nodes), d.bandwidth)
}

// newComplexSystem allocates a BigComplexLinProb sized for this Domain's
// mesh plus one augmented row per AC conductor in d.ACConductorRow
// (spec.md §4.4); with none, this is exactly sparse.CreateComplex.
func (d *Domain) newComplexSystem() *sparse.BigComplexLinProb {
	n := len(d.Mesh.Nodes)
	return sparse.CreateComplexWithConductors(n+len(d.ACConductorRow), d.bandwidth, n)
}

// allocRealSystem is newRealSystem with the arena's make() calls guarded: a
// mesh large enough to exhaust memory at the chosen bandwidth surfaces as a
// tagged allocation-failure rather than an unrecoverable runtime panic, per
// spec.md §7's allocation-failure error kind.
func (d *Domain) allocRealSystem() (sys *sparse.BigLinProb, err error) {
	defer func() {
		if r := recover(); r != nil {
			sys = nil
			err = inp.Tag(inp.ErrAllocationFailure, fmt.Sprintf(
				"fem: could not allocate linear system for N=%d, bandwidth=%d: %v", len(d.Mesh.Nodes), d.bandwidth, r))
		}
	}()
	return d.newRealSystem(), nil
}

func (d *Domain) allocComplexSystem() (sys *sparse.BigComplexLinProb, err error) {
	defer func() {
		if r := recover(); r != nil {
			sys = nil
			err = inp.Tag(inp.ErrAllocationFailure, fmt.Sprintf(
				"fem: could not allocate complex linear system for N=%d, bandwidth=%d: %v", len(d.Mesh.Nodes), d.bandwidth, r))
		}
	}()
	return d.newComplexSystem(), nil
}

// applyPeriodicity folds every periodic/anti-periodic node pair into the
// real system. It runs after the assembler has returned, and so after the
// assembler's own Dirichlet SetValue calls; Periodicity/AntiPeriodicity do
// not special-case previously-eliminated rows, but must run after elemental
// assembly has contributed every term each paired row will ever see.
func applyPeriodicity(sys *sparse.BigLinProb, mesh *inp.Mesh) {
	for _, pr := range mesh.Pairs {
		if pr.Tag == 0 {
			sys.Periodicity(pr.A, pr.B)
		} else {
			sys.AntiPeriodicity(pr.A, pr.B)
		}
	}
}

func applyPeriodicityComplex(sys *sparse.BigComplexLinProb, mesh *inp.Mesh) {
	for _, pr := range mesh.Pairs {
		if pr.Tag == 0 {
			sys.Periodicity(pr.A, pr.B)
		} else {
			sys.AntiPeriodicity(pr.A, pr.B)
		}
	}
}

// hasNonlinearBlock reports whether any block carries a B-H table, i.e.
// whether the outer loop in solver.go has anything nonlinear to iterate on
// at all (spec.md §4.7's "linear" flag).
func (d *Domain) hasNonlinearBlock() bool {
	for i := range d.Blocks {
		if d.Blocks[i].IsNonlinear() {
			return true
		}
	}
	return false
}

// checkReady panics if the Domain was not produced by NewDomain (bandwidth
// left at its zero value would make the sparse engine's SetValue scan no
// earlier rows at all, leaving their references to an eliminated column in
// place).
func (d *Domain) checkReady() {
	if d.bandwidth == 0 && len(d.Mesh.Nodes) > 1 {
		chk.Panic("fem: Domain must be constructed with NewDomain, not &Domain{...}")
	}
}
